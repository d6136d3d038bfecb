package instruction

import "strings"

// Shell overrides the shell used for the shell form of later instructions
type Shell struct {
	Executable string   `yaml:"executable"`
	Parameters []string `yaml:"parameters,omitempty"`
}

func (Shell) Kind() Kind { return KindShell }

func (s Shell) String() string {
	return "SHELL " + formatList(append([]string{s.Executable}, s.Parameters...))
}

func (s Shell) Expand(mapping func(string) string) Instruction {
	s.Executable = mapping(s.Executable)
	s.Parameters = expandAll(s.Parameters, mapping)
	return s
}

func (s Shell) Attributes() map[string]any {
	return map[string]any{
		"executable": s.Executable,
		"parameters": s.Parameters,
	}
}

func (s Shell) Validate() error {
	if s.Executable == "" {
		return required(KindShell, "executable")
	}
	return nil
}

// ParseShell parses the JSON form SHELL ["executable", "parameters"...]
func ParseShell(args string) (Shell, error) {
	items, ok := parseList(args)
	if !ok {
		return Shell{}, invalid(KindShell, "command", strings.TrimSpace(args), "must be a JSON array")
	}
	if len(items) == 0 {
		return Shell{}, required(KindShell, "executable")
	}
	s := Shell{Executable: items[0], Parameters: nilIfEmpty(items[1:])}
	return s, s.Validate()
}
