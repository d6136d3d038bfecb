package instruction

import "strings"

// shellPrefix is the exec form a shell-form command is converted to
var shellPrefix = []string{"/bin/sh", "-c"}

// Cmd sets the default command of the image
type Cmd struct {
	Command []string `yaml:"command"`
}

func (Cmd) Kind() Kind { return KindCmd }

func (c Cmd) String() string {
	return "CMD " + formatList(c.Command)
}

func (c Cmd) Expand(mapping func(string) string) Instruction {
	c.Command = expandAll(c.Command, mapping)
	return c
}

func (c Cmd) Attributes() map[string]any {
	return map[string]any{"command": c.Command}
}

func (c Cmd) Validate() error {
	if len(c.Command) == 0 {
		return required(KindCmd, "command")
	}
	return nil
}

// ParseCmd parses the exec (JSON array) or shell form of CMD
func ParseCmd(args string) (Cmd, error) {
	c := Cmd{Command: parseCommand(args)}
	return c, c.Validate()
}

// Entrypoint sets the executable the container runs
type Entrypoint struct {
	Command []string `yaml:"command"`
}

func (Entrypoint) Kind() Kind { return KindEntrypoint }

func (e Entrypoint) String() string {
	return "ENTRYPOINT " + formatList(e.Command)
}

func (e Entrypoint) Expand(mapping func(string) string) Instruction {
	e.Command = expandAll(e.Command, mapping)
	return e
}

func (e Entrypoint) Attributes() map[string]any {
	return map[string]any{"command": e.Command}
}

func (e Entrypoint) Validate() error {
	if len(e.Command) == 0 {
		return required(KindEntrypoint, "command")
	}
	return nil
}

// ParseEntrypoint parses the exec (JSON array) or shell form of ENTRYPOINT
func ParseEntrypoint(args string) (Entrypoint, error) {
	e := Entrypoint{Command: parseCommand(args)}
	return e, e.Validate()
}

func parseCommand(args string) []string {
	if items, ok := parseList(args); ok {
		return items
	}
	args = strings.TrimSpace(args)
	if args == "" {
		return nil
	}
	return append(append([]string{}, shellPrefix...), args)
}
