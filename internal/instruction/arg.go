package instruction

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Arg declares a build argument with an optional default
type Arg struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default,omitempty"`
}

func (Arg) Kind() Kind { return KindArg }

func (a Arg) String() string {
	if a.Default == "" {
		return "ARG " + a.Name
	}
	return "ARG " + a.Name + "=" + quote(a.Default)
}

func (a Arg) Expand(mapping func(string) string) Instruction {
	a.Default = mapping(a.Default)
	return a
}

func (a Arg) Attributes() map[string]any {
	return map[string]any{
		"name":    a.Name,
		"default": a.Default,
	}
}

func (a Arg) Validate() error {
	if a.Name == "" {
		return required(KindArg, "name")
	}
	if strings.ContainsAny(a.Name, " \t=") {
		return invalid(KindArg, "name", a.Name, "must not contain whitespace or '='")
	}
	return nil
}

// ParseArg parses NAME, NAME=value or NAME="value"
func ParseArg(args string) (Arg, error) {
	words := splitWords(args)
	if len(words) == 0 {
		return Arg{}, required(KindArg, "name")
	}
	if len(words) > 1 {
		log.Debugf("ARG %s: ignoring extra declarations %v", words[0], words[1:])
	}

	name, def, _ := strings.Cut(words[0], "=")
	a := Arg{Name: name, Default: def}
	return a, a.Validate()
}
