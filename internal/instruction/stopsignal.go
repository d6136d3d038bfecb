package instruction

import (
	"strconv"
	"strings"
)

// StopSignal sets the system call signal sent to stop the container. Template
// holds the argument text instead of Signal while it references a variable.
type StopSignal struct {
	Signal   int    `yaml:"signal,omitempty"`
	Template string `yaml:"template,omitempty"`
}

func (StopSignal) Kind() Kind { return KindStopSignal }

func (s StopSignal) String() string {
	if s.Template != "" {
		return "STOPSIGNAL " + s.Template
	}
	return "STOPSIGNAL " + strconv.Itoa(s.Signal)
}

// Expand substitutes the template and converts it to a signal number once
// it no longer references a variable.
func (s StopSignal) Expand(mapping func(string) string) Instruction {
	if s.Template == "" {
		return s
	}
	value := mapping(s.Template)
	if !HasTemplate(value) {
		if parsed, err := ParseStopSignal(value); err == nil {
			return parsed
		}
	}
	s.Template = value
	return s
}

func (s StopSignal) Attributes() map[string]any {
	return map[string]any{"signal": s.Signal, "template": s.Template}
}

func (s StopSignal) Validate() error {
	if s.Template != "" {
		if HasTemplate(s.Template) {
			return nil
		}
		return invalid(KindStopSignal, "signal", s.Template, "unknown signal")
	}
	if s.Signal <= 0 {
		return invalid(KindStopSignal, "signal", strconv.Itoa(s.Signal), "must be a positive signal number")
	}
	return nil
}

// ParseStopSignal accepts a signal number or a name such as SIGTERM or TERM
func ParseStopSignal(args string) (StopSignal, error) {
	value := strings.TrimSpace(args)
	if value == "" {
		return StopSignal{}, required(KindStopSignal, "signal")
	}
	if HasTemplate(value) {
		return StopSignal{Template: value}, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		s := StopSignal{Signal: n}
		return s, s.Validate()
	}

	name := strings.ToUpper(value)
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	n := signalNumber(name)
	if n == 0 {
		return StopSignal{}, invalid(KindStopSignal, "signal", value, "unknown signal")
	}
	return StopSignal{Signal: n}, nil
}
