package instruction

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var cmdPattern = regexp.MustCompile(`(?i)(?:^|\s)(CMD)(?:\s|\[|$)`)

// Healthcheck tells the runtime how to test that the container still works.
// Timing fields are whole seconds; zero leaves the runtime default. Raw keeps
// option values, keyed by flag name, that still reference a variable.
type Healthcheck struct {
	Interval      int               `yaml:"interval,omitempty"`
	Timeout       int               `yaml:"timeout,omitempty"`
	StartPeriod   int               `yaml:"start_period,omitempty"`
	StartInterval int               `yaml:"start_interval,omitempty"`
	Retries       int               `yaml:"retries,omitempty"`
	Raw           map[string]string `yaml:"raw,omitempty"`
	Command       Cmd               `yaml:"command"`
	Disabled      bool              `yaml:"disabled,omitempty"`
}

// healthcheckFlags lists the options in rendering order
var healthcheckFlags = []string{"--interval", "--timeout", "--start-period", "--start-interval", "--retries"}

func (h *Healthcheck) field(flag string) *int {
	switch flag {
	case "--interval":
		return &h.Interval
	case "--timeout":
		return &h.Timeout
	case "--start-period":
		return &h.StartPeriod
	case "--start-interval":
		return &h.StartInterval
	case "--retries":
		return &h.Retries
	}
	return nil
}

func parseHealthcheckValue(flag, value string) (int, error) {
	if flag != "--retries" {
		return parseSeconds(flag, value)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid(KindHealthcheck, flag, value, "must be an integer")
	}
	return n, nil
}

func (Healthcheck) Kind() Kind { return KindHealthcheck }

func (h Healthcheck) String() string {
	if h.Disabled {
		return "HEALTHCHECK NONE"
	}

	var sb strings.Builder
	sb.WriteString("HEALTHCHECK")
	for _, flag := range healthcheckFlags {
		if raw, ok := h.Raw[flag]; ok {
			sb.WriteString(" " + flag + "=" + raw)
			continue
		}
		v := *h.field(flag)
		if v <= 0 {
			continue
		}
		if flag == "--retries" {
			sb.WriteString(" " + flag + "=" + strconv.Itoa(v))
		} else {
			sb.WriteString(" " + flag + "=" + strconv.Itoa(v) + "s")
		}
	}
	sb.WriteString(" " + h.Command.String())
	return sb.String()
}

// Expand substitutes the command and any raw option values. A raw value that
// no longer references a variable and parses is moved to its field.
func (h Healthcheck) Expand(mapping func(string) string) Instruction {
	h.Command = h.Command.Expand(mapping).(Cmd)
	if len(h.Raw) == 0 {
		return h
	}

	raw := make(map[string]string, len(h.Raw))
	for flag, value := range h.Raw {
		value = mapping(value)
		if !HasTemplate(value) {
			if n, err := parseHealthcheckValue(flag, value); err == nil {
				*h.field(flag) = n
				continue
			}
		}
		raw[flag] = value
	}
	h.Raw = nil
	if len(raw) > 0 {
		h.Raw = raw
	}
	return h
}

func (h Healthcheck) Attributes() map[string]any {
	return map[string]any{
		"interval":       h.Interval,
		"timeout":        h.Timeout,
		"start_period":   h.StartPeriod,
		"start_interval": h.StartInterval,
		"retries":        h.Retries,
		"command":        h.Command.Command,
		"disabled":       h.Disabled,
	}
}

func (h Healthcheck) Validate() error {
	if h.Disabled {
		return nil
	}
	for _, flag := range healthcheckFlags {
		if raw, ok := h.Raw[flag]; ok {
			if HasTemplate(raw) {
				continue
			}
			if _, err := parseHealthcheckValue(flag, raw); err != nil {
				return err
			}
		}
		if v := *h.field(flag); v < 0 {
			return invalid(KindHealthcheck, flag, strconv.Itoa(v), "must not be negative")
		}
	}
	for flag := range h.Raw {
		if h.field(flag) == nil {
			return invalid(KindHealthcheck, "flag", flag, "unknown option")
		}
	}
	if len(h.Command.Command) == 0 {
		return required(KindHealthcheck, "CMD")
	}
	return nil
}

// ParseHealthcheck parses NONE or [--interval=Ns] [--timeout=Ns]
// [--start-period=Ns] [--start-interval=Ns] [--retries=N] CMD command.
// Option values may reference variables.
func ParseHealthcheck(args string) (Healthcheck, error) {
	var h Healthcheck

	args = strings.TrimSpace(args)
	if strings.EqualFold(args, "NONE") {
		h.Disabled = true
		return h, nil
	}

	loc := cmdPattern.FindStringSubmatchIndex(args)
	if loc == nil {
		return h, required(KindHealthcheck, "CMD")
	}
	flags, command := args[:loc[2]], args[loc[3]:]

	for _, token := range strings.Fields(flags) {
		name, value, _ := strings.Cut(token, "=")
		field := h.field(name)
		if field == nil {
			return h, invalid(KindHealthcheck, "flag", token, "unknown option")
		}
		if HasTemplate(value) {
			if h.Raw == nil {
				h.Raw = map[string]string{}
			}
			h.Raw[name] = value
			continue
		}
		n, err := parseHealthcheckValue(name, value)
		if err != nil {
			return h, err
		}
		*field = n
	}

	cmd, err := ParseCmd(command)
	if err != nil {
		return h, required(KindHealthcheck, "CMD")
	}
	h.Command = cmd
	return h, h.Validate()
}

// parseSeconds accepts a bare number of seconds or a duration such as 30s or 1m30s
func parseSeconds(flag, value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d%time.Second != 0 {
		return 0, invalid(KindHealthcheck, flag, value, "must be a whole number of seconds")
	}
	return int(d / time.Second), nil
}
