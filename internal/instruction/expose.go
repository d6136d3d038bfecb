package instruction

import (
	"strings"

	"github.com/docker/go-connections/nat"
)

// Expose documents the ports the container listens on
type Expose struct {
	Ports []string `yaml:"ports"`
}

func (Expose) Kind() Kind { return KindExpose }

func (e Expose) String() string {
	return "EXPOSE " + strings.Join(e.Ports, " ")
}

func (e Expose) Expand(mapping func(string) string) Instruction {
	e.Ports = expandAll(e.Ports, mapping)
	return e
}

func (e Expose) Attributes() map[string]any {
	return map[string]any{"ports": e.Ports}
}

func (e Expose) Validate() error {
	if len(e.Ports) == 0 {
		return required(KindExpose, "ports")
	}
	for _, p := range e.Ports {
		if err := validatePort(p); err != nil {
			return err
		}
	}
	return nil
}

// ParseExpose parses a whitespace separated list of port[/protocol] entries
func ParseExpose(args string) (Expose, error) {
	e := Expose{Ports: nilIfEmpty(strings.Fields(args))}
	return e, e.Validate()
}

func validatePort(port string) error {
	if HasTemplate(port) {
		return nil
	}
	proto, number := nat.SplitProtoPort(port)
	switch strings.ToLower(proto) {
	case "tcp", "udp", "sctp":
	default:
		return invalid(KindExpose, "port", port, "protocol must be tcp, udp or sctp")
	}
	if _, err := nat.NewPort(proto, number); err != nil {
		return &ValidationError{Kind: KindExpose, Field: "port", Value: port, Err: err}
	}
	return nil
}
