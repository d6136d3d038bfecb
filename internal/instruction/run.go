package instruction

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Sarang095/dcrx/internal/mount"
)

// Network modes for RUN --network
const (
	NetworkDefault = "default"
	NetworkHost    = "host"
	NetworkNone    = "none"
)

// Security modes for RUN --security
const (
	SecurityInsecure = "insecure"
	SecuritySandbox  = "sandbox"
)

// Run executes a shell command while building
type Run struct {
	Command  string        `yaml:"command"`
	Mounts   []mount.Mount `yaml:"mounts,omitempty"`
	Network  string        `yaml:"network,omitempty"`
	Security string        `yaml:"security,omitempty"`
}

func (Run) Kind() Kind { return KindRun }

// Mount returns the first mount, or nil when the command has none
func (r Run) Mount() mount.Mount {
	if len(r.Mounts) == 0 {
		return nil
	}
	return r.Mounts[0]
}

func (r Run) String() string {
	var sb strings.Builder
	sb.WriteString("RUN")
	for _, m := range r.Mounts {
		sb.WriteString(" " + m.String())
	}
	if r.Network != "" {
		sb.WriteString(" --network=" + r.Network)
	}
	if r.Security != "" {
		sb.WriteString(" --security=" + r.Security)
	}
	sb.WriteString(" " + r.Command)
	return sb.String()
}

func (r Run) Expand(mapping func(string) string) Instruction {
	r.Command = mapping(r.Command)
	if r.Mounts != nil {
		mounts := make([]mount.Mount, len(r.Mounts))
		for i, m := range r.Mounts {
			mounts[i] = m.Expand(mapping)
		}
		r.Mounts = mounts
	}
	return r
}

func (r Run) Attributes() map[string]any {
	attrs := map[string]any{
		"command":  r.Command,
		"network":  r.Network,
		"security": r.Security,
		"mount":    nil,
	}
	mounts := make([]any, 0, len(r.Mounts))
	for _, m := range r.Mounts {
		mounts = append(mounts, m)
	}
	attrs["mounts"] = mounts
	if m := r.Mount(); m != nil {
		attrs["mount"] = m
		attrs["mount_type"] = string(m.Type())
	}
	return attrs
}

func (r Run) Validate() error {
	if strings.TrimSpace(r.Command) == "" {
		return required(KindRun, "command")
	}
	for _, m := range r.Mounts {
		if m == nil {
			return required(KindRun, "--mount")
		}
		if err := m.Validate(); err != nil {
			return &ValidationError{Kind: KindRun, Field: "--mount", Err: err}
		}
	}
	switch r.Network {
	case "", NetworkDefault, NetworkHost, NetworkNone:
	default:
		return invalid(KindRun, "--network", r.Network, "must be one of default, host, none")
	}
	switch r.Security {
	case "", SecurityInsecure, SecuritySandbox:
	default:
		return invalid(KindRun, "--security", r.Security, "must be one of insecure, sandbox")
	}
	return nil
}

// ParseRun parses [--mount=...]... [--network=mode] [--security=mode] command
func ParseRun(args string) (Run, error) {
	var r Run

	rest := strings.TrimSpace(args)
	for strings.HasPrefix(rest, "--") {
		token, remaining := splitFlag(rest)
		switch {
		case strings.HasPrefix(token, mount.Flag):
			m, err := mount.Parse(token)
			if err != nil {
				return r, &ValidationError{Kind: KindRun, Field: "--mount", Err: err}
			}
			r.Mounts = append(r.Mounts, m)
		case strings.HasPrefix(token, "--network="):
			r.Network = networkMode(strings.TrimPrefix(token, "--network="))
		case strings.HasPrefix(token, "--security="):
			r.Security = securityMode(strings.TrimPrefix(token, "--security="))
		default:
			// not a RUN flag, so it starts the command
			r.Command = rest
			return r, r.Validate()
		}
		rest = remaining
	}

	r.Command = rest
	return r, r.Validate()
}

func networkMode(mode string) string {
	switch mode {
	case NetworkDefault, NetworkHost, NetworkNone:
		return mode
	}
	log.Debugf("unrecognized RUN network mode %q, using %s", mode, NetworkNone)
	return NetworkNone
}

func securityMode(mode string) string {
	switch mode {
	case SecurityInsecure, SecuritySandbox:
		return mode
	}
	log.Debugf("unrecognized RUN security mode %q, using %s", mode, SecurityInsecure)
	return SecurityInsecure
}
