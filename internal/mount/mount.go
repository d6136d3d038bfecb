// Package mount models the filesystem mounts a RUN instruction can request
// with --mount.
package mount

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Type is the mount kind named by the type= option
type Type string

const (
	TypeBind   Type = "bind"
	TypeCache  Type = "cache"
	TypeSecret Type = "secret"
	TypeSSH    Type = "ssh"
	TypeTmpFs  Type = "tmpfs"
)

// Flag is the RUN flag prefix that introduces a mount
const Flag = "--mount="

// Mount is one of Bind, Cache, Secret, SSH or TmpFs
type Mount interface {
	Type() Type
	// String renders the mount as a complete --mount= flag
	String() string
	// Expand returns a copy with every string option passed through mapping
	Expand(mapping func(string) string) Mount
	Validate() error
	Attributes() map[string]any
}

// OptionError reports an invalid mount option value
type OptionError struct {
	Type   Type
	Option string
	Value  string
	Reason string
}

func (e *OptionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s mount: %s %s", e.Type, e.Option, e.Reason)
	}
	return fmt.Sprintf("%s mount: invalid %s %q: %s", e.Type, e.Option, e.Value, e.Reason)
}

var (
	modePattern = regexp.MustCompile(`^[0-7]{3,4}$`)
	idPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// Parse decodes the comma separated option list that follows --mount=.
// The mount kind is taken from the type= option and defaults to bind.
func Parse(spec string) (Mount, error) {
	spec = strings.TrimPrefix(strings.TrimSpace(spec), Flag)
	opts := splitOptions(spec)

	typ := TypeBind
	for _, opt := range opts {
		if opt.key == "type" {
			typ = Type(strings.ToLower(opt.value))
		}
	}

	var m Mount
	switch typ {
	case TypeBind:
		m = parseBind(opts)
	case TypeCache:
		m = parseCache(opts)
	case TypeSecret:
		m = parseSecret(opts)
	case TypeSSH:
		m = parseSSH(opts)
	case TypeTmpFs:
		tmpfs, err := parseTmpFs(opts)
		if err != nil {
			return nil, err
		}
		m = tmpfs
	default:
		return nil, &OptionError{Type: typ, Option: "type", Value: string(typ), Reason: "unknown mount type"}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

type option struct {
	key   string
	value string
	bare  bool
}

func splitOptions(spec string) []option {
	opts := make([]option, 0)
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, value, found := strings.Cut(field, "=")
		opts = append(opts, option{
			key:   normalizeKey(strings.ToLower(strings.TrimSpace(key))),
			value: strings.TrimSpace(value),
			bare:  !found,
		})
	}
	return opts
}

func normalizeKey(key string) string {
	switch key {
	case "dst", "destination":
		return "target"
	case "src":
		return "source"
	case "readonly":
		return "ro"
	case "readwrite":
		return "rw"
	}
	return key
}

// flagValue interprets a bare flag or a key=true|false option
func flagValue(opt option) bool {
	if opt.bare {
		return true
	}
	b, err := strconv.ParseBool(opt.value)
	if err != nil {
		log.Debugf("mount option %s=%s is not a boolean, treating as set", opt.key, opt.value)
		return true
	}
	return b
}

func ignored(typ Type, opt option) {
	if opt.key != "type" {
		log.Debugf("ignoring unsupported %s mount option %q", typ, opt.key)
	}
}

func hasTemplate(s string) bool {
	return strings.Contains(s, "$")
}

func validateMode(typ Type, mode string) error {
	if mode == "" || hasTemplate(mode) || modePattern.MatchString(mode) {
		return nil
	}
	return &OptionError{Type: typ, Option: "mode", Value: mode, Reason: "must be 3-4 octal digits"}
}

func validateID(typ Type, option, id string) error {
	if id == "" || hasTemplate(id) || idPattern.MatchString(id) {
		return nil
	}
	return &OptionError{Type: typ, Option: option, Value: id, Reason: "must be numeric"}
}

func requireTarget(typ Type, target string) error {
	if target == "" {
		return &OptionError{Type: typ, Option: "target", Reason: "is required"}
	}
	return nil
}

// builder accumulates the comma separated options of a --mount flag
type builder struct {
	sb strings.Builder
}

func newBuilder(typ Type) *builder {
	b := &builder{}
	b.sb.WriteString(Flag)
	b.sb.WriteString("type=")
	b.sb.WriteString(string(typ))
	return b
}

func (b *builder) opt(key, value string) {
	if value == "" {
		return
	}
	b.sb.WriteString(",")
	b.sb.WriteString(key)
	b.sb.WriteString("=")
	b.sb.WriteString(value)
}

func (b *builder) flag(name string, set bool) {
	if set {
		b.sb.WriteString(",")
		b.sb.WriteString(name)
	}
}

func (b *builder) String() string {
	return b.sb.String()
}
