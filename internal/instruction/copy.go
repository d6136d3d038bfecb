package instruction

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Copy copies files from the build context or another stage
type Copy struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	UserID      string `yaml:"user_id,omitempty"`
	GroupID     string `yaml:"group_id,omitempty"`
	Permissions string `yaml:"permissions,omitempty"`
	FromLayer   string `yaml:"from_layer,omitempty"`
	Link        bool   `yaml:"link,omitempty"`
}

func (Copy) Kind() Kind { return KindCopy }

func (c Copy) String() string {
	return transfer{
		source:      c.Source,
		destination: c.Destination,
		userID:      c.UserID,
		groupID:     c.GroupID,
		permissions: c.Permissions,
		from:        c.FromLayer,
		link:        c.Link,
	}.format("COPY")
}

func (c Copy) Expand(mapping func(string) string) Instruction {
	c.Source = mapping(c.Source)
	c.Destination = mapping(c.Destination)
	c.UserID = mapping(c.UserID)
	c.GroupID = mapping(c.GroupID)
	c.Permissions = mapping(c.Permissions)
	c.FromLayer = mapping(c.FromLayer)
	return c
}

func (c Copy) Attributes() map[string]any {
	return map[string]any{
		"source":      c.Source,
		"destination": c.Destination,
		"user_id":     c.UserID,
		"group_id":    c.GroupID,
		"permissions": c.Permissions,
		"from_layer":  c.FromLayer,
		"link":        c.Link,
	}
}

func (c Copy) Validate() error {
	return validateTransfer(KindCopy, c.Source, c.Destination, c.Permissions)
}

// ParseCopy parses [--chown=u[:g]] [--chmod=perm] [--from=stage] [--link] src dest
func ParseCopy(args string) (Copy, error) {
	t, err := parseTransfer(KindCopy, args)
	if err != nil {
		return Copy{}, err
	}
	c := Copy{
		Source:      t.source,
		Destination: t.destination,
		UserID:      t.userID,
		GroupID:     t.groupID,
		Permissions: t.permissions,
		FromLayer:   t.from,
		Link:        t.link,
	}
	return c, c.Validate()
}

// Add copies local files, remote URLs or archives into the image
type Add struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	UserID      string `yaml:"user_id,omitempty"`
	GroupID     string `yaml:"group_id,omitempty"`
	Permissions string `yaml:"permissions,omitempty"`
	Checksum    string `yaml:"checksum,omitempty"`
	Link        bool   `yaml:"link,omitempty"`
}

func (Add) Kind() Kind { return KindAdd }

func (a Add) String() string {
	return transfer{
		source:      a.Source,
		destination: a.Destination,
		userID:      a.UserID,
		groupID:     a.GroupID,
		permissions: a.Permissions,
		checksum:    a.Checksum,
		link:        a.Link,
	}.format("ADD")
}

func (a Add) Expand(mapping func(string) string) Instruction {
	a.Source = mapping(a.Source)
	a.Destination = mapping(a.Destination)
	a.UserID = mapping(a.UserID)
	a.GroupID = mapping(a.GroupID)
	a.Permissions = mapping(a.Permissions)
	a.Checksum = mapping(a.Checksum)
	return a
}

func (a Add) Attributes() map[string]any {
	return map[string]any{
		"source":      a.Source,
		"destination": a.Destination,
		"user_id":     a.UserID,
		"group_id":    a.GroupID,
		"permissions": a.Permissions,
		"checksum":    a.Checksum,
		"link":        a.Link,
	}
}

func (a Add) Validate() error {
	return validateTransfer(KindAdd, a.Source, a.Destination, a.Permissions)
}

// IsRemote reports whether the source is fetched rather than read from the
// build context.
func (a Add) IsRemote() bool {
	for _, prefix := range []string{"http://", "https://", "git@"} {
		if strings.HasPrefix(a.Source, prefix) {
			return true
		}
	}
	return false
}

// ParseAdd parses [--chown=u[:g]] [--chmod=perm] [--checksum=c] [--link] src dest
func ParseAdd(args string) (Add, error) {
	t, err := parseTransfer(KindAdd, args)
	if err != nil {
		return Add{}, err
	}
	a := Add{
		Source:      t.source,
		Destination: t.destination,
		UserID:      t.userID,
		GroupID:     t.groupID,
		Permissions: t.permissions,
		Checksum:    t.checksum,
		Link:        t.link,
	}
	return a, a.Validate()
}

// transfer holds the flag and path surface shared by ADD and COPY
type transfer struct {
	source      string
	destination string
	userID      string
	groupID     string
	permissions string
	checksum    string
	from        string
	link        bool
}

func (t transfer) format(keyword string) string {
	var sb strings.Builder
	sb.WriteString(keyword)
	if t.userID != "" || t.groupID != "" {
		sb.WriteString(" --chown=" + joinOwner(t.userID, t.groupID))
	}
	if t.permissions != "" {
		sb.WriteString(" --chmod=" + t.permissions)
	}
	if t.checksum != "" {
		sb.WriteString(" --checksum=" + t.checksum)
	}
	if t.from != "" {
		sb.WriteString(" --from=" + t.from)
	}
	if t.link {
		sb.WriteString(" --link")
	}
	sb.WriteString(" " + t.source + " " + t.destination)
	return sb.String()
}

func parseTransfer(kind Kind, args string) (transfer, error) {
	var t transfer

	positional := make([]string, 0)
	tokens := strings.Fields(args)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "--") {
			if strings.HasPrefix(token, "[") {
				if items, ok := parseList(strings.Join(tokens[i:], " ")); ok {
					positional = append(positional, items...)
					break
				}
			}
			positional = append(positional, token)
			continue
		}

		name, value, _ := strings.Cut(token, "=")
		switch name {
		case "--chown":
			t.userID, t.groupID = splitOwner(value)
		case "--chmod":
			t.permissions = value
		case "--checksum":
			if kind != KindAdd {
				log.Debugf("%s does not support --checksum, ignoring it", KeywordFor(kind))
				continue
			}
			t.checksum = value
		case "--from":
			if kind != KindCopy {
				return t, invalid(kind, "--from", value, "only COPY supports copying from another stage")
			}
			t.from = value
		case "--link":
			t.link = value == "" || value == "true"
		default:
			log.Debugf("ignoring unsupported %s flag %s", KeywordFor(kind), token)
		}
	}

	switch {
	case len(positional) < 2:
		return t, invalid(kind, "arguments", strings.Join(positional, " "), "requires a source and a destination")
	default:
		last := len(positional) - 1
		t.source = strings.Join(positional[:last], " ")
		t.destination = positional[last]
	}
	return t, nil
}

func validateTransfer(kind Kind, source, destination, permissions string) error {
	if source == "" {
		return required(kind, "source")
	}
	if destination == "" {
		return required(kind, "destination")
	}
	return validatePermissions(kind, permissions)
}
