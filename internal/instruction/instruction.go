// Package instruction defines one typed value per build instruction kind.
// Every variant can render itself as instruction text and be parsed back
// from it; the registry maps directive keywords to the matching parser.
package instruction

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind tags an instruction variant. It is used both for dispatch and for
// querying a document, and is never inferred from the value's shape.
type Kind string

const (
	KindStage       Kind = "stage"
	KindArg         Kind = "arg"
	KindEnv         Kind = "env"
	KindRun         Kind = "run"
	KindCopy        Kind = "copy"
	KindAdd         Kind = "add"
	KindCmd         Kind = "cmd"
	KindEntrypoint  Kind = "entrypoint"
	KindExpose      Kind = "expose"
	KindHealthcheck Kind = "healthcheck"
	KindLabel       Kind = "label"
	KindMaintainer  Kind = "maintainer"
	KindOnBuild     Kind = "onbuild"
	KindShell       Kind = "shell"
	KindStopSignal  Kind = "stopsignal"
	KindUser        Kind = "user"
	KindVolume      Kind = "volume"
	KindWorkdir     Kind = "workdir"
)

// Instruction is implemented by every variant. Variants are values: methods
// that change content return a new Instruction and leave the receiver as is.
type Instruction interface {
	Kind() Kind
	// String renders the instruction as canonical instruction text
	String() string
	// Expand returns a copy with every string field passed through mapping
	Expand(mapping func(string) string) Instruction
	// Attributes exposes the instruction's fields by name for queries
	Attributes() map[string]any
	Validate() error
}

// ValidationError reports a field value that violates a kind's constraints
type ValidationError struct {
	Kind   Kind
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	keyword := KeywordFor(e.Kind)
	switch {
	case e.Err != nil:
		return fmt.Sprintf("invalid %s %s: %v", keyword, e.Field, e.Err)
	case e.Value != "":
		return fmt.Sprintf("invalid %s %s %q: %s", keyword, e.Field, e.Value, e.Reason)
	default:
		return fmt.Sprintf("invalid %s %s: %s", keyword, e.Field, e.Reason)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(kind Kind, field, value, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Value: value, Reason: reason}
}

func required(kind Kind, field string) *ValidationError {
	return invalid(kind, field, "", "is required")
}

var (
	permissionsPattern = regexp.MustCompile(`^[0-7]{3,4}$`)
	templatePattern    = regexp.MustCompile(`\$(\{[A-Za-z_][A-Za-z0-9_]*[^}]*\}|[A-Za-z_][A-Za-z0-9_]*)`)
)

// HasTemplate reports whether s contains a $NAME or ${NAME} reference
func HasTemplate(s string) bool {
	return templatePattern.MatchString(s)
}

func validatePermissions(kind Kind, permissions string) error {
	if permissions == "" || HasTemplate(permissions) || permissionsPattern.MatchString(permissions) {
		return nil
	}
	return invalid(kind, "--chmod", permissions, "permissions must be 3-4 octal digits")
}

func expandAll(values []string, mapping func(string) string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = mapping(v)
	}
	return out
}

// splitFlag separates a leading --flag token from the rest of text
func splitFlag(text string) (string, string) {
	text = strings.TrimLeft(text, " \t")
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return text[:i], strings.TrimLeft(text[i:], " \t")
	}
	return text, ""
}

func splitOwner(owner string) (string, string) {
	user, group, _ := strings.Cut(owner, ":")
	return user, group
}

func joinOwner(user, group string) string {
	if group == "" {
		return user
	}
	return user + ":" + group
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
