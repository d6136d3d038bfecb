package resolve

import (
	"regexp"
	"strings"
)

var (
	templatePattern = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_]*)(?:(:[-+])([^}]*))?\}|([A-Za-z_][A-Za-z0-9_]*))`)
	wholePattern    = regexp.MustCompile(`^\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))$`)
)

// Lookup returns the value of a variable and whether it should be substituted
type Lookup func(name string) (string, bool)

// Expand replaces $NAME, ${NAME}, ${NAME:-word} and ${NAME:+word} in s.
// References for which lookup reports false are left exactly as written.
func Expand(s string, lookup Lookup) string {
	if !strings.Contains(s, "$") {
		return s
	}

	return templatePattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := templatePattern.FindStringSubmatch(ref)
		name, modifier, word := m[1], m[2], m[3]
		if name == "" {
			name = m[4]
		}

		value, ok := lookup(name)
		if !ok {
			return ref
		}
		switch modifier {
		case ":-":
			if value == "" {
				return Expand(word, lookup)
			}
		case ":+":
			if value == "" {
				return ""
			}
			return Expand(word, lookup)
		}
		return value
	})
}

// References lists the variable names referenced by s, in order of appearance
func References(s string) []string {
	matches := templatePattern.FindAllStringSubmatch(s, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] != "" {
			names = append(names, m[1])
		} else {
			names = append(names, m[4])
		}
	}
	return names
}

// wholeReference returns the name s refers to when s is exactly one $NAME or
// ${NAME} reference.
func wholeReference(s string) (string, bool) {
	m := wholePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// stripTemplate removes template markers from an ARG name written as $NAME
// or ${NAME}
func stripTemplate(name string) string {
	if ref, ok := wholeReference(name); ok {
		return ref
	}
	return name
}
