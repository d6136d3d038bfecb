package instruction

import "strings"

// Maintainer records the image author. Deprecated upstream in favour of a
// label, but still accepted.
type Maintainer struct {
	Author string `yaml:"author"`
}

func (Maintainer) Kind() Kind { return KindMaintainer }

func (m Maintainer) String() string {
	return "MAINTAINER " + m.Author
}

func (m Maintainer) Expand(mapping func(string) string) Instruction {
	m.Author = mapping(m.Author)
	return m
}

func (m Maintainer) Attributes() map[string]any {
	return map[string]any{"author": m.Author}
}

func (m Maintainer) Validate() error {
	if m.Author == "" {
		return required(KindMaintainer, "author")
	}
	return nil
}

func ParseMaintainer(args string) (Maintainer, error) {
	m := Maintainer{Author: strings.TrimSpace(args)}
	return m, m.Validate()
}
