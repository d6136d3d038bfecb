package instruction

import (
	"strings"

	"github.com/docker/distribution/reference"
)

// DefaultTag is used when a stage's image reference carries no tag
const DefaultTag = "latest"

// Stage starts a build stage from a base image (the FROM instruction)
type Stage struct {
	Base     string `yaml:"base"`
	Tag      string `yaml:"tag,omitempty"`
	Digest   string `yaml:"digest,omitempty"`
	Platform string `yaml:"platform,omitempty"`
	Alias    string `yaml:"alias,omitempty"`
}

func (Stage) Kind() Kind { return KindStage }

// Image returns the full image reference
func (s Stage) Image() string {
	image := s.Base
	if s.Tag != "" {
		image += ":" + s.Tag
	}
	if s.Digest != "" {
		image += "@" + s.Digest
	}
	return image
}

func (s Stage) String() string {
	var sb strings.Builder
	sb.WriteString("FROM ")
	if s.Platform != "" {
		sb.WriteString("--platform=" + s.Platform + " ")
	}
	sb.WriteString(s.Image())
	if s.Alias != "" {
		sb.WriteString(" AS " + s.Alias)
	}
	return sb.String()
}

func (s Stage) Expand(mapping func(string) string) Instruction {
	s.Base = mapping(s.Base)
	s.Tag = mapping(s.Tag)
	s.Digest = mapping(s.Digest)
	s.Platform = mapping(s.Platform)
	s.Alias = mapping(s.Alias)
	return s
}

func (s Stage) Attributes() map[string]any {
	return map[string]any{
		"base":     s.Base,
		"tag":      s.Tag,
		"digest":   s.Digest,
		"platform": s.Platform,
		"alias":    s.Alias,
	}
}

func (s Stage) Validate() error {
	if s.Base == "" {
		return required(KindStage, "base image")
	}
	if strings.ContainsAny(s.Base, " \t") {
		return invalid(KindStage, "base image", s.Base, "must not contain whitespace")
	}
	return nil
}

// ParseStage parses the arguments of a FROM instruction:
// [--platform=P] image[:tag][@digest] [AS alias]
func ParseStage(args string) (Stage, error) {
	var s Stage

	tokens := strings.Fields(args)
	image := ""
	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		switch {
		case strings.HasPrefix(token, "--platform="):
			s.Platform = strings.TrimPrefix(token, "--platform=")
		case strings.HasPrefix(token, "--"):
			continue
		case image == "":
			image = token
		case strings.EqualFold(token, "as") && i+1 < len(tokens):
			s.Alias = tokens[i+1]
			i++
		}
	}

	if image == "" {
		return s, required(KindStage, "base image")
	}
	s.Base, s.Tag, s.Digest = splitImage(image)
	if s.Tag == "" && s.Digest == "" {
		s.Tag = DefaultTag
	}
	return s, s.Validate()
}

// splitImage breaks an image reference into name, tag and digest. References
// that do not parse (for example ones containing templates) are split on the
// last ':' after the last '/'.
func splitImage(image string) (string, string, string) {
	if ref, err := reference.Parse(image); err == nil {
		var name, tag, digest string
		if named, ok := ref.(reference.Named); ok {
			name = named.Name()
		}
		if tagged, ok := ref.(reference.Tagged); ok {
			tag = tagged.Tag()
		}
		if digested, ok := ref.(reference.Digested); ok {
			digest = digested.Digest().String()
		}
		if name != "" {
			return name, tag, digest
		}
	}

	name, digest, _ := strings.Cut(image, "@")
	tag := ""
	if i := strings.LastIndex(name, ":"); i > strings.LastIndex(name, "/") {
		name, tag = name[:i], name[i+1:]
	}
	return name, tag, digest
}
