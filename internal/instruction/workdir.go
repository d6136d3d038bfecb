package instruction

import "strings"

// Workdir sets the working directory for later instructions
type Workdir struct {
	Path string `yaml:"path"`
}

func (Workdir) Kind() Kind { return KindWorkdir }

func (w Workdir) String() string {
	return "WORKDIR " + w.Path
}

func (w Workdir) Expand(mapping func(string) string) Instruction {
	w.Path = mapping(w.Path)
	return w
}

func (w Workdir) Attributes() map[string]any {
	return map[string]any{"path": w.Path}
}

func (w Workdir) Validate() error {
	if w.Path == "" {
		return required(KindWorkdir, "path")
	}
	return nil
}

func ParseWorkdir(args string) (Workdir, error) {
	w := Workdir{Path: strings.TrimSpace(args)}
	return w, w.Validate()
}
