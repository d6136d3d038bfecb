package instruction

import "strings"

// Volume declares mount points for externally provided storage
type Volume struct {
	Paths []string `yaml:"paths"`
}

func (Volume) Kind() Kind { return KindVolume }

func (v Volume) String() string {
	return "VOLUME " + formatList(v.Paths)
}

func (v Volume) Expand(mapping func(string) string) Instruction {
	v.Paths = expandAll(v.Paths, mapping)
	return v
}

func (v Volume) Attributes() map[string]any {
	return map[string]any{"paths": v.Paths}
}

func (v Volume) Validate() error {
	if len(v.Paths) == 0 {
		return required(KindVolume, "paths")
	}
	return nil
}

// ParseVolume accepts a JSON array, a bracketed list or whitespace separated paths
func ParseVolume(args string) (Volume, error) {
	paths, ok := parseList(args)
	if !ok {
		paths = nilIfEmpty(strings.Fields(args))
	}
	v := Volume{Paths: paths}
	return v, v.Validate()
}
