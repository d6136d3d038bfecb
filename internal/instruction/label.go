package instruction

// Label attaches metadata to the image
type Label struct {
	Labels []Pair `yaml:"labels"`
}

func (Label) Kind() Kind { return KindLabel }

func (l Label) String() string {
	return formatPairs("LABEL", l.Labels)
}

func (l Label) Expand(mapping func(string) string) Instruction {
	l.Labels = expandPairs(l.Labels, mapping)
	return l
}

func (l Label) Attributes() map[string]any {
	attrs := map[string]any{
		"labels": pairMap(l.Labels),
	}
	if len(l.Labels) > 0 {
		attrs["name"] = l.Labels[0].Key
		attrs["value"] = l.Labels[0].Value
	}
	return attrs
}

func (l Label) Validate() error {
	if len(l.Labels) == 0 {
		return required(KindLabel, "labels")
	}
	for _, p := range l.Labels {
		if p.Key == "" {
			return invalid(KindLabel, "name", p.Value, "label name is empty")
		}
	}
	return nil
}

// ParseLabel parses name=value pairs
func ParseLabel(args string) (Label, error) {
	pairs, err := parsePairs(KindLabel, args)
	if err != nil {
		return Label{}, err
	}
	l := Label{Labels: pairs}
	return l, l.Validate()
}
