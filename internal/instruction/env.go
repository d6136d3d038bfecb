package instruction

// Env sets one or more environment variables
type Env struct {
	Variables []Pair `yaml:"variables"`
}

func (Env) Kind() Kind { return KindEnv }

func (e Env) String() string {
	return formatPairs("ENV", e.Variables)
}

func (e Env) Expand(mapping func(string) string) Instruction {
	e.Variables = expandPairs(e.Variables, mapping)
	return e
}

func (e Env) Attributes() map[string]any {
	attrs := map[string]any{
		"variables": pairMap(e.Variables),
	}
	if len(e.Variables) > 0 {
		attrs["key"] = e.Variables[0].Key
		attrs["value"] = e.Variables[0].Value
	}
	return attrs
}

func (e Env) Validate() error {
	if len(e.Variables) == 0 {
		return required(KindEnv, "variables")
	}
	for _, v := range e.Variables {
		if v.Key == "" {
			return invalid(KindEnv, "key", v.Value, "variable name is empty")
		}
	}
	return nil
}

// Lookup returns the value assigned to key
func (e Env) Lookup(key string) (string, bool) {
	for _, v := range e.Variables {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// ParseEnv parses KEY=VALUE pairs or a single KEY VALUE declaration
func ParseEnv(args string) (Env, error) {
	pairs, err := parsePairs(KindEnv, args)
	if err != nil {
		return Env{}, err
	}
	e := Env{Variables: pairs}
	return e, e.Validate()
}
