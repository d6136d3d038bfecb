package mount

// Bind mounts a directory from the build context or another stage. Bind
// mounts are read-only unless ReadWrite is set.
type Bind struct {
	Target    string `yaml:"target"`
	Source    string `yaml:"source,omitempty"`
	FromLayer string `yaml:"from_layer,omitempty"`
	ReadWrite bool   `yaml:"readwrite,omitempty"`
}

func (Bind) Type() Type { return TypeBind }

func (m Bind) String() string {
	b := newBuilder(TypeBind)
	b.opt("target", m.Target)
	b.opt("source", m.Source)
	b.opt("from", m.FromLayer)
	b.flag("rw", m.ReadWrite)
	return b.String()
}

func (m Bind) Expand(mapping func(string) string) Mount {
	m.Target = mapping(m.Target)
	m.Source = mapping(m.Source)
	m.FromLayer = mapping(m.FromLayer)
	return m
}

func (m Bind) Validate() error {
	return requireTarget(TypeBind, m.Target)
}

func (m Bind) Attributes() map[string]any {
	return map[string]any{
		"mount_type": string(TypeBind),
		"target":     m.Target,
		"source":     m.Source,
		"from_layer": m.FromLayer,
		"readwrite":  m.ReadWrite,
	}
}

func parseBind(opts []option) Bind {
	var m Bind
	for _, opt := range opts {
		switch opt.key {
		case "target":
			m.Target = opt.value
		case "source":
			m.Source = opt.value
		case "from":
			m.FromLayer = opt.value
		case "rw":
			m.ReadWrite = flagValue(opt)
		case "ro":
			m.ReadWrite = !flagValue(opt)
		default:
			ignored(TypeBind, opt)
		}
	}
	return m
}
