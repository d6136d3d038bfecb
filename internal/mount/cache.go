package mount

// Sharing policies for cache mounts
const (
	SharingShared  = "shared"
	SharingPrivate = "private"
	SharingLocked  = "locked"
)

// Cache mounts a persistent cache directory shared between builds
type Cache struct {
	ID        string `yaml:"id,omitempty"`
	Target    string `yaml:"target"`
	Source    string `yaml:"source,omitempty"`
	FromLayer string `yaml:"from_layer,omitempty"`
	ReadOnly  bool   `yaml:"readonly,omitempty"`
	Sharing   string `yaml:"sharing,omitempty"`
	Mode      string `yaml:"mode,omitempty"`
	UserID    string `yaml:"user_id,omitempty"`
	GroupID   string `yaml:"group_id,omitempty"`
}

func (Cache) Type() Type { return TypeCache }

func (m Cache) String() string {
	b := newBuilder(TypeCache)
	b.opt("target", m.Target)
	b.opt("id", m.ID)
	b.opt("source", m.Source)
	b.opt("from", m.FromLayer)
	b.flag("ro", m.ReadOnly)
	b.opt("sharing", m.Sharing)
	b.opt("mode", m.Mode)
	b.opt("uid", m.UserID)
	b.opt("gid", m.GroupID)
	return b.String()
}

func (m Cache) Expand(mapping func(string) string) Mount {
	m.ID = mapping(m.ID)
	m.Target = mapping(m.Target)
	m.Source = mapping(m.Source)
	m.FromLayer = mapping(m.FromLayer)
	m.Mode = mapping(m.Mode)
	m.UserID = mapping(m.UserID)
	m.GroupID = mapping(m.GroupID)
	return m
}

func (m Cache) Validate() error {
	if err := requireTarget(TypeCache, m.Target); err != nil {
		return err
	}
	switch m.Sharing {
	case "", SharingShared, SharingPrivate, SharingLocked:
	default:
		return &OptionError{Type: TypeCache, Option: "sharing", Value: m.Sharing, Reason: "must be one of shared, private, locked"}
	}
	if err := validateMode(TypeCache, m.Mode); err != nil {
		return err
	}
	if err := validateID(TypeCache, "uid", m.UserID); err != nil {
		return err
	}
	return validateID(TypeCache, "gid", m.GroupID)
}

func (m Cache) Attributes() map[string]any {
	return map[string]any{
		"mount_type": string(TypeCache),
		"id":         m.ID,
		"target":     m.Target,
		"source":     m.Source,
		"from_layer": m.FromLayer,
		"readonly":   m.ReadOnly,
		"sharing":    m.Sharing,
		"mode":       m.Mode,
		"user_id":    m.UserID,
		"group_id":   m.GroupID,
	}
}

func parseCache(opts []option) Cache {
	var m Cache
	for _, opt := range opts {
		switch opt.key {
		case "id":
			m.ID = opt.value
		case "target":
			m.Target = opt.value
		case "source":
			m.Source = opt.value
		case "from":
			m.FromLayer = opt.value
		case "ro":
			m.ReadOnly = flagValue(opt)
		case "rw":
			m.ReadOnly = !flagValue(opt)
		case "sharing":
			m.Sharing = opt.value
		case "mode":
			m.Mode = opt.value
		case "uid":
			m.UserID = opt.value
		case "gid":
			m.GroupID = opt.value
		default:
			ignored(TypeCache, opt)
		}
	}
	return m
}
