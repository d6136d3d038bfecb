package mount

// Secret exposes a build secret as a file without baking it into the image
type Secret struct {
	ID       string `yaml:"id,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Mode     string `yaml:"mode,omitempty"`
	UserID   string `yaml:"user_id,omitempty"`
	GroupID  string `yaml:"group_id,omitempty"`
}

func (Secret) Type() Type { return TypeSecret }

func (m Secret) String() string {
	return credentialString(TypeSecret, credential(m))
}

func (m Secret) Expand(mapping func(string) string) Mount {
	return Secret(credential(m).expand(mapping))
}

func (m Secret) Validate() error {
	return credential(m).validate(TypeSecret)
}

func (m Secret) Attributes() map[string]any {
	return credential(m).attributes(TypeSecret)
}

func parseSecret(opts []option) Secret {
	return Secret(parseCredential(TypeSecret, opts))
}

// SSH forwards the SSH agent socket of the build client
type SSH struct {
	ID       string `yaml:"id,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Mode     string `yaml:"mode,omitempty"`
	UserID   string `yaml:"user_id,omitempty"`
	GroupID  string `yaml:"group_id,omitempty"`
}

func (SSH) Type() Type { return TypeSSH }

func (m SSH) String() string {
	return credentialString(TypeSSH, credential(m))
}

func (m SSH) Expand(mapping func(string) string) Mount {
	return SSH(credential(m).expand(mapping))
}

func (m SSH) Validate() error {
	return credential(m).validate(TypeSSH)
}

func (m SSH) Attributes() map[string]any {
	return credential(m).attributes(TypeSSH)
}

func parseSSH(opts []option) SSH {
	return SSH(parseCredential(TypeSSH, opts))
}

// credential holds the option set shared by secret and ssh mounts
type credential struct {
	ID       string
	Target   string
	Required bool
	Mode     string
	UserID   string
	GroupID  string
}

func credentialString(typ Type, c credential) string {
	b := newBuilder(typ)
	b.opt("id", c.ID)
	b.opt("target", c.Target)
	if c.Required {
		b.opt("required", "true")
	}
	b.opt("mode", c.Mode)
	b.opt("uid", c.UserID)
	b.opt("gid", c.GroupID)
	return b.String()
}

func (c credential) expand(mapping func(string) string) credential {
	c.ID = mapping(c.ID)
	c.Target = mapping(c.Target)
	c.Mode = mapping(c.Mode)
	c.UserID = mapping(c.UserID)
	c.GroupID = mapping(c.GroupID)
	return c
}

func (c credential) validate(typ Type) error {
	if err := validateMode(typ, c.Mode); err != nil {
		return err
	}
	if err := validateID(typ, "uid", c.UserID); err != nil {
		return err
	}
	return validateID(typ, "gid", c.GroupID)
}

func (c credential) attributes(typ Type) map[string]any {
	return map[string]any{
		"mount_type": string(typ),
		"id":         c.ID,
		"target":     c.Target,
		"required":   c.Required,
		"mode":       c.Mode,
		"user_id":    c.UserID,
		"group_id":   c.GroupID,
	}
}

func parseCredential(typ Type, opts []option) credential {
	var c credential
	for _, opt := range opts {
		switch opt.key {
		case "id":
			c.ID = opt.value
		case "target":
			c.Target = opt.value
		case "required":
			c.Required = flagValue(opt)
		case "mode":
			c.Mode = opt.value
		case "uid":
			c.UserID = opt.value
		case "gid":
			c.GroupID = opt.value
		default:
			ignored(typ, opt)
		}
	}
	return c
}
