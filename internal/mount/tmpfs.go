package mount

import (
	"strconv"

	units "github.com/docker/go-units"
)

// Access-time flags accepted by tmpfs mounts
const (
	NoAtime     = "noatime"
	RelAtime    = "relatime"
	StrictAtime = "strictatime"
)

// TmpFs mounts an in-memory filesystem
type TmpFs struct {
	Target     string `yaml:"target"`
	Size       int64  `yaml:"size,omitempty"`
	NrInodes   int64  `yaml:"nr_inodes,omitempty"`
	NrBlocks   int64  `yaml:"nr_blocks,omitempty"`
	AccessTime string `yaml:"access_time,omitempty"`
}

func (TmpFs) Type() Type { return TypeTmpFs }

func (m TmpFs) String() string {
	b := newBuilder(TypeTmpFs)
	b.opt("target", m.Target)
	if m.Size > 0 {
		b.opt("size", strconv.FormatInt(m.Size, 10))
	}
	if m.NrInodes > 0 {
		b.opt("nr_inodes", strconv.FormatInt(m.NrInodes, 10))
	}
	if m.NrBlocks > 0 {
		b.opt("nr_blocks", strconv.FormatInt(m.NrBlocks, 10))
	}
	b.flag(m.AccessTime, m.AccessTime != "")
	return b.String()
}

func (m TmpFs) Expand(mapping func(string) string) Mount {
	m.Target = mapping(m.Target)
	return m
}

func (m TmpFs) Validate() error {
	if err := requireTarget(TypeTmpFs, m.Target); err != nil {
		return err
	}
	switch m.AccessTime {
	case "", NoAtime, RelAtime, StrictAtime:
		return nil
	}
	return &OptionError{Type: TypeTmpFs, Option: "access time", Value: m.AccessTime, Reason: "unknown flag"}
}

func (m TmpFs) Attributes() map[string]any {
	return map[string]any{
		"mount_type":  string(TypeTmpFs),
		"target":      m.Target,
		"size":        m.Size,
		"nr_inodes":   m.NrInodes,
		"nr_blocks":   m.NrBlocks,
		"access_time": m.AccessTime,
	}
}

func parseTmpFs(opts []option) (TmpFs, error) {
	var m TmpFs
	for _, opt := range opts {
		switch opt.key {
		case "target":
			m.Target = opt.value
		case "size":
			size, err := units.RAMInBytes(opt.value)
			if err != nil || size < 0 {
				return m, &OptionError{Type: TypeTmpFs, Option: "size", Value: opt.value, Reason: "must be a size in bytes"}
			}
			m.Size = size
		case "nr_inodes", "nr_blocks":
			n, err := strconv.ParseInt(opt.value, 10, 64)
			if err != nil || n < 0 {
				return m, &OptionError{Type: TypeTmpFs, Option: opt.key, Value: opt.value, Reason: "must be a non-negative integer"}
			}
			if opt.key == "nr_inodes" {
				m.NrInodes = n
			} else {
				m.NrBlocks = n
			}
		case NoAtime, RelAtime, StrictAtime:
			if opt.bare {
				m.AccessTime = opt.key
			}
		default:
			ignored(TypeTmpFs, opt)
		}
	}
	return m, nil
}
