// Package image provides Document, an ordered and mutable sequence of typed
// instructions describing one image build.
package image

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/parser"
	"github.com/Sarang095/dcrx/internal/query"
	"github.com/Sarang095/dcrx/internal/resolve"
)

// DefaultFilename is the file a document is written to when no path is given
const DefaultFilename = "Dockerfile"

// Document is an ordered sequence of instructions plus the image identity
// it builds. Builder methods append and return the document so calls can be
// chained; the first invalid instruction is kept in Err and later calls are
// ignored.
type Document struct {
	Name     string
	Tag      string
	Registry string
	Filename string
	// Path is the directory the document is written to and whose files it references
	Path string

	instructions []instruction.Instruction
	files        []string
	err          error
	options      parser.Options
}

// New creates an empty document for the image name:tag
func New(name, tag string) *Document {
	if tag == "" {
		tag = instruction.DefaultTag
	}
	return &Document{
		Name:     name,
		Tag:      tag,
		Filename: DefaultFilename,
		Path:     ".",
		files:    make([]string, 0),
	}
}

// WithOptions sets the parser options used by the Load and From functions
func (d *Document) WithOptions(opts parser.Options) *Document {
	d.options = opts
	return d
}

// FullName returns [registry/]name:tag
func (d *Document) FullName() string {
	name := d.Name
	if d.Registry != "" {
		name = strings.TrimSuffix(d.Registry, "/") + "/" + name
	}
	if d.Tag == "" {
		return name
	}
	return name + ":" + d.Tag
}

// Err returns the first error recorded while building the document
func (d *Document) Err() error {
	return d.err
}

// Len returns the number of instructions
func (d *Document) Len() int {
	return len(d.instructions)
}

// Instructions returns a copy of the instruction sequence
func (d *Document) Instructions() []instruction.Instruction {
	out := make([]instruction.Instruction, len(d.instructions))
	copy(out, d.instructions)
	return out
}

// Files returns the local paths referenced by ADD and COPY, in first-seen order
func (d *Document) Files() []string {
	out := make([]string, len(d.files))
	copy(out, d.files)
	return out
}

// Layers queries the document's instructions, optionally restricted to kinds
func (d *Document) Layers(kinds ...instruction.Kind) *query.Query {
	return query.New(d.instructions).Kind(kinds...)
}

// Append validates and appends instructions in order
func (d *Document) Append(insts ...instruction.Instruction) *Document {
	for _, inst := range insts {
		d.add(inst)
	}
	return d
}

func (d *Document) add(inst instruction.Instruction) {
	if d.err != nil {
		return
	}
	if inst == nil {
		d.err = errors.New("nil instruction")
		return
	}
	if err := inst.Validate(); err != nil {
		d.err = err
		return
	}
	d.instructions = append(d.instructions, inst)
	d.track(inst)
}

// track records the local source of ADD and COPY instructions
func (d *Document) track(inst instruction.Instruction) {
	var source string
	switch v := inst.(type) {
	case instruction.Copy:
		if v.FromLayer != "" {
			return
		}
		source = v.Source
	case instruction.Add:
		if v.IsRemote() {
			return
		}
		source = v.Source
	default:
		return
	}

	for _, f := range d.files {
		if f == source {
			return
		}
	}
	d.files = append(d.files, source)
}

// String renders every instruction, separated by a blank line
func (d *Document) String() string {
	parts := make([]string, 0, len(d.instructions))
	for _, inst := range d.instructions {
		parts = append(parts, inst.String())
	}
	return strings.Join(parts, "\n\n")
}

// Bytes returns the contents WriteFile writes
func (d *Document) Bytes() []byte {
	return []byte(d.String() + "\n")
}

// FilePath returns the path WriteFile uses when called without one
func (d *Document) FilePath() string {
	filename := d.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	return filepath.Join(d.Path, filename)
}

// WriteFile writes the rendered document to path, or to FilePath when path
// is empty, and returns the path written.
func (d *Document) WriteFile(path string) (string, error) {
	if d.err != nil {
		return "", errors.Wrap(d.err, "refusing to write an invalid document")
	}
	if path == "" {
		path = d.FilePath()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "creating %s", dir)
		}
	}
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	d.Path, d.Filename = filepath.Dir(path), filepath.Base(path)
	return path, nil
}

// Clone returns an independent copy of the document
func (d *Document) Clone() *Document {
	c := *d
	c.instructions = d.Instructions()
	c.files = d.Files()
	return &c
}

// Replace returns a copy of the document holding insts instead of the
// receiver's instructions. Referenced files are tracked again from insts.
func (d *Document) Replace(insts []instruction.Instruction) *Document {
	c := d.Clone()
	c.instructions = make([]instruction.Instruction, 0, len(insts))
	c.files = make([]string, 0)
	c.err = nil
	return c.Append(insts...)
}

// Resolve substitutes build argument and environment values, see ResolveWith
func (d *Document) Resolve(defaults map[string]string, skip ...string) *Document {
	return d.ResolveWith(resolve.Options{Defaults: defaults, Skip: skip})
}

// ResolveWith returns a new document with templates resolved. Files lists the
// resolved sources. The receiver is not modified.
func (d *Document) ResolveWith(opts resolve.Options) *Document {
	resolved, _ := resolve.Resolve(d.instructions, opts)
	c := d.Clone()
	c.instructions = resolved
	c.files = make([]string, 0, len(d.files))
	for _, inst := range resolved {
		c.track(inst)
	}
	return c
}

// Values returns the variables a resolution with opts would use
func (d *Document) Values(opts resolve.Options) resolve.Values {
	_, values := resolve.Resolve(d.instructions, opts)
	return values
}

// Check runs the rendered document through the upstream Dockerfile parser
func (d *Document) Check() error {
	if d.err != nil {
		return d.err
	}
	return parser.Check(d.instructions)
}
