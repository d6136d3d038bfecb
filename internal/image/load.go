package image

import (
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/parser"
)

// FromText parses a document from instruction text. The document takes its
// name and tag from the last FROM instruction.
func FromText(text string, opts parser.Options) (*Document, error) {
	res, err := parser.ParseString(text, opts)
	if err != nil {
		return nil, err
	}
	return fromResult(res, opts), nil
}

func FromBytes(data []byte, opts parser.Options) (*Document, error) {
	res, err := parser.ParseBytes(data, opts)
	if err != nil {
		return nil, err
	}
	return fromResult(res, opts), nil
}

// FromLines parses a document from pre-split physical lines
func FromLines(lines []string, opts parser.Options) (*Document, error) {
	res, err := parser.ParseLines(lines, opts)
	if err != nil {
		return nil, err
	}
	return fromResult(res, opts), nil
}

// FromFile parses the file at path. The document's Path and Filename point
// at that file.
func FromFile(path string, opts parser.Options) (*Document, error) {
	res, err := parser.ParseFile(path, opts)
	if err != nil {
		return nil, err
	}
	d := fromResult(res, opts)
	d.Path, d.Filename = filepath.Dir(path), filepath.Base(path)
	return d, nil
}

// LoadText parses text and appends its instructions to the document
func (d *Document) LoadText(text string) error {
	res, err := parser.ParseString(text, d.options)
	if err != nil {
		return err
	}
	return d.load(res)
}

// LoadFile parses the file at path and appends its instructions
func (d *Document) LoadFile(path string) error {
	res, err := parser.ParseFile(path, d.options)
	if err != nil {
		return err
	}
	return d.load(res)
}

func (d *Document) load(res *parser.Result) error {
	for _, w := range res.Warnings {
		log.Debugf("%s", w)
	}
	d.Append(res.Instructions...)
	if err := d.Err(); err != nil {
		return errors.Wrap(err, "appending parsed instructions")
	}
	return nil
}

func fromResult(res *parser.Result, opts parser.Options) *Document {
	d := New("", "").WithOptions(opts)
	for _, w := range res.Warnings {
		log.Debugf("%s", w)
	}
	d.Append(res.Instructions...)

	if s, ok := d.Layers(instruction.KindStage).One(); ok {
		stage := s.(instruction.Stage)
		d.Name, d.Tag = stage.Base, stage.Tag
	}
	return d
}
