// Package parser turns instruction text into typed instructions. Lines that
// do not start a known instruction are skipped; lines that start one but fail
// validation abort the parse or are dropped, depending on Options.OnInvalid.
package parser

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/lexer"
)

// Parse reads instruction text from r
func Parse(r io.Reader, opts Options) (*Result, error) {
	lines, err := lexer.NewLexer(r, opts.Mode).All()
	if err != nil {
		return nil, NewIOError(opts.Filename, errors.Wrap(err, "reading instructions"))
	}
	return ParseLogicalLines(lines, opts)
}

func ParseString(text string, opts Options) (*Result, error) {
	return Parse(strings.NewReader(text), opts)
}

func ParseBytes(data []byte, opts Options) (*Result, error) {
	return Parse(bytes.NewReader(data), opts)
}

// ParseLines parses a pre-split list of physical lines
func ParseLines(lines []string, opts Options) (*Result, error) {
	logical, err := lexer.FromLines(lines, opts.Mode)
	if err != nil {
		return nil, NewIOError(opts.Filename, errors.Wrap(err, "reading instructions"))
	}
	return ParseLogicalLines(logical, opts)
}

// ParseFile parses the file at path. Positions are labelled with path unless
// opts.Filename is set.
func ParseFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIOError(path, errors.Wrapf(err, "opening %s", path))
	}
	defer f.Close()

	if opts.Filename == "" {
		opts.Filename = path
	}
	return Parse(f, opts)
}

// ParseLogicalLines dispatches each logical line to the instruction registry
// and keeps the results in source order.
func ParseLogicalLines(lines []lexer.LogicalLine, opts Options) (*Result, error) {
	res := &Result{
		Instructions: make([]instruction.Instruction, 0, len(lines)),
		Positions:    make([]Position, 0, len(lines)),
		Skipped:      NewErrorCollector(),
	}

	stage := ""
	for _, line := range lines {
		pos := Position{Filename: opts.Filename, Line: line.Line, EndLine: line.EndLine}

		if !line.Recognized() {
			log.Debugf("%s: no instruction recognized, skipping %q", pos, line.Text)
			res.warn(WarnLow, pos, line.Text, "no instruction recognized")
			continue
		}

		inst, ok, err := instruction.Dispatch(line.Keyword, line.Args)
		if err != nil {
			derr := NewValidationError(stage, pos, line.Text, err)
			if opts.OnInvalid == Abort {
				return nil, derr
			}
			log.WithError(err).Debugf("%s: skipping invalid %s instruction", pos, line.Keyword)
			res.Skipped.Add(derr)
			res.warn(WarnHigh, pos, line.Text, "skipped invalid instruction: %v", err)
			continue
		}
		if !ok {
			log.Debugf("%s: no parser for %s, skipping", pos, line.Keyword)
			res.warn(WarnLow, pos, line.Text, "no parser registered for %s", line.Keyword)
			continue
		}

		if s, isStage := inst.(instruction.Stage); isStage {
			stage = s.Alias
		}
		res.Instructions = append(res.Instructions, inst)
		res.Positions = append(res.Positions, pos)
	}

	return res, nil
}
