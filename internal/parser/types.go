package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/lexer"
)

// Position locates a logical line in its source
type Position struct {
	Filename string
	Line     int
	EndLine  int
}

func (p Position) String() string {
	loc := fmt.Sprintf("%d", p.Line)
	if p.EndLine > p.Line {
		loc = fmt.Sprintf("%d-%d", p.Line, p.EndLine)
	}
	if p.Filename != "" {
		return p.Filename + ":" + loc
	}
	return "line " + loc
}

// Warning represents a non-fatal issue found during parsing
type Warning struct {
	Level    WarnLevel
	Message  string
	Position Position
	Context  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.Position, w.Message, w.Level)
}

// WarnLevel indicates warning severity
type WarnLevel int

const (
	// WarnLow marks lines skipped because no instruction was recognized
	WarnLow WarnLevel = iota
	WarnMedium
	// WarnHigh marks instructions dropped because they failed validation
	WarnHigh
)

func (l WarnLevel) String() string {
	switch l {
	case WarnLow:
		return "low"
	case WarnMedium:
		return "medium"
	case WarnHigh:
		return "high"
	}
	return fmt.Sprintf("WarnLevel(%d)", int(l))
}

// Policy decides what happens to an instruction that fails validation
type Policy int

const (
	// Abort stops the parse at the first invalid instruction
	Abort Policy = iota
	// Skip drops the invalid instruction, records a warning and continues
	Skip
)

func (p Policy) String() string {
	if p == Skip {
		return "skip"
	}
	return "abort"
}

// ParsePolicy converts a configuration value into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return Abort, nil
	case "skip":
		return Skip, nil
	}
	return Abort, errors.Errorf("unknown invalid-instruction policy %q", s)
}

// Options configures the parser behavior
type Options struct {
	Mode      lexer.MatchMode
	OnInvalid Policy
	// Filename is only used to label positions in errors and warnings
	Filename string
}

// Result is the outcome of parsing one document
type Result struct {
	Instructions []instruction.Instruction
	// Positions holds the source position of each entry in Instructions
	Positions []Position
	Warnings  []Warning
	// Skipped collects the validation errors of instructions dropped under
	// the Skip policy
	Skipped *ErrorCollector
}

// Len returns the number of parsed instructions
func (r *Result) Len() int {
	return len(r.Instructions)
}

func (r *Result) warn(level WarnLevel, pos Position, context, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Level:    level,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Context:  context,
	})
}
