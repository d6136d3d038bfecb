package parser

import (
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
	"github.com/pkg/errors"

	"github.com/Sarang095/dcrx/internal/instruction"
)

// CheckSyntax runs text through the upstream Dockerfile parser and verifies
// that it sees the expected number of instructions.
func CheckSyntax(text string, expected int) error {
	if expected == 0 && strings.TrimSpace(text) == "" {
		return nil
	}

	result, err := parser.Parse(strings.NewReader(text))
	if err != nil {
		return NewSyntaxError(Position{Line: 1}, "rejected by the Dockerfile parser", err)
	}

	children := result.AST.Children
	if len(children) != expected {
		pos := Position{Line: 1}
		if len(children) > 0 {
			last := children[len(children)-1]
			pos = Position{Line: last.StartLine, EndLine: last.EndLine}
		}
		return NewSyntaxError(pos, "Dockerfile parser saw a different number of instructions",
			errors.Wrapf(ErrInstructionCount, "expected %d, got %d", expected, len(children)))
	}
	return nil
}

// Check serializes insts the way a document does and runs CheckSyntax on the result
func Check(insts []instruction.Instruction) error {
	parts := make([]string, 0, len(insts))
	for _, inst := range insts {
		parts = append(parts, inst.String())
	}
	return CheckSyntax(strings.Join(parts, "\n\n")+"\n", len(insts))
}
