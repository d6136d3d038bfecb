// Package optimizer rewrites documents into equivalent ones with fewer layers.
package optimizer

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Sarang095/dcrx/internal/image"
	"github.com/Sarang095/dcrx/internal/instruction"
)

type Optimization struct {
	Name        string
	Description string
	Apply       func([]instruction.Instruction) []instruction.Instruction
}

// Defaults returns the optimizations Optimize applies when given none
func Defaults() []Optimization {
	return []Optimization{
		{
			Name:        "Combine RUN Commands",
			Description: "Combines consecutive RUN commands into a single command",
			Apply:       combineRunCommands,
		},
	}
}

// Optimize applies optimizations in order and returns the rewritten
// document. The input document is not modified.
func Optimize(doc *image.Document, optimizations ...Optimization) (*image.Document, error) {
	if err := doc.Err(); err != nil {
		return nil, err
	}
	if len(optimizations) == 0 {
		optimizations = Defaults()
	}

	instructions := doc.Instructions()
	for _, opt := range optimizations {
		before := len(instructions)
		instructions = opt.Apply(instructions)
		log.Debugf("%s: %d -> %d instructions", opt.Name, before, len(instructions))
	}

	out := doc.Replace(instructions)
	if err := out.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// combineRunCommands merges runs of RUN instructions that carry no mounts
// and share network and security modes.
func combineRunCommands(instructions []instruction.Instruction) []instruction.Instruction {
	var result []instruction.Instruction
	var pending *instruction.Run
	var runCommands []string

	flush := func() {
		if pending == nil {
			return
		}
		merged := *pending
		merged.Command = strings.Join(runCommands, " && ")
		result = append(result, merged)
		pending, runCommands = nil, nil
	}

	for _, inst := range instructions {
		run, ok := inst.(instruction.Run)
		if !ok || len(run.Mounts) > 0 {
			flush()
			result = append(result, inst)
			continue
		}

		if pending != nil && (pending.Network != run.Network || pending.Security != run.Security) {
			flush()
		}
		if pending == nil {
			pending = &run
		}
		runCommands = append(runCommands, strings.TrimSpace(run.Command))
	}
	flush()

	return result
}
