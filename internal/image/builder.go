package image

import (
	"github.com/Sarang095/dcrx/internal/instruction"
)

// Stage starts a new build stage
func (d *Document) Stage(s instruction.Stage) *Document {
	d.add(s)
	return d
}

// From starts a new build stage from an image reference such as
// python:3.11-slim, with an optional alias.
func (d *Document) From(image, alias string) *Document {
	if d.err != nil {
		return d
	}
	s, err := instruction.ParseStage(image)
	if err != nil {
		d.err = err
		return d
	}
	s.Alias = alias
	d.add(s)
	return d
}

func (d *Document) Arg(name, defaultValue string) *Document {
	d.add(instruction.Arg{Name: name, Default: defaultValue})
	return d
}

func (d *Document) Env(key, value string) *Document {
	d.add(instruction.Env{Variables: []instruction.Pair{{Key: key, Value: value}}})
	return d
}

// EnvPairs sets several variables in a single ENV instruction
func (d *Document) EnvPairs(pairs ...instruction.Pair) *Document {
	d.add(instruction.Env{Variables: pairs})
	return d
}

func (d *Document) Label(name, value string) *Document {
	d.add(instruction.Label{Labels: []instruction.Pair{{Key: name, Value: value}}})
	return d
}

func (d *Document) Run(r instruction.Run) *Document {
	d.add(r)
	return d
}

// RunCommand appends a RUN instruction with no flags
func (d *Document) RunCommand(command string) *Document {
	return d.Run(instruction.Run{Command: command})
}

func (d *Document) Copy(c instruction.Copy) *Document {
	d.add(c)
	return d
}

func (d *Document) Add(a instruction.Add) *Document {
	d.add(a)
	return d
}

func (d *Document) Cmd(command ...string) *Document {
	d.add(instruction.Cmd{Command: command})
	return d
}

func (d *Document) Entrypoint(command ...string) *Document {
	d.add(instruction.Entrypoint{Command: command})
	return d
}

func (d *Document) Expose(ports ...string) *Document {
	d.add(instruction.Expose{Ports: ports})
	return d
}

func (d *Document) Healthcheck(h instruction.Healthcheck) *Document {
	d.add(h)
	return d
}

func (d *Document) Maintainer(author string) *Document {
	d.add(instruction.Maintainer{Author: author})
	return d
}

// OnBuild wraps inst in an ONBUILD trigger
func (d *Document) OnBuild(inst instruction.Instruction) *Document {
	d.add(instruction.OnBuild{Instruction: inst})
	return d
}

func (d *Document) Shell(executable string, parameters ...string) *Document {
	if len(parameters) == 0 {
		parameters = nil
	}
	d.add(instruction.Shell{Executable: executable, Parameters: parameters})
	return d
}

func (d *Document) StopSignal(signal int) *Document {
	d.add(instruction.StopSignal{Signal: signal})
	return d
}

func (d *Document) User(user, group string) *Document {
	d.add(instruction.User{UserID: user, GroupID: group})
	return d
}

func (d *Document) Volume(paths ...string) *Document {
	d.add(instruction.Volume{Paths: paths})
	return d
}

func (d *Document) Workdir(path string) *Document {
	d.add(instruction.Workdir{Path: path})
	return d
}
