// Package resolve substitutes build argument and environment values into
// instruction fields.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Sarang095/dcrx/internal/instruction"
)

// Strategy controls how values that embed other templates are expanded
type Strategy int

const (
	// FixedPoint expands nested references until nothing changes. References
	// that lead back to themselves are left as written.
	FixedPoint Strategy = iota
	// SinglePass expands each value once, so a reference to a value that
	// itself contains templates can stay partially unresolved.
	SinglePass
)

func (s Strategy) String() string {
	switch s {
	case FixedPoint:
		return "fixed-point"
	case SinglePass:
		return "single-pass"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a configuration value into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed-point", "fixedpoint":
		return FixedPoint, nil
	case "single-pass", "singlepass", "legacy":
		return SinglePass, nil
	}
	return FixedPoint, errors.Errorf("unknown resolution strategy %q", s)
}

// Options configures a resolution run
type Options struct {
	// Defaults override ARG defaults and may introduce new names
	Defaults map[string]string
	// Skip names are never substituted and never merged from ENV
	Skip     []string
	Strategy Strategy
}

// Values maps variable names to their resolved values
type Values map[string]string

// Names returns the variable names in sorted order
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v Values) lookup(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// Resolve returns a copy of insts with templates replaced. ARG defaults and
// ENV values carry their resolved values; every other instruction has its
// fields substituted. insts itself is not modified.
func Resolve(insts []instruction.Instruction, opts Options) ([]instruction.Instruction, Values) {
	r := newResolver(opts)
	r.collectArgs(insts)
	r.applyDefaults()
	r.followChains()
	r.expandValues()
	args := r.snapshot()
	envs := r.mergeEnv(insts)

	out := make([]instruction.Instruction, 0, len(insts))
	for i, inst := range insts {
		switch v := inst.(type) {
		case instruction.Arg:
			out = append(out, resolveArg(v, args))
		case instruction.Env:
			out = append(out, envs[i])
		default:
			out = append(out, inst.Expand(r.mapping))
		}
	}
	return out, r.values
}

type resolver struct {
	opts   Options
	skip   map[string]bool
	values Values
	// order is the first-seen order of names in values
	order []string
}

func newResolver(opts Options) *resolver {
	skip := make(map[string]bool, len(opts.Skip))
	for _, name := range opts.Skip {
		skip[stripTemplate(name)] = true
	}
	return &resolver{
		opts:   opts,
		skip:   skip,
		values: Values{},
		order:  make([]string, 0),
	}
}

func (r *resolver) set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.order = append(r.order, name)
	}
	r.values[name] = value
}

// collectArgs records ARG defaults. The first default wins, except that a
// templated default gives way to the first later literal one.
func (r *resolver) collectArgs(insts []instruction.Instruction) {
	for _, inst := range insts {
		arg, ok := inst.(instruction.Arg)
		if !ok || arg.Default == "" {
			continue
		}
		name := stripTemplate(arg.Name)

		current, seen := r.values[name]
		switch {
		case !seen:
			r.set(name, arg.Default)
		case instruction.HasTemplate(current) && !instruction.HasTemplate(arg.Default):
			log.Debugf("ARG %s: replacing templated default %q with %q", name, current, arg.Default)
			r.set(name, arg.Default)
		}
	}
}

func (r *resolver) applyDefaults() {
	names := make([]string, 0, len(r.opts.Defaults))
	for name := range r.opts.Defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.set(stripTemplate(name), r.opts.Defaults[name])
	}

	for name := range r.skip {
		delete(r.values, name)
	}
	order := r.order[:0]
	for _, name := range r.order {
		if !r.skip[name] {
			order = append(order, name)
		}
	}
	r.order = order
}

// followChains replaces values that are exactly one reference to another
// known name with the value at the end of the chain.
func (r *resolver) followChains() {
	for _, name := range r.order {
		ref, ok := wholeReference(r.values[name])
		if !ok {
			continue
		}

		visited := map[string]bool{name: true}
		value := r.values[name]
		for ok {
			next, known := r.values[ref]
			if !known {
				break
			}
			if visited[ref] {
				log.Debugf("variable %s: reference cycle through %s, leaving %q", name, ref, r.values[name])
				value = r.values[name]
				break
			}
			visited[ref] = true
			value = next
			ref, ok = wholeReference(next)
		}
		if value != r.values[name] {
			log.Debugf("variable %s: following chain to %q", name, value)
		}
		r.values[name] = value
	}
}

// expandValues substitutes templates embedded in the collected values
func (r *resolver) expandValues() {
	if r.opts.Strategy == SinglePass {
		raw := make(Values, len(r.values))
		for k, v := range r.values {
			raw[k] = v
		}
		for _, name := range r.order {
			r.values[name] = Expand(raw[name], raw.lookup)
		}
		return
	}

	e := &expander{raw: r.values, done: Values{}, cyclic: map[string]bool{}}
	for _, name := range r.order {
		e.value(name)
	}
	for _, name := range r.order {
		r.values[name] = e.done[name]
	}
}

// mergeEnv resolves ENV pairs in order and merges them into the values, ENV
// overriding ARG. The resolved instructions are returned by index.
func (r *resolver) mergeEnv(insts []instruction.Instruction) map[int]instruction.Instruction {
	envs := make(map[int]instruction.Instruction)
	for i, inst := range insts {
		env, ok := inst.(instruction.Env)
		if !ok {
			continue
		}

		pairs := make([]instruction.Pair, 0, len(env.Variables))
		for _, p := range env.Variables {
			value := r.mapping(p.Value)
			pairs = append(pairs, instruction.Pair{Key: p.Key, Value: value})
			if r.skip[p.Key] {
				continue
			}
			r.set(p.Key, value)
		}
		envs[i] = instruction.Env{Variables: pairs}
	}
	return envs
}

// snapshot copies the values known before ENV is merged
func (r *resolver) snapshot() Values {
	out := make(Values, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// resolveArg rewrites an ARG from values collected before any ENV, so a
// later ENV of the same name never changes the declaration.
func resolveArg(a instruction.Arg, values Values) instruction.Instruction {
	name := stripTemplate(a.Name)
	value, ok := values[name]
	if !ok {
		return a
	}
	return instruction.Arg{Name: name, Default: value}
}

func (r *resolver) mapping(s string) string {
	return Expand(s, r.values.lookup)
}

// expander resolves values recursively, memoizing results. Names that take
// part in a reference cycle keep their unexpanded value.
type expander struct {
	raw    Values
	done   Values
	stack  []string
	cyclic map[string]bool
}

func (e *expander) value(name string) (string, bool) {
	if v, ok := e.done[name]; ok {
		return v, true
	}
	raw, ok := e.raw[name]
	if !ok {
		return "", false
	}
	for i, active := range e.stack {
		if active == name {
			log.Debugf("variable %s: reference cycle %v, leaving it unresolved", name, append(e.stack[i:], name))
			for _, n := range e.stack[i:] {
				e.cyclic[n] = true
			}
			return "", false
		}
	}

	e.stack = append(e.stack, name)
	v := Expand(raw, e.value)
	e.stack = e.stack[:len(e.stack)-1]

	if e.cyclic[name] {
		v = raw
	}
	e.done[name] = v
	return v, true
}
