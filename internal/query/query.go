// Package query filters instruction sequences by kind and by attribute.
package query

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/Sarang095/dcrx/internal/instruction"
)

// Query is an ordered selection of instructions. Filters return a new Query
// and leave the receiver as is; One is the only method that consumes.
type Query struct {
	items []instruction.Instruction
}

// New creates a query over a copy of insts
func New(insts []instruction.Instruction) *Query {
	items := make([]instruction.Instruction, len(insts))
	copy(items, insts)
	return &Query{items: items}
}

// Kind keeps instructions of any of the given kinds. With no kinds the
// selection is unchanged.
func (q *Query) Kind(kinds ...instruction.Kind) *Query {
	if len(kinds) == 0 {
		return New(q.items)
	}
	want := make(map[instruction.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	return q.filter(func(inst instruction.Instruction) bool {
		return want[inst.Kind()]
	})
}

// Get keeps instructions whose attribute equals value, or, when the attribute
// is a list or a map, contains value as an element, key or mapped value.
func (q *Query) Get(attribute string, value any) *Query {
	return q.filter(func(inst instruction.Instruction) bool {
		attr, ok := inst.Attributes()[attribute]
		return ok && matches(attr, value)
	})
}

// Where keeps instructions for which keep returns true
func (q *Query) Where(keep func(instruction.Instruction) bool) *Query {
	return q.filter(keep)
}

// One removes and returns the last instruction of the selection
func (q *Query) One() (instruction.Instruction, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	last := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	return last, true
}

func (q *Query) Len() int {
	return len(q.items)
}

// Results returns a copy of the selected instructions
func (q *Query) Results() []instruction.Instruction {
	out := make([]instruction.Instruction, len(q.items))
	copy(out, q.items)
	return out
}

// All iterates over the selection in order
func (q *Query) All() iter.Seq2[int, instruction.Instruction] {
	return func(yield func(int, instruction.Instruction) bool) {
		for i, inst := range q.items {
			if !yield(i, inst) {
				return
			}
		}
	}
}

func (q *Query) filter(keep func(instruction.Instruction) bool) *Query {
	out := make([]instruction.Instruction, 0, len(q.items))
	for _, inst := range q.items {
		if keep(inst) {
			out = append(out, inst)
		}
	}
	return &Query{items: out}
}

func matches(attr, value any) bool {
	switch a := attr.(type) {
	case []string:
		for _, item := range a {
			if equal(item, value) {
				return true
			}
		}
		return false
	case []any:
		for _, item := range a {
			if equal(item, value) {
				return true
			}
		}
		return false
	case map[string]string:
		for k, v := range a {
			if equal(k, value) || equal(v, value) {
				return true
			}
		}
		return false
	}
	return equal(attr, value)
}

// equal compares attr with value. A string value also matches the printed
// form of a non-string attribute, so "15" matches a signal number of 15.
func equal(attr, value any) bool {
	if reflect.DeepEqual(attr, value) {
		return true
	}
	if s, ok := value.(string); ok {
		if _, isString := attr.(string); !isString && attr != nil {
			return fmt.Sprint(attr) == s
		}
	}
	return false
}
