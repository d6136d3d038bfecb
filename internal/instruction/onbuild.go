package instruction

import (
	"github.com/Sarang095/dcrx/internal/lexer"
)

// OnBuild defers an instruction until the image is used as a base
type OnBuild struct {
	Instruction Instruction `yaml:"instruction"`
}

func (OnBuild) Kind() Kind { return KindOnBuild }

func (o OnBuild) String() string {
	if o.Instruction == nil {
		return "ONBUILD"
	}
	return "ONBUILD " + o.Instruction.String()
}

func (o OnBuild) Expand(mapping func(string) string) Instruction {
	if o.Instruction != nil {
		o.Instruction = o.Instruction.Expand(mapping)
	}
	return o
}

func (o OnBuild) Attributes() map[string]any {
	attrs := map[string]any{}
	if o.Instruction != nil {
		for k, v := range o.Instruction.Attributes() {
			attrs[k] = v
		}
		attrs["instruction"] = string(o.Instruction.Kind())
	}
	return attrs
}

func (o OnBuild) Validate() error {
	if o.Instruction == nil {
		return required(KindOnBuild, "instruction")
	}
	if !nestable(o.Instruction.Kind()) {
		return invalid(KindOnBuild, "instruction", string(KeywordFor(o.Instruction.Kind())), "cannot be triggered by ONBUILD")
	}
	return o.Instruction.Validate()
}

func nestable(kind Kind) bool {
	switch kind {
	case KindOnBuild, KindStage, KindArg, KindMaintainer:
		return false
	}
	return true
}

// ParseOnBuild parses the wrapped instruction. The ONBUILD keyword itself has
// already been removed by the line recognizer, so a leading ONBUILD here is a
// nested trigger and is rejected.
func ParseOnBuild(args string) (OnBuild, error) {
	kw, rest, ok := lexer.Recognize(args, lexer.MatchLeading)
	if !ok {
		return OnBuild{}, required(KindOnBuild, "instruction")
	}

	kind, _ := KindFor(kw)
	if !nestable(kind) {
		return OnBuild{}, invalid(KindOnBuild, "instruction", string(kw), "cannot be triggered by ONBUILD")
	}

	inner, ok, err := Dispatch(kw, rest)
	if err != nil {
		return OnBuild{}, err
	}
	if !ok {
		return OnBuild{}, required(KindOnBuild, "instruction")
	}
	o := OnBuild{Instruction: inner}
	return o, o.Validate()
}
