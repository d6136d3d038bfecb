package instruction

import (
	"github.com/Sarang095/dcrx/internal/lexer"
)

type parseFunc func(args string) (Instruction, error)

// keywordKinds maps each directive keyword to the variant it produces. FROM
// produces a Stage.
var keywordKinds = map[lexer.Keyword]Kind{
	lexer.ADD:         KindAdd,
	lexer.ARG:         KindArg,
	lexer.CMD:         KindCmd,
	lexer.COPY:        KindCopy,
	lexer.ENTRYPOINT:  KindEntrypoint,
	lexer.ENV:         KindEnv,
	lexer.EXPOSE:      KindExpose,
	lexer.FROM:        KindStage,
	lexer.HEALTHCHECK: KindHealthcheck,
	lexer.LABEL:       KindLabel,
	lexer.MAINTAINER:  KindMaintainer,
	lexer.ONBUILD:     KindOnBuild,
	lexer.RUN:         KindRun,
	lexer.SHELL:       KindShell,
	lexer.STOPSIGNAL:  KindStopSignal,
	lexer.USER:        KindUser,
	lexer.VOLUME:      KindVolume,
	lexer.WORKDIR:     KindWorkdir,
}

var kindKeywords = func() map[Kind]lexer.Keyword {
	m := make(map[Kind]lexer.Keyword, len(keywordKinds))
	for kw, kind := range keywordKinds {
		m[kind] = kw
	}
	return m
}()

// parsers is filled in init because ONBUILD parsing dispatches back through
// the registry.
var parsers map[Kind]parseFunc

func init() {
	parsers = map[Kind]parseFunc{
		KindAdd:         adapt(ParseAdd),
		KindArg:         adapt(ParseArg),
		KindCmd:         adapt(ParseCmd),
		KindCopy:        adapt(ParseCopy),
		KindEntrypoint:  adapt(ParseEntrypoint),
		KindEnv:         adapt(ParseEnv),
		KindExpose:      adapt(ParseExpose),
		KindStage:       adapt(ParseStage),
		KindHealthcheck: adapt(ParseHealthcheck),
		KindLabel:       adapt(ParseLabel),
		KindMaintainer:  adapt(ParseMaintainer),
		KindOnBuild:     adapt(ParseOnBuild),
		KindRun:         adapt(ParseRun),
		KindShell:       adapt(ParseShell),
		KindStopSignal:  adapt(ParseStopSignal),
		KindUser:        adapt(ParseUser),
		KindVolume:      adapt(ParseVolume),
		KindWorkdir:     adapt(ParseWorkdir),
	}
}

func adapt[T Instruction](parse func(string) (T, error)) parseFunc {
	return func(args string) (Instruction, error) {
		inst, err := parse(args)
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
}

// KindFor returns the variant kind a keyword produces
func KindFor(kw lexer.Keyword) (Kind, bool) {
	kind, ok := keywordKinds[kw]
	return kind, ok
}

// KeywordFor returns the directive keyword that introduces kind
func KeywordFor(kind Kind) lexer.Keyword {
	return kindKeywords[kind]
}

// Kinds lists every variant kind in keyword order
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(lexer.Keywords))
	for _, kw := range lexer.Keywords {
		kinds = append(kinds, keywordKinds[kw])
	}
	return kinds
}

// Dispatch parses args with the parser registered for kw. An unknown keyword
// yields no instruction and no error.
func Dispatch(kw lexer.Keyword, args string) (Instruction, bool, error) {
	kind, ok := keywordKinds[kw]
	if !ok {
		return nil, false, nil
	}
	inst, err := parsers[kind](args)
	if err != nil {
		return nil, false, err
	}
	return inst, true, nil
}

// ParseLine recognizes the keyword that starts text and dispatches the rest
// of the line to that keyword's parser.
func ParseLine(text string, mode lexer.MatchMode) (Instruction, bool, error) {
	kw, args, ok := lexer.Recognize(text, mode)
	if !ok {
		return nil, false, nil
	}
	return Dispatch(kw, args)
}
