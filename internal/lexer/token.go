package lexer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Keyword is the directive keyword that begins an instruction (FROM, RUN, ...)
type Keyword string

// Directive keywords
const (
	ADD         Keyword = "ADD"
	ARG         Keyword = "ARG"
	CMD         Keyword = "CMD"
	COPY        Keyword = "COPY"
	ENTRYPOINT  Keyword = "ENTRYPOINT"
	ENV         Keyword = "ENV"
	EXPOSE      Keyword = "EXPOSE"
	FROM        Keyword = "FROM"
	HEALTHCHECK Keyword = "HEALTHCHECK"
	LABEL       Keyword = "LABEL"
	MAINTAINER  Keyword = "MAINTAINER"
	ONBUILD     Keyword = "ONBUILD"
	RUN         Keyword = "RUN"
	SHELL       Keyword = "SHELL"
	STOPSIGNAL  Keyword = "STOPSIGNAL"
	USER        Keyword = "USER"
	VOLUME      Keyword = "VOLUME"
	WORKDIR     Keyword = "WORKDIR"
)

// Keywords lists every directive keyword. The order is also the alternation
// order used when matching keywords anywhere in a line.
var Keywords = []Keyword{
	ADD,
	ARG,
	CMD,
	COPY,
	ENTRYPOINT,
	ENV,
	EXPOSE,
	FROM,
	HEALTHCHECK,
	LABEL,
	MAINTAINER,
	ONBUILD,
	RUN,
	SHELL,
	STOPSIGNAL,
	USER,
	VOLUME,
	WORKDIR,
}

var keywordSet = func() map[string]Keyword {
	set := make(map[string]Keyword, len(Keywords))
	for _, kw := range Keywords {
		set[string(kw)] = kw
	}
	return set
}()

var anywherePattern = func() *regexp.Regexp {
	names := make([]string, 0, len(Keywords))
	for _, kw := range Keywords {
		names = append(names, string(kw))
	}
	return regexp.MustCompile(strings.Join(names, "|"))
}()

// LookupKeyword returns the keyword spelled by s, ignoring case.
func LookupKeyword(s string) (Keyword, bool) {
	kw, ok := keywordSet[strings.ToUpper(s)]
	return kw, ok
}

// MatchMode controls how a line is recognized as the start of an instruction
type MatchMode int

const (
	// MatchLeading only accepts a keyword as the first token of the line.
	MatchLeading MatchMode = iota
	// MatchAnywhere accepts the leftmost keyword found anywhere in the line.
	// Argument text that happens to contain a keyword will start a new
	// instruction, which is kept for compatibility with older documents.
	MatchAnywhere
)

func (m MatchMode) String() string {
	switch m {
	case MatchLeading:
		return "leading"
	case MatchAnywhere:
		return "anywhere"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode converts a configuration value into a MatchMode
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leading":
		return MatchLeading, nil
	case "anywhere", "legacy":
		return MatchAnywhere, nil
	}
	return MatchLeading, errors.Errorf("unknown keyword match mode %q", s)
}

// Recognize finds the keyword that starts an instruction in text and returns
// it along with the argument text that follows it.
func Recognize(text string, mode MatchMode) (Keyword, string, bool) {
	if mode == MatchAnywhere {
		loc := anywherePattern.FindStringIndex(text)
		if loc == nil {
			return "", "", false
		}
		return Keyword(text[loc[0]:loc[1]]), strings.TrimSpace(text[loc[1]:]), true
	}

	trimmed := strings.TrimLeft(text, " \t")
	head, rest := trimmed, ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		head, rest = trimmed[:i], trimmed[i:]
	}
	kw, ok := LookupKeyword(head)
	if !ok {
		return "", "", false
	}
	return kw, strings.TrimSpace(rest), true
}
