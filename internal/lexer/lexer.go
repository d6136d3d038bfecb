// Package lexer assembles raw instruction text into logical lines, one per
// instruction occurrence.
package lexer

import (
	"bytes"
	"io"
	"strings"
)

// LogicalLine is the complete text of one instruction after comments and
// blank lines are dropped and continuation lines are joined.
type LogicalLine struct {
	Keyword Keyword // empty when the line does not start a known instruction
	Text    string  // joined line, keyword included
	Args    string  // text following the keyword
	Line    int     // first physical line
	EndLine int     // last physical line
}

// Recognized reports whether the line begins with a known keyword
func (l LogicalLine) Recognized() bool {
	return l.Keyword != ""
}

// Lexer joins physical lines from a Scanner into logical lines
type Lexer struct {
	scanner   *Scanner
	mode      MatchMode
	current   *LogicalLine
	continued bool
	done      bool
}

// NewLexer creates a new lexer reading instruction text from r
func NewLexer(r io.Reader, mode MatchMode) *Lexer {
	return &Lexer{
		scanner: NewScanner(r),
		mode:    mode,
	}
}

// Next returns the next logical line, or io.EOF when there are no more.
func (l *Lexer) Next() (LogicalLine, error) {
	for !l.done {
		tok, err := l.scanner.Scan()
		if err == io.EOF {
			l.done = true
			break
		}
		if err != nil {
			return LogicalLine{}, err
		}
		if tok.Type != TokenText {
			continue
		}

		if line, ok := l.push(tok); ok {
			return line, nil
		}
	}

	if l.current != nil {
		line := l.finish()
		return line, nil
	}
	return LogicalLine{}, io.EOF
}

// All drains the lexer
func (l *Lexer) All() ([]LogicalLine, error) {
	lines := make([]LogicalLine, 0)
	for {
		line, err := l.Next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

// push feeds one text token, returning a completed logical line when tok
// starts a new one.
func (l *Lexer) push(tok Token) (LogicalLine, bool) {
	_, _, starts := Recognize(tok.Value, l.mode)
	if l.mode == MatchLeading && l.continued {
		starts = false
	}
	l.continued = tok.Continues()

	if l.current != nil && !starts {
		l.current.Text = joinContinuation(l.current.Text, tok.Value)
		l.current.EndLine = tok.Line
		return LogicalLine{}, false
	}

	var completed LogicalLine
	hadCurrent := l.current != nil
	if hadCurrent {
		completed = l.finish()
	}
	l.current = &LogicalLine{
		Text:    strings.TrimSpace(tok.Value),
		Line:    tok.Line,
		EndLine: tok.Line,
	}
	return completed, hadCurrent
}

func (l *Lexer) finish() LogicalLine {
	line := *l.current
	l.current = nil

	line.Text = strings.TrimSpace(trimContinuation(line.Text))
	if kw, args, ok := Recognize(line.Text, l.mode); ok {
		line.Keyword = kw
		line.Args = args
	}
	return line
}

func trimContinuation(s string) string {
	s = strings.TrimRight(s, " \t")
	return strings.TrimRight(strings.TrimSuffix(s, "\\"), " \t")
}

func joinContinuation(head, tail string) string {
	head = trimContinuation(head)
	tail = strings.TrimSpace(tail)
	if head == "" {
		return tail
	}
	if tail == "" || tail == "\\" {
		return head + " \\"
	}
	return head + " " + tail
}

// FromString assembles logical lines from instruction text
func FromString(text string, mode MatchMode) ([]LogicalLine, error) {
	return NewLexer(strings.NewReader(text), mode).All()
}

// FromBytes assembles logical lines from UTF-8 encoded instruction text
func FromBytes(data []byte, mode MatchMode) ([]LogicalLine, error) {
	return NewLexer(bytes.NewReader(data), mode).All()
}

// FromLines assembles logical lines from a pre-split list of lines
func FromLines(lines []string, mode MatchMode) ([]LogicalLine, error) {
	trimmed := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed = append(trimmed, strings.TrimRight(line, "\r\n"))
	}
	return FromString(strings.Join(trimmed, "\n"), mode)
}

// FromByteLines decodes each line and assembles logical lines from them
func FromByteLines(lines [][]byte, mode MatchMode) ([]LogicalLine, error) {
	decoded := make([]string, 0, len(lines))
	for _, line := range lines {
		decoded = append(decoded, string(line))
	}
	return FromLines(decoded, mode)
}
