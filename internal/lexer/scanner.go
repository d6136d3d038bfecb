package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single physical line
const maxLineSize = 1024 * 1024

// TokenType classifies a physical line
type TokenType int

const (
	TokenText TokenType = iota
	TokenBlank
	TokenComment
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenBlank:
		return "BLANK"
	case TokenComment:
		return "COMMENT"
	}
	return "ILLEGAL"
}

// Token is one physical line of input
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// String provides a human-readable representation of a token
func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s) at line %d", t.Type, t.Value, t.Line)
	}
	return fmt.Sprintf("%s at line %d", t.Type, t.Line)
}

// Continues reports whether the line ends with a continuation marker
func (t Token) Continues() bool {
	return strings.HasSuffix(strings.TrimRight(t.Value, " \t"), "\\")
}

// Scanner splits input into classified physical lines
type Scanner struct {
	scanner *bufio.Scanner
	line    int
}

func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{scanner: s}
}

// Scan returns the next physical line, or io.EOF once input is exhausted.
func (s *Scanner) Scan() (Token, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return Token{}, err
		}
		return Token{}, io.EOF
	}
	s.line++

	value := strings.TrimSuffix(s.scanner.Text(), "\r")
	trimmed := strings.TrimSpace(value)

	tok := Token{Type: TokenText, Value: value, Line: s.line}
	switch {
	case trimmed == "":
		tok.Type = TokenBlank
	case strings.HasPrefix(trimmed, "#"):
		tok.Type = TokenComment
	}
	return tok, nil
}
