package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keywords(lines []LogicalLine) []Keyword {
	out := make([]Keyword, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Keyword)
	}
	return out
}

func TestFromStringDropsCommentsAndBlanks(t *testing.T) {
	lines, err := FromString("# syntax comment\n\nFROM python:3.11-slim\n  # indented comment\nWORKDIR /app\n\nRUN pip install -r requirements.txt\n", MatchLeading)
	require.NoError(t, err)
	require.Equal(t, []Keyword{FROM, WORKDIR, RUN}, keywords(lines))

	assert.Equal(t, "FROM python:3.11-slim", lines[0].Text)
	assert.Equal(t, "python:3.11-slim", lines[0].Args)
	assert.Equal(t, 3, lines[0].Line)
	assert.Equal(t, 5, lines[1].Line)
	assert.Equal(t, "pip install -r requirements.txt", lines[2].Args)
}

func TestContinuationLinesAreJoined(t *testing.T) {
	text := "RUN apt-get update && \\\n    apt-get install -y curl \\\n    && rm -rf /var/lib/apt/lists/*\nUSER app\n"
	lines, err := FromString(text, MatchLeading)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "RUN apt-get update && apt-get install -y curl && rm -rf /var/lib/apt/lists/*", lines[0].Text)
	assert.Equal(t, 1, lines[0].Line)
	assert.Equal(t, 3, lines[0].EndLine)
	assert.Equal(t, USER, lines[1].Keyword)
}

func TestContinuationStartingWithKeyword(t *testing.T) {
	text := "RUN echo \\\n  run this too\nCMD [\"sh\"]\n"

	lines, err := FromString(text, MatchLeading)
	require.NoError(t, err)
	require.Equal(t, []Keyword{RUN, CMD}, keywords(lines))
	assert.Equal(t, "echo run this too", lines[0].Args)
}

func TestMatchAnywhereSplitsOnEmbeddedKeyword(t *testing.T) {
	text := "RUN echo \\\n  and COPY this\n"

	lines, err := FromString(text, MatchAnywhere)
	require.NoError(t, err)
	require.Equal(t, []Keyword{RUN, COPY}, keywords(lines))
	assert.Equal(t, "echo", lines[0].Args)
}

func TestMatchAnywhereIsCaseSensitive(t *testing.T) {
	lines, err := FromString("from scratch\nrun true\n", MatchAnywhere)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Recognized())

	lines, err = FromString("from scratch\nrun true\n", MatchLeading)
	require.NoError(t, err)
	assert.Equal(t, []Keyword{FROM, RUN}, keywords(lines))
}

func TestTextBeforeFirstKeyword(t *testing.T) {
	lines, err := FromString("not an instruction\nFROM alpine\n", MatchLeading)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.False(t, lines[0].Recognized())
	assert.Equal(t, "not an instruction", lines[0].Text)
	assert.Equal(t, FROM, lines[1].Keyword)
}

func TestCRLFInput(t *testing.T) {
	lines, err := FromBytes([]byte("FROM alpine\r\nRUN echo hi \\\r\n  there\r\n"), MatchLeading)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "RUN echo hi there", lines[1].Text)
}

func TestInputForms(t *testing.T) {
	expected := []Keyword{FROM, ENV}

	fromLines, err := FromLines([]string{"FROM alpine\n", "ENV A=1"}, MatchLeading)
	require.NoError(t, err)
	assert.Equal(t, expected, keywords(fromLines))

	fromByteLines, err := FromByteLines([][]byte{[]byte("FROM alpine"), []byte("ENV A=1")}, MatchLeading)
	require.NoError(t, err)
	assert.Equal(t, expected, keywords(fromByteLines))

	all, err := NewLexer(strings.NewReader("FROM alpine\nENV A=1"), MatchLeading).All()
	require.NoError(t, err)
	assert.Equal(t, fromLines, all)
}

func TestEmptyInput(t *testing.T) {
	lines, err := FromString("\n# only a comment\n", MatchLeading)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRecognize(t *testing.T) {
	for _, tt := range []struct {
		text string
		mode MatchMode
		kw   Keyword
		args string
		ok   bool
	}{
		{"FROM alpine", MatchLeading, FROM, "alpine", true},
		{"  workdir   /app ", MatchLeading, WORKDIR, "/app", true},
		{"HEALTHCHECK", MatchLeading, HEALTHCHECK, "", true},
		{"FROMAGE x", MatchLeading, "", "", false},
		{"echo RUN me", MatchAnywhere, RUN, "me", true},
		{"echo run me", MatchAnywhere, "", "", false},
	} {
		kw, args, ok := Recognize(tt.text, tt.mode)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.kw, kw, tt.text)
		assert.Equal(t, tt.args, args, tt.text)
	}
}

func TestParseMatchMode(t *testing.T) {
	for input, expected := range map[string]MatchMode{
		"":         MatchLeading,
		"leading":  MatchLeading,
		"Anywhere": MatchAnywhere,
		"legacy":   MatchAnywhere,
	} {
		mode, err := ParseMatchMode(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, mode, input)
	}

	_, err := ParseMatchMode("sometimes")
	require.Error(t, err)
}

func TestScannerClassifiesLines(t *testing.T) {
	s := NewScanner(strings.NewReader("FROM a\n\n# c\n"))

	var types []TokenType
	for {
		tok, err := s.Scan()
		if err != nil {
			break
		}
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{TokenText, TokenBlank, TokenComment}, types)
}
