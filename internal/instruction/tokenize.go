package instruction

import (
	"bytes"
	"encoding/json"
	"strings"
)

// pairSeparator joins key/value pairs that are rendered one per line
const pairSeparator = " \\\n    "

// Pair is one KEY=VALUE entry of an ENV or LABEL instruction
type Pair struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// splitWords splits s on unquoted whitespace. Quotes are removed and a
// backslash escapes the next character outside single quotes.
func splitWords(s string) []string {
	words := make([]string, 0)

	var word strings.Builder
	inWord := false
	var quote rune
	escaped := false

	for _, ch := range s {
		if escaped {
			word.WriteRune(ch)
			escaped = false
			continue
		}

		switch {
		case ch == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				word.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inWord = true
		case ch == ' ' || ch == '\t' || ch == '\n':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(ch)
			inWord = true
		}
	}

	if inWord {
		words = append(words, word.String())
	}
	return words
}

// quote wraps s in double quotes, escaping quotes and backslashes
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// parsePairs parses whitespace separated KEY=VALUE pairs, or the single
// "KEY VALUE" form when the first token has no '='.
func parsePairs(kind Kind, args string) ([]Pair, error) {
	args = strings.TrimSpace(strings.ReplaceAll(args, "\\\n", " "))
	if args == "" {
		return nil, required(kind, "variables")
	}

	first, rest := splitFlag(args)
	if !strings.Contains(first, "=") {
		key := strings.Join(splitWords(first), "")
		return []Pair{{Key: key, Value: strings.Join(splitWords(rest), " ")}}, nil
	}

	words := splitWords(args)
	pairs := make([]Pair, 0, len(words))
	for _, word := range words {
		key, value, found := strings.Cut(word, "=")
		if !found || key == "" {
			return nil, invalid(kind, "variable", word, "expected KEY=VALUE")
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs, nil
}

func formatPairs(keyword string, pairs []Pair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.Key+"="+quote(p.Value))
	}
	return keyword + " " + strings.Join(parts, pairSeparator)
}

func pairMap(pairs []Pair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

func expandPairs(pairs []Pair, mapping func(string) string) []Pair {
	if pairs == nil {
		return nil
	}
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = Pair{Key: p.Key, Value: mapping(p.Value)}
	}
	return out
}

// parseList decodes a bracketed list. JSON arrays are decoded exactly; other
// bracketed text is split on commas with surrounding quotes stripped. The
// second return value is false when s is not bracketed.
func parseList(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}

	var items []string
	if err := json.Unmarshal([]byte(s), &items); err == nil {
		return nilIfEmpty(items), true
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return nil, true
	}
	for _, item := range strings.Split(inner, ",") {
		item = strings.TrimSpace(item)
		if len(item) >= 2 && (item[0] == '"' || item[0] == '\'') && item[len(item)-1] == item[0] {
			item = item[1 : len(item)-1]
		}
		items = append(items, item)
	}
	return items, true
}

// formatList renders items as a JSON array with ", " separators
func formatList(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, jsonString(item))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
