package store

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EncodeTokens serializes a token sequence as a JSON array in the layout the
// downstream consumers were built against: elements separated by ", ",
// non-ASCII text kept literal, HTML characters not escaped.
func EncodeTokens(tokens []string) string {
	if len(tokens) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range tokens {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteJSON(t))
	}
	b.WriteByte(']')
	return b.String()
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// DecodeTokens parses a stored token column. Empty input is an empty
// sequence.
func DecodeTokens(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
