package tokenize

import (
	"fmt"
	"unicode/utf8"
)

// Version returns the current version of the package.
func Version() string { return "0.2.0" }

// Default script range: the precomposed Hangul syllable block.
const (
	DefaultScriptLow  = '가' // U+AC00
	DefaultScriptHigh = '힣' // U+D7A3
	DefaultMinLength  = 2
)

// defaultStopwords are the grammatical and linking words dropped from every
// token sequence. Matching is exact and case-sensitive.
var defaultStopwords = []string{
	"그리고", "그래서", "하지만", "그러나", "또는", "및", "등", "것을",
	"있다", "없다", "하다", "되다", "하게", "하기", "했다",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	out := make([]string, len(defaultStopwords))
	copy(out, defaultStopwords)
	return out
}

// Config holds the immutable segmentation policy.
type Config struct {
	// ScriptLow and ScriptHigh bound (inclusive) the runes that form words.
	ScriptLow  rune
	ScriptHigh rune
	// MinLength is the shortest run, in runes, kept as a token.
	MinLength int
	Stopwords []string
}

// DefaultConfig returns the Hangul policy used by the dictionary build.
func DefaultConfig() Config {
	return Config{
		ScriptLow:  DefaultScriptLow,
		ScriptHigh: DefaultScriptHigh,
		MinLength:  DefaultMinLength,
		Stopwords:  DefaultStopwords(),
	}
}

// Tokenizer segments text into content words.
type Tokenizer struct {
	low, high rune
	minLen    int
	stop      map[string]struct{}
}

// New creates a tokenizer for cfg.
func New(cfg Config) (*Tokenizer, error) {
	if cfg.ScriptLow > cfg.ScriptHigh {
		return nil, fmt.Errorf("tokenize: script range %U..%U is empty", cfg.ScriptLow, cfg.ScriptHigh)
	}
	if cfg.MinLength < 1 {
		return nil, fmt.Errorf("tokenize: min length must be positive, got %d", cfg.MinLength)
	}
	stop := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stop[w] = struct{}{}
	}
	return &Tokenizer{
		low:    cfg.ScriptLow,
		high:   cfg.ScriptHigh,
		minLen: cfg.MinLength,
		stop:   stop,
	}, nil
}

// MustNew is like New but panics on an invalid config.
func MustNew(cfg Config) *Tokenizer {
	t, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// InScript reports whether r belongs to the configured script range.
func (t *Tokenizer) InScript(r rune) bool {
	return r >= t.low && r <= t.high
}

// IsStopword reports whether w is an exact stopword match.
func (t *Tokenizer) IsStopword(w string) bool {
	_, ok := t.stop[w]
	return ok
}

// Tokenize returns the distinct content words of text in first-occurrence
// order. Runes outside the script range separate words; a run is never split
// or merged with its neighbours.
func (t *Tokenizer) Tokenize(text string) []string {
	out := []string{}
	seen := make(map[string]struct{})

	start := -1
	emit := func(end int) {
		w := text[start:end]
		start = -1
		if utf8.RuneCountInString(w) < t.minLen {
			return
		}
		if t.IsStopword(w) {
			return
		}
		if _, dup := seen[w]; dup {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	for i, r := range text {
		if t.InScript(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			emit(i)
		}
	}
	if start >= 0 {
		emit(len(text))
	}
	return out
}

// TokenizePtr treats a nil text as empty.
func (t *Tokenizer) TokenizePtr(text *string) []string {
	if text == nil {
		return []string{}
	}
	return t.Tokenize(*text)
}

// Dedupe removes repeated words, keeping the first position of each.
func Dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
