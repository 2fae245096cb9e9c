package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/japaniel/sajeon/pkg/tokenize"
)

// DefaultMaxHeadwordLength is the longest admitted headword, in runes.
const DefaultMaxHeadwordLength = 10

// Record is the canonical row produced for one admitted entry.
type Record struct {
	Word       string
	POS        string
	Level      string
	Definition string
	Example    string
	Tokens     []string
	RelTokens  []string
}

// Reason explains why an entry was not admitted.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmptyHeadword
	ReasonHeadwordWhitespace
	ReasonHeadwordHyphen
	ReasonHeadwordTooLong
	ReasonNoSenses
	ReasonNoDefinition
	ReasonNoTokens
)

var reasonNames = [...]string{
	ReasonNone:               "admitted",
	ReasonEmptyHeadword:      "empty_headword",
	ReasonHeadwordWhitespace: "headword_whitespace",
	ReasonHeadwordHyphen:     "headword_hyphen",
	ReasonHeadwordTooLong:    "headword_too_long",
	ReasonNoSenses:           "no_senses",
	ReasonNoDefinition:       "no_definition",
	ReasonNoTokens:           "no_tokens",
}

func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return "unknown"
}

// Decision is the outcome of normalizing one entry: either an admitted
// Record or a rejection Reason.
type Decision struct {
	Record Record
	Reason Reason
}

// Admitted reports whether the entry produced a record.
func (d Decision) Admitted() bool { return d.Reason == ReasonNone }

func admit(r Record) Decision { return Decision{Record: r} }
func reject(r Reason) Decision { return Decision{Reason: r} }

// Normalizer turns raw entries into canonical records.
type Normalizer struct {
	Tokenizer *tokenize.Tokenizer
	// MaxHeadwordLength caps headword length in runes. Zero means
	// DefaultMaxHeadwordLength.
	MaxHeadwordLength int
	// NFC composes text to Unicode normalization form C before processing.
	NFC bool
}

// NewNormalizer creates a Normalizer with the default headword limit.
func NewNormalizer(tok *tokenize.Tokenizer) *Normalizer {
	return &Normalizer{Tokenizer: tok, MaxHeadwordLength: DefaultMaxHeadwordLength}
}

func (n *Normalizer) fold(s string) string {
	if !n.NFC {
		return s
	}
	return norm.NFC.String(s)
}

func (n *Normalizer) maxLen() int {
	if n.MaxHeadwordLength <= 0 {
		return DefaultMaxHeadwordLength
	}
	return n.MaxHeadwordLength
}

// CheckHeadword validates a trimmed headword.
func (n *Normalizer) CheckHeadword(word string) Reason {
	switch {
	case word == "":
		return ReasonEmptyHeadword
	case strings.IndexFunc(word, unicode.IsSpace) >= 0:
		return ReasonHeadwordWhitespace
	case strings.Contains(word, "-"):
		return ReasonHeadwordHyphen
	case utf8.RuneCountInString(word) > n.maxLen():
		return ReasonHeadwordTooLong
	}
	return ReasonNone
}

// Normalize applies the admission rules to e. Only the first sense with a
// definition is used; later senses are ignored.
func (n *Normalizer) Normalize(e Entry) Decision {
	word := strings.TrimSpace(n.fold(e.Headword()))
	if r := n.CheckHeadword(word); r != ReasonNone {
		return reject(r)
	}

	pos := e.Feat.Get("partOfSpeech")
	level := e.Feat.Get("vocabularyLevel")

	if len(e.Sense) == 0 {
		return reject(ReasonNoSenses)
	}

	var (
		picked Sense
		feats  map[string]string
		found  bool
	)
	for _, s := range e.Sense {
		sf := s.Feat.Map()
		if sf["definition"] != "" {
			picked, feats, found = s, sf, true
			break
		}
	}
	if !found {
		return reject(ReasonNoDefinition)
	}

	definition := strings.TrimSpace(n.fold(feats["definition"]))
	example := strings.TrimSpace(n.fold(feats["example"]))

	tokens := n.Tokenizer.Tokenize(definition)
	if len(tokens) == 0 {
		return reject(ReasonNoTokens)
	}

	var fold func(string) string
	if n.NFC {
		fold = n.fold
	}
	return admit(Record{
		Word:       word,
		POS:        pos,
		Level:      level,
		Definition: definition,
		Example:    example,
		Tokens:     tokens,
		RelTokens:  extractRelTokens(n.Tokenizer, picked, fold),
	})
}
