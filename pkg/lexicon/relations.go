package lexicon

import (
	"github.com/japaniel/sajeon/pkg/tokenize"
)

// Attribute names under which a relation carries its target word and type.
var (
	relWordAtts = map[string]bool{"word": true, "target_word": true, "related_word": true}
	relTypeAtts = map[string]bool{"type": true, "relType": true, "relationType": true}
)

// relation returns the related word and relation type of r. When an alias
// repeats inside one bag the last one wins.
func relation(r Relation) (word, typ string) {
	for _, f := range r.Feat {
		if relWordAtts[f.Att] {
			word = f.Val
		}
		if relTypeAtts[f.Att] {
			typ = f.Val
		}
	}
	return word, typ
}

// ExtractRelTokens harvests tokens from the relations of a sense: the related
// word and, alongside it, the relation type label. A relation without a
// related word contributes nothing. The result is never nil.
func ExtractRelTokens(tok *tokenize.Tokenizer, s Sense) []string {
	return extractRelTokens(tok, s, nil)
}

func extractRelTokens(tok *tokenize.Tokenizer, s Sense, fold func(string) string) []string {
	if len(s.SenseRelation) == 0 {
		return []string{}
	}
	var acc []string
	for _, r := range s.SenseRelation {
		word, typ := relation(r)
		if word == "" {
			continue
		}
		if fold != nil {
			word, typ = fold(word), fold(typ)
		}
		acc = append(acc, tok.Tokenize(word)...)
		if typ != "" {
			acc = append(acc, tok.Tokenize(typ)...)
		}
	}
	return tokenize.Dedupe(acc)
}
