// Package similarity scores how close two dictionary records are by the
// overlap of their definition and relation tokens.
package similarity

import (
	"math"

	"github.com/japaniel/sajeon/pkg/store"
	"github.com/japaniel/sajeon/pkg/tokenize"
)

// Weights of the three overlaps. They sum to 1.
const (
	BaseWeight     = 0.78
	RelationWeight = 0.11
)

// squash steepness; a raw score s maps to 1-exp(-squashK*s).
const squashK = 3.0

// Breakdown holds the component overlaps behind a score.
type Breakdown struct {
	// Base is the overlap of guess tokens and answer tokens.
	Base float64
	// TokensToRel is the overlap of guess tokens and answer relation tokens.
	TokensToRel float64
	// RelToTokens is the overlap of guess relation tokens and answer tokens.
	RelToTokens float64
	Score       float64
}

// Jaccard returns |a∩b| / |a∪b| over the distinct elements of a and b, or 0
// when both are empty.
func Jaccard(a, b []string) float64 {
	a, b = tokenize.Dedupe(a), tokenize.Dedupe(b)
	in := make(map[string]struct{}, len(b))
	for _, w := range b {
		in[w] = struct{}{}
	}
	inter := 0
	for _, w := range a {
		if _, ok := in[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Compare scores guess against answer.
func Compare(guess, answer store.Entry) Breakdown {
	b := Breakdown{
		Base:        Jaccard(guess.Tokens, answer.Tokens),
		TokensToRel: Jaccard(guess.Tokens, answer.RelTokens),
		RelToTokens: Jaccard(guess.RelTokens, answer.Tokens),
	}
	raw := b.Base*BaseWeight + b.TokensToRel*RelationWeight + b.RelToTokens*RelationWeight
	b.Score = clamp(1 - math.Exp(-squashK*raw))
	return b
}

// Score returns the squashed similarity of guess and answer in [0, 1].
func Score(guess, answer store.Entry) float64 {
	return Compare(guess, answer).Score
}

func clamp(s float64) float64 {
	return math.Max(0, math.Min(1, s))
}
