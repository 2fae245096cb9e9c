package lexicon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedDocument is returned when a package member does not decode as
// a lexical resource document.
var ErrMalformedDocument = errors.New("malformed lexical resource document")

// Document is the top level of one package member.
type Document struct {
	LexicalResource *LexicalResource `json:"LexicalResource"`
}

type LexicalResource struct {
	Lexicon Many[Lexicon] `json:"Lexicon"`
}

type Lexicon struct {
	Feat         Feats       `json:"feat"`
	LexicalEntry Many[Entry] `json:"LexicalEntry"`
}

// Entry is one raw lexical entry.
type Entry struct {
	Lemma Many[Lemma] `json:"Lemma"`
	Feat  Feats       `json:"feat"`
	Sense Many[Sense] `json:"Sense"`
}

type Lemma struct {
	Feat Feats `json:"feat"`
}

// Sense is one meaning of an entry.
type Sense struct {
	Feat          Feats          `json:"feat"`
	SenseRelation Many[Relation] `json:"SenseRelation"`
}

// Relation links a sense to a related word.
type Relation struct {
	Feat Feats `json:"feat"`
}

// Headword returns the written form of the entry's first lemma.
func (e Entry) Headword() string {
	if len(e.Lemma) == 0 {
		return ""
	}
	return e.Lemma[0].Feat.Get("writtenForm")
}

// Entries returns every lexical entry of the document in order.
func (d *Document) Entries() []Entry {
	if d.LexicalResource == nil {
		return nil
	}
	var out []Entry
	for _, lex := range d.LexicalResource.Lexicon {
		out = append(out, lex.LexicalEntry...)
	}
	return out
}

// DecodeDocument reads one JSON document. A document without a
// LexicalResource/Lexicon is malformed.
func DecodeDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument is DecodeDocument over an in-memory buffer.
func ParseDocument(data []byte) (*Document, error) {
	// Tolerate a UTF-8 byte order mark.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.LexicalResource == nil {
		return nil, fmt.Errorf("%w: missing LexicalResource", ErrMalformedDocument)
	}
	if len(doc.LexicalResource.Lexicon) == 0 {
		return nil, fmt.Errorf("%w: missing Lexicon", ErrMalformedDocument)
	}
	return &doc, nil
}
