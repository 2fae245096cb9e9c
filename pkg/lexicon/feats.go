package lexicon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Feat is one att/val attribute.
type Feat struct {
	Att string
	Val string
}

// Feats is the normalized form of a "feat" node. The source schema stores
// attributes either as a single {"att","val"} object, as an array of such
// objects, or as a plain keyed mapping; all three decode to an ordered Feats.
type Feats []Feat

// Get returns the value of the first attribute named att, or "".
func (fs Feats) Get(att string) string {
	for _, f := range fs {
		if f.Att == att {
			return f.Val
		}
	}
	return ""
}

// Map collects every attribute into a name->value map. Later duplicates win.
func (fs Feats) Map() map[string]string {
	m := make(map[string]string, len(fs))
	for _, f := range fs {
		m[f.Att] = f.Val
	}
	return m
}

// UnmarshalJSON implements json.Unmarshaler.
func (fs *Feats) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*fs = nil
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(Feats, 0, len(items))
		for _, raw := range items {
			f, ok, err := decodeAttVal(raw)
			if err != nil {
				return err
			}
			if ok {
				out = append(out, f)
			}
		}
		*fs = out
		return nil
	case '{':
		if f, ok, err := decodeAttVal(data); err != nil {
			return err
		} else if ok {
			*fs = Feats{f}
			return nil
		}
		out, err := decodeKeyed(data)
		if err != nil {
			return err
		}
		*fs = out
		return nil
	default:
		// A bare scalar carries no attribute name; the node counts as empty.
		*fs = nil
		return nil
	}
}

// decodeAttVal decodes an {"att": ..., "val": ...} object. ok is false when
// raw is not an object or carries no "att" key.
func decodeAttVal(raw json.RawMessage) (Feat, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Feat{}, false, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Feat{}, false, err
	}
	att, ok := obj["att"]
	if !ok {
		return Feat{}, false, nil
	}
	return Feat{Att: scalarText(att), Val: scalarText(obj["val"])}, true, nil
}

// decodeKeyed decodes a plain mapping, keeping document key order.
func decodeKeyed(data []byte) (Feats, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // {
		return nil, err
	}
	var out Feats
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("feat: unexpected object key %v", tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		out = append(out, Feat{Att: key, Val: scalarText(val)})
	}
	if _, err := dec.Token(); err != nil { // }
		return nil, err
	}
	return out, nil
}

// scalarText renders a JSON scalar as text. Strings are unquoted, null and
// absent values are empty, numbers and booleans keep their literal form.
// Nested objects and arrays yield "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(raw)
	}
}

// Many is a node that may be a single object or an array of objects.
type Many[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (m *Many[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*m = items
		return nil
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*m = Many[T]{one}
	return nil
}
