package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Kind identifies which variant of the Value union is populated.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

// Value is the single value slot of the canonical metadata model. Exactly one
// variant is populated, selected by Kind; traversal code switches on the tag
// instead of inspecting runtime types.
type Value struct {
	Kind   Kind
	Scalar any // string, bool, json.Number, int, int64, float64 or nil
	Map    *Mapping
	Seq    []Value
}

// Str wraps a string scalar.
func Str(s string) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

// Int wraps an integer scalar.
func Int(i int) Value {
	return Value{Kind: KindScalar, Scalar: int64(i)}
}

// Bool wraps a boolean scalar.
func Bool(b bool) Value {
	return Value{Kind: KindScalar, Scalar: b}
}

// Map wraps a nested mapping.
func Map(m *Mapping) Value {
	return Value{Kind: KindMapping, Map: m}
}

// Seq wraps an ordered sequence.
func Seq(vs ...Value) Value {
	return Value{Kind: KindSequence, Seq: vs}
}

// Strings wraps a sequence of string scalars.
func Strings(ss []string) Value {
	vs := make([]Value, 0, len(ss))
	for _, s := range ss {
		vs = append(vs, Str(s))
	}
	return Value{Kind: KindSequence, Seq: vs}
}

// FromAny converts a dynamically typed value (as produced by decoding
// libraries) into the tagged model. Map keys are emitted in sorted order so
// conversion is deterministic.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindScalar, Scalar: nil}
	case Value:
		return t
	case *Mapping:
		return Map(t)
	case string:
		return Str(t)
	case bool:
		return Bool(t)
	case json.Number:
		return Value{Kind: KindScalar, Scalar: t}
	case int:
		return Int(t)
	case int64:
		return Value{Kind: KindScalar, Scalar: t}
	case uint64:
		return Value{Kind: KindScalar, Scalar: int64(t)}
	case float64:
		return Value{Kind: KindScalar, Scalar: t}
	case time.Time:
		return Str(t.Format("2006-01-02 15:04:05"))
	case map[string]any:
		m := NewMapping()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, FromAny(t[k]))
		}
		return Map(m)
	case []any:
		vs := make([]Value, 0, len(t))
		for _, e := range t {
			vs = append(vs, FromAny(e))
		}
		return Value{Kind: KindSequence, Seq: vs}
	case []string:
		return Strings(t)
	default:
		return Str(fmt.Sprint(t))
	}
}

// String renders the value for display: scalars verbatim, sequences
// comma-joined, mappings as compact JSON.
func (v Value) String() string {
	switch v.Kind {
	case KindScalar:
		return scalarString(v.Scalar)
	case KindSequence:
		var buf bytes.Buffer
		for i, e := range v.Seq {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(e.String())
		}
		return buf.String()
	case KindMapping:
		b, err := json.Marshal(v.Map)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

func scalarString(s any) string {
	switch t := s.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Equal compares two values structurally. Scalars compare by their rendered
// form so a decoded json.Number equals the native value it was encoded from.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindScalar:
		return scalarString(v.Scalar) == scalarString(o.Scalar)
	case KindMapping:
		return v.Map.Equal(o.Map)
	case KindSequence:
		if len(v.Seq) != len(o.Seq) {
			return false
		}
		for i := range v.Seq {
			if !v.Seq[i].Equal(o.Seq[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes the populated variant.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindScalar:
		return json.Marshal(v.Scalar)
	case KindMapping:
		return json.Marshal(v.Map)
	case KindSequence:
		if v.Seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Seq)
	}
	return nil, fmt.Errorf("metadata: unknown value kind %d", v.Kind)
}

// UnmarshalJSON decodes into the tagged model, preserving object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// decodeValue consumes exactly one JSON value from the decoder.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, tok)
}

func decodeFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m, err := decodeMappingBody(dec)
			if err != nil {
				return Value{}, err
			}
			return Map(m), nil
		case '[':
			seq := []Value{}
			for dec.More() {
				e, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				seq = append(seq, e)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return Value{}, err
			}
			return Value{Kind: KindSequence, Seq: seq}, nil
		default:
			return Value{}, fmt.Errorf("metadata: unexpected delimiter %q", t)
		}
	case string:
		return Str(t), nil
	case json.Number:
		return Value{Kind: KindScalar, Scalar: t}, nil
	case bool:
		return Bool(t), nil
	case nil:
		return Value{Kind: KindScalar, Scalar: nil}, nil
	default:
		return Value{}, fmt.Errorf("metadata: unexpected token %v", tok)
	}
}

// decodeMappingBody reads key/value pairs up to and including the closing
// brace. The opening brace must already be consumed.
func decodeMappingBody(dec *json.Decoder) (*Mapping, error) {
	m := NewMapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("metadata: object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, err
	}
	return m, nil
}
