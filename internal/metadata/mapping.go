package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Mapping is a string-keyed map that remembers insertion order. Key order is
// part of the output contract: points of interest are emitted in rule order
// and the lossless JSON export must survive a round trip unchanged.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{vals: make(map[string]Value)}
}

// Set inserts or replaces a key. Replacing keeps the original position.
func (m *Mapping) Set(key string, v Value) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// SetStr is shorthand for Set with a string scalar.
func (m *Mapping) SetStr(key, s string) {
	m.Set(key, Str(s))
}

// Get returns the value for key.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Child returns the nested mapping stored under key, if any.
func (m *Mapping) Child(key string) (*Mapping, bool) {
	v, ok := m.vals[key]
	if !ok || v.Kind != KindMapping || v.Map == nil {
		return nil, false
	}
	return v.Map, true
}

// Delete removes a key, preserving the order of the remaining keys.
func (m *Mapping) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// SortedKeys returns the keys sorted lexically, for deterministic table
// rendering.
func (m *Mapping) SortedKeys() []string {
	out := m.Keys()
	sort.Strings(out)
	return out
}

// Equal compares two mappings by keys, values and key order.
func (m *Mapping) Equal(o *Mapping) bool {
	if m == nil || o == nil {
		return m.Len() == 0 && o.Len() == 0
	}
	if len(m.keys) != len(o.keys) {
		return false
	}
	for i, k := range m.keys {
		if o.keys[i] != k {
			return false
		}
		if !m.vals[k].Equal(o.vals[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := DecodeMapping(dec)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// DecodeMapping reads one JSON object from dec into an ordered mapping. The
// decoder should have UseNumber set so numeric scalars survive re-encoding.
func DecodeMapping(dec *json.Decoder) (*Mapping, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("metadata: expected object, got %v", tok)
	}
	return decodeMappingBody(dec)
}
