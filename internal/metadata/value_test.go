package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.SetStr("zebra", "1")
	m.SetStr("alpha", "2")
	m.SetStr("mike", "3")

	require.Equal(t, []string{"zebra", "alpha", "mike"}, m.Keys())
	require.Equal(t, []string{"alpha", "mike", "zebra"}, m.SortedKeys())
}

func TestMappingSetKeepsPositionOnReplace(t *testing.T) {
	m := NewMapping()
	m.SetStr("a", "1")
	m.SetStr("b", "2")
	m.SetStr("a", "updated")

	require.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, "updated", v.String())
}

func TestMappingDelete(t *testing.T) {
	m := NewMapping()
	m.SetStr("a", "1")
	m.SetStr("b", "2")
	m.SetStr("c", "3")
	m.Delete("b")

	require.Equal(t, []string{"a", "c"}, m.Keys())
	require.False(t, m.Has("b"))
}

func TestMappingJSONRoundTrip(t *testing.T) {
	m := NewMapping()
	m.SetStr("file_name", "photo.jpg")
	m.Set("file_size", Int(2048))
	nested := NewMapping()
	nested.SetStr("Make", "Apple")
	nested.Set("flags", Seq(Str("a"), Str("b")))
	m.Set("image_metadata", Map(nested))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	decoded := NewMapping()
	require.NoError(t, json.Unmarshal(data, decoded))

	require.True(t, m.Equal(decoded), "round trip changed the mapping")
	require.Equal(t, m.Keys(), decoded.Keys())
}

func TestMappingJSONKeyOrderInOutput(t *testing.T) {
	m := NewMapping()
	m.SetStr("z", "last-inserted-first")
	m.SetStr("a", "second")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, `{"z":"last-inserted-first","a":"second"}`, string(data))
}

func TestValueStringRendering(t *testing.T) {
	require.Equal(t, "hello", Str("hello").String())
	require.Equal(t, "42", Int(42).String())
	require.Equal(t, "true", Bool(true).String())
	require.Equal(t, "a, b", Seq(Str("a"), Str("b")).String())
	require.Equal(t, "", Value{Kind: KindScalar, Scalar: nil}.String())
}

func TestFromAnyConvertsNestedStructures(t *testing.T) {
	v := FromAny(map[string]any{
		"b_list":   []any{"x", 1},
		"a_scalar": "s",
	})
	require.Equal(t, KindMapping, v.Kind)
	// Map keys are sorted for determinism.
	require.Equal(t, []string{"a_scalar", "b_list"}, v.Map.Keys())

	list, ok := v.Map.Get("b_list")
	require.True(t, ok)
	require.Equal(t, KindSequence, list.Kind)
	require.Len(t, list.Seq, 2)
}

func TestValueEqualAcrossNumberEncodings(t *testing.T) {
	var decoded Value
	require.NoError(t, json.Unmarshal([]byte("42"), &decoded))
	require.True(t, Int(42).Equal(decoded))
}
