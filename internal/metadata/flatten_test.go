package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rowsByKey(rows []Row) map[string]Row {
	out := make(map[string]Row, len(rows))
	for _, r := range rows {
		out[r.Key] = r
	}
	return out
}

func TestFlattenFlatDottedPaths(t *testing.T) {
	inner := NewMapping()
	inner.SetStr("Make", "Apple")
	exif := NewMapping()
	exif.Set("EXIF", Map(inner))
	m := NewMapping()
	m.SetStr("file_name", "a.jpg")
	m.Set("image_metadata", Map(exif))

	rows := Flatten(m)
	byKey := rowsByKey(rows)

	require.Contains(t, byKey, "file_name")
	require.Contains(t, byKey, "image_metadata.EXIF.Make")
	require.Equal(t, "Apple", byKey["image_metadata.EXIF.Make"].Value)

	// Nested sections emit header rows.
	require.True(t, byKey["image_metadata"].Header)
	require.True(t, byKey["image_metadata.EXIF"].Header)
}

func TestFlattenSequenceOfMappingsUsesIndices(t *testing.T) {
	first := NewMapping()
	first.SetStr("name", "a")
	second := NewMapping()
	second.SetStr("name", "b")
	m := NewMapping()
	m.Set("items", Seq(Map(first), Map(second)))

	byKey := rowsByKey(Flatten(m))

	require.Contains(t, byKey, "items[0].name")
	require.Contains(t, byKey, "items[1].name")
	require.Equal(t, "a", byKey["items[0].name"].Value)
	require.Equal(t, "b", byKey["items[1].name"].Value)
}

func TestFlattenScalarSequenceIsCommaJoined(t *testing.T) {
	m := NewMapping()
	m.Set("tags", Strings([]string{"x", "y"}))

	byKey := rowsByKey(Flatten(m))
	require.Equal(t, "x, y", byKey["tags"].Value)
}

// Two distinct sibling keys must never produce the same dotted path.
func TestFlattenSiblingPathsAreDistinct(t *testing.T) {
	left := NewMapping()
	left.SetStr("x", "1")
	left.SetStr("y", "2")
	right := NewMapping()
	right.SetStr("x", "3")
	m := NewMapping()
	m.Set("left", Map(left))
	m.Set("right", Map(right))
	m.SetStr("top", "4")

	seen := make(map[string]int)
	for _, r := range Flatten(m) {
		if r.Header {
			continue
		}
		seen[r.Key]++
	}
	require.Len(t, seen, 4)
	for key, n := range seen {
		require.Equal(t, 1, n, "path %q emitted %d times", key, n)
	}
}

func TestFlattenGroupedEmitsGroupHeaders(t *testing.T) {
	general := NewMapping()
	general.SetStr("file_name", "x.jpg")
	exif := NewMapping()
	exif.SetStr("CreateDate", "2021:01:01")
	gpsInfo := NewMapping()
	gpsInfo.SetStr("GPSLatitude", "40.0")
	exif.Set("GPSInfo", Map(gpsInfo))
	m := NewMapping()
	m.Set("General", Map(general))
	m.Set("EXIF", Map(exif))

	rows := Flatten(m)

	var headers []string
	for _, r := range rows {
		if r.Header {
			headers = append(headers, r.Key)
		}
	}
	// Groups are sorted for display.
	require.Equal(t, []string{"EXIF", "General"}, headers)

	byKey := rowsByKey(rows)
	require.Contains(t, byKey, "CreateDate")
	// One-level descent into nested group values.
	require.Contains(t, byKey, "GPSInfo.GPSLatitude")
	require.Equal(t, "40.0", byKey["GPSInfo.GPSLatitude"].Value)
}

func TestFlattenSkipsEmptyGroups(t *testing.T) {
	m := NewMapping()
	m.Set("General", Map(NewMapping()))
	m.SetStr("scalar", "x")

	// Grouped classification holds (General + mapping value), but the empty
	// group contributes no rows.
	require.True(t, IsGrouped(m))
	rows := Flatten(m)
	for _, r := range rows {
		require.NotEqual(t, "General", r.Key)
	}
}
