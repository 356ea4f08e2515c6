package metadata

import "fmt"

// Row is one flattened (key, value) line for tabular display or text export.
// Header rows introduce a group or nested section and carry no value.
type Row struct {
	Key    string
	Value  string
	Header bool
}

// Flatten turns a canonical map into display rows. Grouped-schema maps are
// rendered group by group with a header row per group and single-level
// "key.sub" descent into nested values. Flat-schema maps recurse with
// accumulating dotted prefixes and "key[i]" indices for sequences of
// mappings. Keys are sorted at each level so the table view and the text
// export produce identical key paths.
func Flatten(m *Mapping) []Row {
	if IsGrouped(m) {
		return flattenGrouped(m)
	}
	return flattenFlat(m, "")
}

func flattenGrouped(m *Mapping) []Row {
	var rows []Row
	for _, group := range m.SortedKeys() {
		g, ok := m.Child(group)
		if !ok || g.Len() == 0 {
			continue
		}
		rows = append(rows, Row{Key: group, Header: true})
		for _, key := range g.SortedKeys() {
			v, _ := g.Get(key)
			switch v.Kind {
			case KindMapping:
				for _, sub := range v.Map.SortedKeys() {
					sv, _ := v.Map.Get(sub)
					rows = append(rows, Row{Key: key + "." + sub, Value: sv.String()})
				}
			default:
				rows = append(rows, Row{Key: key, Value: v.String()})
			}
		}
	}
	return rows
}

func flattenFlat(m *Mapping, prefix string) []Row {
	var rows []Row
	for _, key := range m.SortedKeys() {
		v, _ := m.Get(key)
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v.Kind {
		case KindMapping:
			if key == "error" {
				rows = append(rows, Row{Key: full, Value: v.String()})
				continue
			}
			rows = append(rows, Row{Key: full, Header: true})
			rows = append(rows, flattenFlat(v.Map, full)...)
		case KindSequence:
			if allMappings(v.Seq) && len(v.Seq) > 0 {
				for i, e := range v.Seq {
					indexed := fmt.Sprintf("%s[%d]", full, i)
					rows = append(rows, Row{Key: indexed, Header: true})
					rows = append(rows, flattenFlat(e.Map, indexed)...)
				}
				continue
			}
			rows = append(rows, Row{Key: full, Value: v.String()})
		default:
			rows = append(rows, Row{Key: full, Value: v.String()})
		}
	}
	return rows
}

func allMappings(vs []Value) bool {
	for _, v := range vs {
		if v.Kind != KindMapping {
			return false
		}
	}
	return true
}
