package importer

import "strings"

// Column is one required logical column of an export format.
type Column struct {
	Name     string
	Contains bool // match any header containing Name instead of equal to it
}

func (c Column) matches(header string) bool {
	if c.Contains {
		return strings.Contains(header, c.Name)
	}
	return header == c.Name
}

// ColumnSpec is the ordered list of columns an adapter needs.
type ColumnSpec []Column

// Names returns the logical column names in order.
func (s ColumnSpec) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// ResolveColumns maps each column of spec to its position in header, or -1
// when no header field matches. Header fields are trimmed and stripped of
// quote characters before comparison; the first match wins.
func ResolveColumns(header []string, spec ColumnSpec) []int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	indices := make([]int, len(spec))
	for i, col := range spec {
		indices[i] = -1
		for j, h := range normalized {
			if col.matches(h) {
				indices[i] = j
				break
			}
		}
	}
	return indices
}

// AssertResolved returns a MissingColumnsError naming every column of spec
// whose index is negative, or nil when all resolved.
func AssertResolved(indices []int, spec ColumnSpec) error {
	var missing []string
	for i, col := range spec {
		if i >= len(indices) || indices[i] < 0 {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// maxIndex returns the largest resolved index.
func maxIndex(indices []int) int {
	m := -1
	for _, i := range indices {
		if i > m {
			m = i
		}
	}
	return m
}
