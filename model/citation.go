package model

import "strings"

// RefPath is a parsed citation reference: one label per level of the
// citation tree, outermost first. The textual form joins the labels
// with dots, e.g. "1.2.4".
type RefPath []string

// String renders the path back to its canonical dotted form.
func (p RefPath) String() string {
	return strings.Join(p, ".")
}

// Depth returns the number of levels in the path.
func (p RefPath) Depth() int {
	return len(p)
}

// IsAncestorOf reports whether p is a strict prefix of other.
func (p RefPath) IsAncestorOf(other RefPath) bool {
	if len(p) >= len(other) {
		return false
	}
	for i, label := range p {
		if other[i] != label {
			return false
		}
	}
	return true
}

// CitableUnit is one addressable node of a citation tree, in document order.
// Parent is the index of the enclosing unit within the same tree snapshot,
// or -1 for top-level units.
type CitableUnit struct {
	Path   RefPath `json:"path"`
	Parent int     `json:"parent"`
	Text   string  `json:"text,omitempty"`
}

// TreeSnapshot is the serialized form of one citation tree of a document:
// its citable units in document order.
type TreeSnapshot struct {
	Name  string        `json:"name"`
	Units []CitableUnit `json:"units"`
}
