// Package citation parses citation references and resolves them against
// the citation trees of a document.
package citation

import (
	"strings"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/model"
)

// ParseRef parses a dotted citation reference ("1.2.4", "pr.1", "12v") into
// its level labels. Labels are compared structurally, not lexically, so
// "10" sorts after "9".
func ParseRef(ref string) (model.RefPath, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, errors.NewInvalidReferenceError(ref, "reference is empty")
	}

	labels := strings.Split(ref, ".")
	path := make(model.RefPath, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, errors.NewInvalidReferenceError(ref, "empty level label")
		}
		path = append(path, label)
	}
	return path, nil
}

// CompareLabels orders two level labels. Numeric labels compare as numbers,
// everything else byte-wise; numbers sort before non-numeric labels.
func CompareLabels(a, b string) int {
	numA, okA := atoiLabel(a)
	numB, okB := atoiLabel(b)

	switch {
	case okA && okB:
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// ComparePaths orders two reference paths level by level. A strict prefix
// sorts before any of its descendants.
func ComparePaths(a, b model.RefPath) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareLabels(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// atoiLabel parses a label consisting only of ASCII digits. Labels like
// "12v" are not numeric.
func atoiLabel(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
