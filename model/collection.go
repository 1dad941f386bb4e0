package model

import "fmt"

// RootCollectionID is the sentinel identifier of the virtual root collection.
// It is never stored in the catalog; resolving it yields the top-level
// collections as children and no parents.
const RootCollectionID = "default"

// Collection is a node of the collection hierarchy. Resources are leaf
// collections backed by a readable document.
type Collection struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Parent     string `json:"parent,omitempty"`
	Resource   bool   `json:"resource"`
	NbChildren int    `json:"nb_children"`
}

// YearRange is an inclusive span of years. Ranges where Start == Stop
// denote a single year.
type YearRange struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Overlaps reports whether the two ranges share at least one year.
// Every range overlaps itself.
func (r YearRange) Overlaps(other YearRange) bool {
	return r.Start <= other.Stop && other.Start <= r.Stop
}

// Contains reports whether the year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return r.Start <= year && year <= r.Stop
}

func (r YearRange) String() string {
	if r.Start == r.Stop {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.Stop)
}

// Manuscript is the catalog record of one digitized manuscript.
type Manuscript struct {
	Identifier string     `json:"identifier"`
	Title      string     `json:"title"`
	Language   string     `json:"language,omitempty"`
	Location   string     `json:"location,omitempty"`
	Dates      *YearRange `json:"dates,omitempty"`
	Ark        string     `json:"ark,omitempty"`
	Manifest   string     `json:"manifest,omitempty"`
	Tokens     int        `json:"tokens,omitempty"`
}
