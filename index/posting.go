package index

// PostingEntry records one citable unit containing a term, the field the
// term appeared in, and its frequency there.
type PostingEntry struct {
	UnitID     uint32  // internal numeric ID of the citable unit
	FieldName  string  // "text" for unit transcriptions, "title" for document titles
	Score      float64 // term frequency within this field for this unit
	IsFullWord bool    // false when the token is a generated prefix n-gram
	Positions  []int   // token positions within the field
}

// PostingList is a slice of PostingEntry, kept sorted by Score descending
// (ties broken by UnitID ascending) so the best units for a term come first.
type PostingList []PostingEntry
