package model

// HighlightSpan marks a matched fragment inside a snippet. Offsets are
// byte positions into the snippet text; spans are reported in snippet
// order and never overlap.
type HighlightSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// HitMetadata carries the catalog fields surfaced alongside a search hit.
type HitMetadata struct {
	Title    string     `json:"title,omitempty"`
	Language string     `json:"language,omitempty"`
	Location string     `json:"location,omitempty"`
	Dates    *YearRange `json:"dates,omitempty"`
}

// SearchHit is one scored result. DocumentID identifies the manuscript,
// Ref the citable unit the match was found in (empty for whole-document
// hits). For merged results LexicalScore and VectorScore hold the
// normalized per-source contributions.
type SearchHit struct {
	DocumentID   string          `json:"document_id"`
	Ref          string          `json:"ref,omitempty"`
	Score        float64         `json:"score"`
	LexicalScore float64         `json:"lexical_score,omitempty"`
	VectorScore  float64         `json:"vector_score,omitempty"`
	Snippet      string          `json:"snippet,omitempty"`
	Highlights   []HighlightSpan `json:"highlights,omitempty"`
	Metadata     HitMetadata     `json:"metadata"`
}

// ResultSetKind tags the provenance of a result set.
type ResultSetKind string

const (
	ResultSetLexical ResultSetKind = "lexical"
	ResultSetVector  ResultSetKind = "vector"
	ResultSetMerged  ResultSetKind = "merged"
)

// ResultSet is an ordered page of hits. Partial is set when one search
// backend failed or timed out and the set was built from the other alone.
type ResultSet struct {
	Kind    ResultSetKind `json:"kind"`
	Total   int           `json:"total"`
	Hits    []SearchHit   `json:"hits"`
	Partial bool          `json:"partial,omitempty"`
}
