package services

import (
	"context"

	"github.com/cllg-project/TexTile-Backend/internal/collection"
	"github.com/cllg-project/TexTile-Backend/internal/navigation"
	"github.com/cllg-project/TexTile-Backend/model"
)

// SearchRequest carries the raw search parameters from the API layer.
type SearchRequest struct {
	Query     string `json:"query"`
	Mode      string `json:"mode,omitempty"`     // exact, fuzzy or partial
	Page      int    `json:"page,omitempty"`     // 1-based
	PageSize  int    `json:"page_size,omitempty"`
	Language  string `json:"language,omitempty"`
	Location  string `json:"location,omitempty"`
	DateRange string `json:"date_range,omitempty"` // "start-stop" or single year
	Resource  string `json:"resource,omitempty"`   // restrict to one document
}

// SearchResponse is the envelope returned for search endpoints.
type SearchResponse struct {
	Hits     []model.SearchHit `json:"hits"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Partial  bool              `json:"partial,omitempty"` // one ranking source degraded
	Took     int64             `json:"took"`              // milliseconds
	QueryID  string            `json:"query_id"`          // unique UUID for this search query
}

// ManuscriptQuery filters catalog listings.
type ManuscriptQuery struct {
	Query     string `json:"query,omitempty"`
	Language  string `json:"language,omitempty"`
	Location  string `json:"location,omitempty"`
	DateRange string `json:"date_range,omitempty"`

	// StartYear/StopYear bound the dating fields directly; the Exact flags
	// switch the comparison to equality.
	StartYear  *int `json:"start_year,omitempty"`
	StopYear   *int `json:"stop_year,omitempty"`
	ExactStart bool `json:"exact_start,omitempty"`
	ExactStop  bool `json:"exact_stop,omitempty"`

	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

// ManuscriptListing is one page of catalog records.
type ManuscriptListing struct {
	Manuscripts []model.Manuscript `json:"manuscripts"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
}

// Searcher runs full-text queries over the indexed corpus.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	HybridSearch(ctx context.Context, req SearchRequest) (SearchResponse, error)
}

// ManuscriptBrowser reads manuscript records from the catalog.
type ManuscriptBrowser interface {
	GetManuscript(ctx context.Context, identifier string) (model.Manuscript, error)
	ListManuscripts(ctx context.Context, q ManuscriptQuery) (ManuscriptListing, error)
	CountManuscripts(ctx context.Context) (int, error)
}

// CollectionBrowser walks the collection hierarchy.
type CollectionBrowser interface {
	ResolveCollection(ctx context.Context, identifier string) (model.Collection, error)
	CollectionChildren(ctx context.Context, identifier, sortBy, sortOrder string, page int) (collection.Page, error)
	CollectionParents(ctx context.Context, identifier string) ([]model.Collection, error)
	ListCollections(ctx context.Context, titlePrefix string) ([]model.Collection, error)
}

// Navigator answers citation-tree navigation requests.
type Navigator interface {
	NavigateDown(documentID, tree, ref string, depth int) ([]navigation.Member, error)
	NavigateUp(documentID, tree, ref string) ([]navigation.Member, error)
	NavigateBetween(documentID, tree, start, end string) ([]navigation.Member, error)
}

// DocumentReader retrieves rendered passages. It returns the payload and
// the content type it was rendered as.
type DocumentReader interface {
	RetrievePassage(ctx context.Context, documentID, tree, ref, start, end, mediaType string) ([]byte, string, error)
}

// Backend is the full service surface the API layer is wired against.
type Backend interface {
	Searcher
	ManuscriptBrowser
	CollectionBrowser
	Navigator
	DocumentReader
}
