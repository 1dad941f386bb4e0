package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cllg-project/TexTile-Backend/internal/catalog"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/services"
)

func (e *Engine) compile(req services.SearchRequest) (query.Descriptor, error) {
	return e.compiler.Compile(query.Params{
		Query:     req.Query,
		Mode:      req.Mode,
		Resource:  req.Resource,
		Language:  req.Language,
		Location:  req.Location,
		DateRange: req.DateRange,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
}

// allowedDocuments resolves the catalog filters of a query into the set of
// document identifiers the search may return. A nil set means unrestricted.
func (e *Engine) allowedDocuments(ctx context.Context, desc query.Descriptor) (map[string]bool, error) {
	var allowed map[string]bool
	if desc.Language != "" || desc.Location != "" || desc.Dates != nil {
		ids, err := e.catalog.MatchingIdentifiers(ctx, catalog.Filter{
			Language: desc.Language,
			Location: desc.Location,
			Dates:    desc.Dates,
		})
		if err != nil {
			return nil, err
		}
		allowed = ids
	}
	if desc.Resource != "" {
		if allowed != nil && !allowed[desc.Resource] {
			return map[string]bool{}, nil
		}
		return map[string]bool{desc.Resource: true}, nil
	}
	return allowed, nil
}

func searchResponse(set model.ResultSet, desc query.Descriptor, started time.Time) services.SearchResponse {
	return services.SearchResponse{
		Hits:     set.Hits,
		Total:    set.Total,
		Page:     desc.Page,
		PageSize: desc.PageSize,
		Partial:  set.Partial,
		Took:     time.Since(started).Milliseconds(),
		QueryID:  uuid.New().String(),
	}
}

// Search runs a lexical-only query.
func (e *Engine) Search(ctx context.Context, req services.SearchRequest) (services.SearchResponse, error) {
	started := time.Now()
	desc, err := e.compile(req)
	if err != nil {
		return services.SearchResponse{}, err
	}
	allowed, err := e.allowedDocuments(ctx, desc)
	if err != nil {
		return services.SearchResponse{}, err
	}
	set, err := e.lexical.Search(ctx, desc, allowed)
	if err != nil {
		return services.SearchResponse{}, err
	}
	return searchResponse(set, desc, started), nil
}

// HybridSearch merges lexical and vector rankings.
func (e *Engine) HybridSearch(ctx context.Context, req services.SearchRequest) (services.SearchResponse, error) {
	started := time.Now()
	desc, err := e.compile(req)
	if err != nil {
		return services.SearchResponse{}, err
	}
	allowed, err := e.allowedDocuments(ctx, desc)
	if err != nil {
		return services.SearchResponse{}, err
	}
	set, err := e.ranker.Rank(ctx, desc, allowed)
	if err != nil {
		return services.SearchResponse{}, err
	}
	return searchResponse(set, desc, started), nil
}
