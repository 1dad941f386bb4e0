package engine

import (
	"context"
	"strings"

	"github.com/cllg-project/TexTile-Backend/internal/catalog"
	"github.com/cllg-project/TexTile-Backend/internal/collection"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/services"
)

// GetManuscript fetches one catalog record.
func (e *Engine) GetManuscript(ctx context.Context, identifier string) (model.Manuscript, error) {
	return e.catalog.GetManuscript(ctx, identifier)
}

// ListManuscripts returns one page of catalog records matching the query.
func (e *Engine) ListManuscripts(ctx context.Context, q services.ManuscriptQuery) (services.ManuscriptListing, error) {
	filter := catalog.Filter{
		Query:      strings.TrimSpace(q.Query),
		Language:   strings.TrimSpace(q.Language),
		Location:   strings.TrimSpace(q.Location),
		StartYear:  q.StartYear,
		StopYear:   q.StopYear,
		ExactStart: q.ExactStart,
		ExactStop:  q.ExactStop,
	}
	if expr := strings.TrimSpace(q.DateRange); expr != "" {
		dates, err := query.ParseYearRange(expr)
		if err != nil {
			return services.ManuscriptListing{}, err
		}
		filter.Dates = &dates
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = e.settings.Search.DefaultPageSize
	}
	if pageSize > e.settings.Search.MaxPageSize {
		pageSize = e.settings.Search.MaxPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	manuscripts, err := e.catalog.Search(ctx, filter)
	if err != nil {
		return services.ManuscriptListing{}, err
	}
	return services.ManuscriptListing{
		Manuscripts: manuscripts,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// CountManuscripts returns the catalog size.
func (e *Engine) CountManuscripts(ctx context.Context) (int, error) {
	return e.catalog.Count(ctx)
}

// ResolveCollection fetches one collection, synthesizing the virtual root.
func (e *Engine) ResolveCollection(ctx context.Context, identifier string) (model.Collection, error) {
	return e.collections.Resolve(ctx, identifier)
}

// CollectionChildren pages through a collection's members.
func (e *Engine) CollectionChildren(ctx context.Context, identifier, sortBy, sortOrder string, page int) (collection.Page, error) {
	return e.collections.Children(ctx, identifier, sortBy, sortOrder, page)
}

// CollectionParents returns the parent chain entry for a collection.
func (e *Engine) CollectionParents(ctx context.Context, identifier string) ([]model.Collection, error) {
	return e.collections.Parents(ctx, identifier)
}

// ListCollections lists top-level collections filtered by title prefix.
func (e *Engine) ListCollections(ctx context.Context, titlePrefix string) ([]model.Collection, error) {
	return e.collections.List(ctx, titlePrefix)
}
