// Package collection resolves the collection hierarchy exposed by the
// catalog, including the virtual root that groups the top-level collections.
package collection

import (
	"context"
	"slices"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/model"
)

// Sort orders accepted for collection members.
const (
	SortDefault    = "default"
	SortTitle      = "title"
	SortNbChildren = "nb_children"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Catalog is the slice of the catalog store the resolver needs.
type Catalog interface {
	GetCollection(ctx context.Context, identifier string) (model.Collection, error)
	Children(ctx context.Context, identifier, sortBy string) ([]model.Collection, error)
	TopLevel(ctx context.Context, titlePrefix, sortBy string) ([]model.Collection, error)
}

// Page is one page of collection members.
type Page struct {
	Members  []model.Collection
	Total    int
	Page     int
	LastPage int
}

// Resolver answers collection lookups and hierarchy walks. The virtual root
// collection is synthesized here and never hits the catalog by identifier.
type Resolver struct {
	catalog  Catalog
	pageSize int
}

// NewResolver creates a resolver paging members pageSize at a time.
func NewResolver(catalog Catalog, pageSize int) *Resolver {
	return &Resolver{catalog: catalog, pageSize: pageSize}
}

// normalizeSort falls back to the default order for unrecognized values,
// mirroring the lenient handling of the search mode parameter.
func normalizeSort(sortBy string) string {
	switch sortBy {
	case SortTitle, SortNbChildren:
		return sortBy
	}
	return SortDefault
}

// Resolve returns the collection for the identifier. The root sentinel
// yields a synthetic collection whose children are the top-level ones.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (model.Collection, error) {
	if identifier == "" || identifier == model.RootCollectionID {
		topLevel, err := r.catalog.TopLevel(ctx, "", SortDefault)
		if err != nil {
			return model.Collection{}, err
		}
		return model.Collection{
			Identifier: model.RootCollectionID,
			Title:      "Collections",
			NbChildren: len(topLevel),
		}, nil
	}
	return r.catalog.GetCollection(ctx, identifier)
}

// Children returns one page of the collection's members. Pages are 1-based;
// sortOrder "desc" reverses the member order.
func (r *Resolver) Children(ctx context.Context, identifier, sortBy, sortOrder string, page int) (Page, error) {
	sortBy = normalizeSort(sortBy)

	var members []model.Collection
	var err error
	if identifier == "" || identifier == model.RootCollectionID {
		members, err = r.catalog.TopLevel(ctx, "", sortBy)
	} else {
		if _, err := r.catalog.GetCollection(ctx, identifier); err != nil {
			return Page{}, err
		}
		members, err = r.catalog.Children(ctx, identifier, sortBy)
	}
	if err != nil {
		return Page{}, err
	}
	if sortOrder == OrderDesc {
		slices.Reverse(members)
	}

	total := len(members)
	lastPage := (total + r.pageSize - 1) / r.pageSize
	if lastPage == 0 {
		lastPage = 1
	}
	if page < 1 || page > lastPage {
		return Page{}, errors.NewValidationError("page", "page out of range")
	}

	start := (page - 1) * r.pageSize
	end := start + r.pageSize
	if end > total {
		end = total
	}
	return Page{
		Members:  members[start:end],
		Total:    total,
		Page:     page,
		LastPage: lastPage,
	}, nil
}

// Parents returns the collection's parent as a single-member list. The
// top-level collections parent onto the virtual root; the root itself has
// no parents.
func (r *Resolver) Parents(ctx context.Context, identifier string) ([]model.Collection, error) {
	if identifier == "" || identifier == model.RootCollectionID {
		return []model.Collection{}, nil
	}

	coll, err := r.catalog.GetCollection(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if coll.Parent == "" {
		root, err := r.Resolve(ctx, model.RootCollectionID)
		if err != nil {
			return nil, err
		}
		return []model.Collection{root}, nil
	}

	parent, err := r.catalog.GetCollection(ctx, coll.Parent)
	if err != nil {
		return nil, err
	}
	return []model.Collection{parent}, nil
}

// List returns the top-level collections whose titles start with the given
// prefix (case handling is up to the catalog). An empty prefix lists all.
func (r *Resolver) List(ctx context.Context, titlePrefix string) ([]model.Collection, error) {
	return r.catalog.TopLevel(ctx, titlePrefix, SortTitle)
}
