package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/cllg-project/TexTile-Backend/internal/citation"
	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/internal/navigation"
	"github.com/cllg-project/TexTile-Backend/internal/render"
)

// NavigateDown lists the units below a reference, depth levels deep.
func (e *Engine) NavigateDown(documentID, tree, ref string, depth int) ([]navigation.Member, error) {
	return e.navigator.Down(documentID, tree, ref, depth)
}

// NavigateUp lists the chain of units enclosing a reference.
func (e *Engine) NavigateUp(documentID, tree, ref string) ([]navigation.Member, error) {
	return e.navigator.Up(documentID, tree, ref)
}

// NavigateBetween lists the minimal span of units covering start through end.
func (e *Engine) NavigateBetween(documentID, tree, start, end string) ([]navigation.Member, error) {
	return e.navigator.Between(documentID, tree, start, end)
}

// RetrievePassage resolves, renders and caches a document fragment. The
// selector is either ref, a start/end pair, or nothing for the whole
// document; giving both forms at once is rejected.
func (e *Engine) RetrievePassage(ctx context.Context, documentID, tree, ref, start, end, mediaType string) ([]byte, string, error) {
	if mediaType == "" {
		mediaType = render.DefaultMediaType
	}
	if ref != "" && (start != "" || end != "") {
		return nil, "", fmt.Errorf("cannot combine ref with start/end: %w", errors.ErrAmbiguousSelector)
	}
	if (start == "") != (end == "") {
		return nil, "", errors.NewInvalidReferenceError(start+end, "start and end must be given together")
	}

	selector := "full"
	switch {
	case ref != "":
		selector = "ref:" + ref
	case start != "":
		selector = "range:" + start + ".." + end
	}
	keyParts := []string{documentID, tree, selector, mediaType}

	if data, found, err := e.cache.Get(keyParts...); err != nil {
		log.Printf("Warning: Failed to read passage cache for %s: %v", documentID, err)
	} else if found {
		return data, mediaType, nil
	}

	var (
		citationTree *citation.Tree
		tops         []int
		err          error
	)
	switch {
	case ref != "":
		var idx int
		citationTree, idx, err = e.resolver.Resolve(documentID, tree, ref)
		tops = []int{idx}
	case start != "":
		citationTree, tops, err = e.resolver.ResolveRange(documentID, tree, start, end)
	default:
		citationTree, err = e.resolver.TreeFor(documentID, tree)
		if err == nil {
			tops = citationTree.Roots()
		}
	}
	if err != nil {
		return nil, "", err
	}

	doc, ok := e.corpus.GetDocument(documentID)
	if !ok {
		return nil, "", errors.NewUnknownDocumentError(documentID)
	}
	treeName := tree
	if treeName == "" {
		treeName = doc.DefaultTree
	}
	snapshot, ok := doc.Trees[treeName]
	if !ok {
		return nil, "", errors.NewUnknownTreeError(documentID, treeName)
	}

	passage := render.Passage{DocumentID: documentID, Tree: treeName}
	appendUnit := func(idx int) {
		passage.Units = append(passage.Units, render.Unit{
			Ref:  citationTree.Nodes[idx].Path.String(),
			Text: snapshot.Units[idx].Text,
		})
	}
	for _, top := range tops {
		appendUnit(top)
		for _, idx := range citationTree.Descendants(top, citation.UnboundedDepth) {
			appendUnit(idx)
		}
	}

	payload, err := e.renderer.Render(mediaType, passage)
	if err != nil {
		return nil, "", err
	}
	if err := e.cache.Put(payload, keyParts...); err != nil {
		log.Printf("Warning: Failed to cache passage for %s: %v", documentID, err)
	}
	return payload, mediaType, nil
}
