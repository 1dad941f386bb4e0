// Package navigation expands citation trees into navigable member lists,
// the backing for the navigation endpoint.
package navigation

import (
	"github.com/cllg-project/TexTile-Backend/internal/citation"
	"github.com/cllg-project/TexTile-Backend/internal/errors"
)

// Member is one entry of a navigation response.
type Member struct {
	Ref         string `json:"ref"`
	Level       int    `json:"level"`
	Parent      string `json:"parent,omitempty"`
	HasChildren bool   `json:"has_children"`
}

// Engine expands citation trees into member lists, capping how many members
// a single expansion may produce.
type Engine struct {
	resolver  *citation.Resolver
	memberCap int
}

// NewEngine wraps a citation resolver. memberCap bounds every expansion;
// it must be positive.
func NewEngine(resolver *citation.Resolver, memberCap int) *Engine {
	return &Engine{resolver: resolver, memberCap: memberCap}
}

func member(tree *citation.Tree, idx int) Member {
	node := tree.Nodes[idx]
	m := Member{
		Ref:         node.Path.String(),
		Level:       node.Depth,
		HasChildren: len(node.Children) > 0,
	}
	if node.Parent >= 0 {
		m.Parent = tree.Nodes[node.Parent].Path.String()
	}
	return m
}

func (e *Engine) members(tree *citation.Tree, idxs []int, origin string) ([]Member, error) {
	if len(idxs) > e.memberCap {
		return nil, errors.NewNavigationTooLargeError(origin, len(idxs), e.memberCap)
	}
	result := make([]Member, len(idxs))
	for i, idx := range idxs {
		result[i] = member(tree, idx)
	}
	return result, nil
}

// Down lists the units beneath ref, at most depth levels deep. Zero depth
// means direct children; a negative depth removes the limit. An empty ref
// starts from the top of the tree: depth 1 then yields the top-level units.
func (e *Engine) Down(documentID, treeName, ref string, depth int) ([]Member, error) {
	if depth == 0 {
		depth = 1
	}
	if ref == "" {
		tree, err := e.resolver.TreeFor(documentID, treeName)
		if err != nil {
			return nil, err
		}
		if depth == 1 {
			return e.members(tree, tree.Roots(), "")
		}
		below := depth - 1
		if depth < 0 {
			below = citation.UnboundedDepth
		}
		idxs := make([]int, 0)
		for _, root := range tree.Roots() {
			idxs = append(idxs, root)
			for _, d := range tree.Descendants(root, below) {
				idxs = append(idxs, d)
			}
		}
		return e.members(tree, idxs, "")
	}

	tree, idx, err := e.resolver.Resolve(documentID, treeName, ref)
	if err != nil {
		return nil, err
	}
	return e.members(tree, tree.Descendants(idx, depth), ref)
}

// Up lists the chain of units enclosing ref, outermost first.
func (e *Engine) Up(documentID, treeName, ref string) ([]Member, error) {
	tree, idx, err := e.resolver.Resolve(documentID, treeName, ref)
	if err != nil {
		return nil, err
	}
	return e.members(tree, tree.Ancestors(idx), ref)
}

// Between lists the minimal member sequence spanning start through end.
func (e *Engine) Between(documentID, treeName, startRef, endRef string) ([]Member, error) {
	tree, span, err := e.resolver.ResolveRange(documentID, treeName, startRef, endRef)
	if err != nil {
		return nil, err
	}
	return e.members(tree, span, startRef+"-"+endRef)
}
