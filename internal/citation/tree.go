package citation

import (
	"fmt"
	"sync"

	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/model"
)

// Node is one citable unit inside a built tree. Parent and Children hold
// arena indexes; Order is the node's position in document order.
type Node struct {
	Path     model.RefPath
	Parent   int
	Children []int
	Depth    int
	Order    int
}

// Tree is the resolved, addressable form of a citation tree: an arena of
// nodes in document order with a reference lookup table.
type Tree struct {
	Name  string
	Nodes []Node
	byRef map[string]int
	roots []int
}

// numericLast reports whether the path's final label is numeric. Only
// numeric siblings carry an intrinsic order; prologue-style labels keep the
// snapshot's own order.
func numericLast(p model.RefPath) bool {
	_, ok := atoiLabel(p[len(p)-1])
	return ok
}

// BuildTree turns a tree snapshot into an addressable arena. It validates
// parent links, rejects duplicate references, requires each unit's path to
// extend its parent's by one level, keeps numeric siblings in structural
// order, and enforces maxDepth (0 disables the check).
func BuildTree(snapshot model.TreeSnapshot, maxDepth int) (*Tree, error) {
	tree := &Tree{
		Name:  snapshot.Name,
		Nodes: make([]Node, 0, len(snapshot.Units)),
		byRef: make(map[string]int, len(snapshot.Units)),
	}

	for i, unit := range snapshot.Units {
		if len(unit.Path) == 0 {
			return nil, fmt.Errorf("tree '%s': unit %d has an empty path", snapshot.Name, i)
		}
		if unit.Parent >= i {
			return nil, fmt.Errorf("tree '%s': unit %d references parent %d out of document order", snapshot.Name, i, unit.Parent)
		}

		ref := unit.Path.String()
		if _, dup := tree.byRef[ref]; dup {
			return nil, fmt.Errorf("tree '%s': duplicate reference '%s'", snapshot.Name, ref)
		}

		depth := 1
		parent := unit.Parent
		if parent >= 0 {
			parentPath := tree.Nodes[parent].Path
			if !parentPath.IsAncestorOf(unit.Path) || unit.Path.Depth() != parentPath.Depth()+1 {
				return nil, fmt.Errorf("tree '%s': reference '%s' does not extend its parent '%s'", snapshot.Name, ref, parentPath)
			}
			depth = tree.Nodes[parent].Depth + 1
		}
		if maxDepth > 0 && depth > maxDepth {
			return nil, fmt.Errorf("tree '%s': reference '%s' exceeds max depth %d", snapshot.Name, ref, maxDepth)
		}

		siblings := tree.roots
		if parent >= 0 {
			siblings = tree.Nodes[parent].Children
		}
		if n := len(siblings); n > 0 {
			prev := tree.Nodes[siblings[n-1]].Path
			if numericLast(prev) && numericLast(unit.Path) && ComparePaths(prev, unit.Path) >= 0 {
				return nil, fmt.Errorf("tree '%s': reference '%s' out of document order after '%s'", snapshot.Name, ref, prev)
			}
		}

		tree.Nodes = append(tree.Nodes, Node{
			Path:   unit.Path,
			Parent: parent,
			Depth:  depth,
			Order:  i,
		})
		tree.byRef[ref] = i

		if parent >= 0 {
			tree.Nodes[parent].Children = append(tree.Nodes[parent].Children, i)
		} else {
			tree.roots = append(tree.roots, i)
		}
	}
	return tree, nil
}

// Len returns the number of citable units in the tree.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// Roots returns the arena indexes of the top-level units in document order.
func (t *Tree) Roots() []int {
	return t.roots
}

// Lookup finds the arena index for an already-parsed reference path.
func (t *Tree) Lookup(path model.RefPath) (int, bool) {
	idx, ok := t.byRef[path.String()]
	return idx, ok
}

// Ancestors returns the chain of enclosing units, outermost first. The node
// itself is not included.
func (t *Tree) Ancestors(idx int) []int {
	chain := make([]int, 0, t.Nodes[idx].Depth-1)
	for parent := t.Nodes[idx].Parent; parent >= 0; parent = t.Nodes[parent].Parent {
		chain = append(chain, parent)
	}
	// reverse to outermost-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// UnboundedDepth asks Descendants for the whole subtree below a unit.
const UnboundedDepth = -1

// Descendants returns the units below idx in document order, limited to
// maxLevels levels beneath it. Zero means direct children only;
// UnboundedDepth removes the limit.
func (t *Tree) Descendants(idx, maxLevels int) []int {
	if maxLevels == 0 {
		maxLevels = 1
	}
	base := t.Nodes[idx].Depth
	result := make([]int, 0)

	var walk func(int)
	walk = func(current int) {
		for _, child := range t.Nodes[current].Children {
			if maxLevels > 0 && t.Nodes[child].Depth-base > maxLevels {
				continue
			}
			result = append(result, child)
			walk(child)
		}
	}
	walk(idx)
	return result
}

// Range returns the minimal sequence of units spanning start through end in
// document order: every unit in the window whose ancestors are all outside
// it. Descendants of an included unit are folded into it.
func (t *Tree) Range(start, end int) ([]int, error) {
	startOrder := t.Nodes[start].Order
	endOrder := t.Nodes[end].Order
	if startOrder > endOrder {
		return nil, errors.NewInvalidReferenceError(
			fmt.Sprintf("%s-%s", t.Nodes[start].Path, t.Nodes[end].Path),
			"range start comes after its end",
		)
	}

	// Arena indexes follow document order, so the window is a plain slice
	// of indexes. A node whose parent also sits inside the window is folded
	// into that enclosing unit.
	result := make([]int, 0, endOrder-startOrder+1)
	for idx := startOrder; idx <= endOrder; idx++ {
		parent := t.Nodes[idx].Parent
		if parent >= startOrder && parent <= endOrder {
			continue
		}
		result = append(result, idx)
	}
	return result, nil
}

// documentTrees holds every citation tree of one document.
type documentTrees struct {
	defaultTree string
	trees       map[string]*Tree
}

// Resolver resolves references against the citation trees of all known
// documents. Safe for concurrent use once populated.
type Resolver struct {
	mu       sync.RWMutex
	docs     map[string]*documentTrees
	maxDepth int
}

// NewResolver creates a resolver enforcing maxDepth levels per tree
// (0 disables the check).
func NewResolver(maxDepth int) *Resolver {
	return &Resolver{
		docs:     make(map[string]*documentTrees),
		maxDepth: maxDepth,
	}
}

// AddDocument builds and registers the trees of one document.
func (r *Resolver) AddDocument(documentID, defaultTree string, snapshots map[string]model.TreeSnapshot) error {
	if _, ok := snapshots[defaultTree]; !ok {
		return fmt.Errorf("document '%s' has no tree named '%s'", documentID, defaultTree)
	}

	built := make(map[string]*Tree, len(snapshots))
	for name, snapshot := range snapshots {
		tree, err := BuildTree(snapshot, r.maxDepth)
		if err != nil {
			return fmt.Errorf("document '%s': %w", documentID, err)
		}
		built[name] = tree
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[documentID] = &documentTrees{defaultTree: defaultTree, trees: built}
	return nil
}

// TreeFor returns the named citation tree of a document. An empty tree name
// selects the document's default tree.
func (r *Resolver) TreeFor(documentID, treeName string) (*Tree, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[documentID]
	if !ok {
		return nil, errors.NewUnknownDocumentError(documentID)
	}
	if treeName == "" {
		treeName = doc.defaultTree
	}
	tree, ok := doc.trees[treeName]
	if !ok {
		return nil, errors.NewUnknownTreeError(documentID, treeName)
	}
	return tree, nil
}

// Resolve parses ref and locates it in the named tree of the document.
func (r *Resolver) Resolve(documentID, treeName, ref string) (*Tree, int, error) {
	tree, err := r.TreeFor(documentID, treeName)
	if err != nil {
		return nil, 0, err
	}

	path, err := ParseRef(ref)
	if err != nil {
		return nil, 0, err
	}

	idx, ok := tree.Lookup(path)
	if !ok {
		return nil, 0, errors.NewUnknownReferenceError(documentID, tree.Name, path.String())
	}
	return tree, idx, nil
}

// ResolveRange parses and locates both endpoints, then expands the span
// between them.
func (r *Resolver) ResolveRange(documentID, treeName, startRef, endRef string) (*Tree, []int, error) {
	tree, start, err := r.Resolve(documentID, treeName, startRef)
	if err != nil {
		return nil, nil, err
	}
	_, end, err := r.Resolve(documentID, treeName, endRef)
	if err != nil {
		return nil, nil, err
	}
	span, err := tree.Range(start, end)
	if err != nil {
		return nil, nil, err
	}
	return tree, span, nil
}
