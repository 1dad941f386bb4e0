// Package store holds the in-memory corpus: every readable document with
// its citation trees, plus the internal unit ID table shared with the
// search indexes.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"
	"sync"

	"github.com/cllg-project/TexTile-Backend/model"
)

// StoredDocument is one readable document with all of its citation trees.
type StoredDocument struct {
	Identifier  string
	Title       string
	DefaultTree string
	Trees       map[string]model.TreeSnapshot
}

// UnitLocator points an internal unit ID back at its place in the corpus.
type UnitLocator struct {
	DocumentID string
	Tree       string
	Ref        string
	UnitIndex  int // index into the tree snapshot's Units slice
}

// Corpus maps document identifiers to stored documents and assigns stable
// internal uint32 IDs to the citable units of each document's default tree.
// Those IDs are what the inverted index and the vector store key on.
type Corpus struct {
	Mu         sync.RWMutex
	Docs       map[string]*StoredDocument
	Locators   map[uint32]UnitLocator
	NextUnitID uint32
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		Docs:     make(map[string]*StoredDocument),
		Locators: make(map[uint32]UnitLocator),
	}
}

// AddDocument stores a document and registers internal IDs for the units of
// its default tree. Replacing an existing document is not supported; the
// corpus is rebuilt from scratch when the underlying editions change.
func (c *Corpus) AddDocument(doc *StoredDocument) error {
	if doc.Identifier == "" {
		return fmt.Errorf("document is missing an identifier")
	}
	if _, ok := doc.Trees[doc.DefaultTree]; !ok {
		return fmt.Errorf("document '%s' has no tree named '%s'", doc.Identifier, doc.DefaultTree)
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	if _, exists := c.Docs[doc.Identifier]; exists {
		return fmt.Errorf("document '%s' already stored", doc.Identifier)
	}

	c.Docs[doc.Identifier] = doc
	defaultTree := doc.Trees[doc.DefaultTree]
	for i, unit := range defaultTree.Units {
		c.Locators[c.NextUnitID] = UnitLocator{
			DocumentID: doc.Identifier,
			Tree:       doc.DefaultTree,
			Ref:        unit.Path.String(),
			UnitIndex:  i,
		}
		c.NextUnitID++
	}
	return nil
}

// GetDocument returns the stored document for the identifier.
func (c *Corpus) GetDocument(identifier string) (*StoredDocument, bool) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	doc, ok := c.Docs[identifier]
	return doc, ok
}

// Locate resolves an internal unit ID to its position in the corpus.
func (c *Corpus) Locate(unitID uint32) (UnitLocator, bool) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	loc, ok := c.Locators[unitID]
	return loc, ok
}

// UnitText returns the stored transcription of a unit by internal ID.
func (c *Corpus) UnitText(unitID uint32) (string, bool) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	loc, ok := c.Locators[unitID]
	if !ok {
		return "", false
	}
	doc, ok := c.Docs[loc.DocumentID]
	if !ok {
		return "", false
	}
	tree, ok := doc.Trees[loc.Tree]
	if !ok || loc.UnitIndex >= len(tree.Units) {
		return "", false
	}
	return tree.Units[loc.UnitIndex].Text, true
}

// DocumentIDs lists the stored document identifiers in sorted order.
func (c *Corpus) DocumentIDs() []string {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	ids := make([]string, 0, len(c.Docs))
	for id := range c.Docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EachDefaultUnit walks every unit of every document's default tree in
// internal ID order, under a read lock.
func (c *Corpus) EachDefaultUnit(fn func(unitID uint32, doc *StoredDocument, unit model.CitableUnit)) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	ids := make([]uint32, 0, len(c.Locators))
	for id := range c.Locators {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		loc := c.Locators[id]
		doc := c.Docs[loc.DocumentID]
		if doc == nil {
			continue
		}
		tree := doc.Trees[loc.Tree]
		if loc.UnitIndex >= len(tree.Units) {
			continue
		}
		fn(id, doc, tree.Units[loc.UnitIndex])
	}
}

// gobCorpusData is a helper struct for Gob encoding/decoding Corpus data.
// It excludes the mutex.
type gobCorpusData struct {
	Docs       map[string]*StoredDocument
	Locators   map[uint32]UnitLocator
	NextUnitID uint32
}

// GobEncode implements the gob.GobEncoder interface for Corpus.
func (c *Corpus) GobEncode() ([]byte, error) {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	dataToEncode := gobCorpusData{
		Docs:       c.Docs,
		Locators:   c.Locators,
		NextUnitID: c.NextUnitID,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode corpus data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for Corpus.
func (c *Corpus) GobDecode(data []byte) error {
	decodedData := gobCorpusData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode corpus data: %w", err)
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.Docs = decodedData.Docs
	c.Locators = decodedData.Locators
	c.NextUnitID = decodedData.NextUnitID

	if c.Docs == nil {
		c.Docs = make(map[string]*StoredDocument)
	}
	if c.Locators == nil {
		c.Locators = make(map[uint32]UnitLocator)
	}
	return nil
}
