// Package engine wires the corpus, catalog and search services together
// behind the services.Backend surface.
package engine

import (
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/internal/cache"
	"github.com/cllg-project/TexTile-Backend/internal/catalog"
	"github.com/cllg-project/TexTile-Backend/internal/citation"
	"github.com/cllg-project/TexTile-Backend/internal/collection"
	"github.com/cllg-project/TexTile-Backend/internal/lexical"
	"github.com/cllg-project/TexTile-Backend/internal/navigation"
	"github.com/cllg-project/TexTile-Backend/internal/persistence"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/internal/ranking"
	"github.com/cllg-project/TexTile-Backend/internal/render"
	"github.com/cllg-project/TexTile-Backend/internal/vector"
	"github.com/cllg-project/TexTile-Backend/store"
)

const corpusFile = "corpus.gob"

// Engine holds the loaded corpus snapshot and the services built over it.
// It implements services.Backend.
type Engine struct {
	settings *config.Settings

	corpus  *store.Corpus
	catalog *catalog.Store

	lexical     *lexical.Service
	vector      *vector.Store
	ranker      *ranking.Ranker
	resolver    *citation.Resolver
	navigator   *navigation.Engine
	collections *collection.Resolver
	compiler    *query.Compiler
	renderer    *render.Registry
	cache       *cache.Disk
}

// NewEngine loads the corpus snapshot from the data directory and builds
// the search indexes and catalog connection. A missing snapshot starts an
// empty corpus; searches return no hits until one is materialized.
func NewEngine(settings *config.Settings) (*Engine, error) {
	corpus := store.NewCorpus()
	corpusPath := filepath.Join(settings.DataDir, corpusFile)
	if err := persistence.LoadGob(corpusPath, corpus); err != nil {
		if !stderrors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load corpus from %s: %w", corpusPath, err)
		}
		log.Printf("Warning: No corpus snapshot at %s. Starting with an empty corpus.", corpusPath)
	} else {
		log.Printf("Loaded corpus snapshot: %d documents", len(corpus.DocumentIDs()))
	}

	eng := &Engine{
		settings: settings,
		corpus:   corpus,
		compiler: query.NewCompiler(settings.Search.DefaultPageSize, settings.Search.MaxPageSize),
		renderer: render.NewRegistry(),
		cache:    cache.NewDisk(settings.CacheDir),
	}

	// The lexical index, vector store and catalog handle are independent;
	// build them in parallel since index construction dominates startup.
	var g errgroup.Group
	g.Go(func() error {
		eng.lexical = lexical.NewService(corpus, settings.Search)
		return nil
	})
	g.Go(func() error {
		vecStore, err := vector.NewStore(corpus)
		if err != nil {
			return fmt.Errorf("failed to build vector store: %w", err)
		}
		eng.vector = vecStore
		return nil
	})
	g.Go(func() error {
		cat, err := catalog.New(settings.CatalogPath)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		eng.catalog = cat
		return nil
	})
	if err := g.Wait(); err != nil {
		if eng.catalog != nil {
			eng.catalog.Close()
		}
		return nil, err
	}

	resolver := citation.NewResolver(settings.MaxTreeDepth)
	for _, documentID := range corpus.DocumentIDs() {
		doc, _ := corpus.GetDocument(documentID)
		if err := resolver.AddDocument(documentID, doc.DefaultTree, doc.Trees); err != nil {
			return nil, fmt.Errorf("failed to build citation trees for '%s': %w", documentID, err)
		}
	}
	eng.resolver = resolver
	eng.navigator = navigation.NewEngine(resolver, settings.NavigationCap)
	eng.collections = collection.NewResolver(eng.catalog, settings.CollectionPageSize)
	eng.ranker = ranking.NewRanker(eng.lexical, eng.vector, settings.Hybrid)

	log.Printf("Engine ready: %d documents, %d indexed terms", len(corpus.DocumentIDs()), eng.lexical.TermCount())
	return eng, nil
}

// Close releases the catalog handle.
func (e *Engine) Close() error {
	return e.catalog.Close()
}
