// Package testing provides helpers for wiring a fully loaded engine in tests.
package testing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/internal/catalog"
	"github.com/cllg-project/TexTile-Backend/internal/engine"
	"github.com/cllg-project/TexTile-Backend/internal/persistence"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/store"
)

// TestSettings returns a configuration rooted in a temporary directory.
func TestSettings(t *testing.T) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	settings := &config.Settings{
		DataDir:     filepath.Join(dir, "data"),
		CatalogPath: filepath.Join(dir, "catalog.db"),
		CacheDir:    filepath.Join(dir, "cache"),
	}
	settings.ApplyDefaults()
	return settings
}

func unit(parent int, text string, path ...string) model.CitableUnit {
	return model.CitableUnit{Path: model.RefPath(path), Parent: parent, Text: text}
}

// TestCorpus builds a small two-manuscript corpus with nested citation trees.
func TestCorpus(t *testing.T) *store.Corpus {
	t.Helper()
	corpus := store.NewCorpus()

	docs := []*store.StoredDocument{
		{
			Identifier:  "ms-1",
			Title:       "Antiphonarium Lausannense",
			DefaultTree: "default",
			Trees: map[string]model.TreeSnapshot{
				"default": {Name: "default", Units: []model.CitableUnit{
					unit(-1, "", "1"),
					unit(0, "salve regina mater misericordiae", "1", "1"),
					unit(0, "vita dulcedo et spes nostra salve", "1", "2"),
					unit(0, "ad te clamamus exsules filii", "1", "3"),
					unit(-1, "", "2"),
					unit(4, "et iesum benedictum fructum ventris tui", "2", "1"),
				}},
			},
		},
		{
			Identifier:  "ms-2",
			Title:       "Graduale Sedunense",
			DefaultTree: "default",
			Trees: map[string]model.TreeSnapshot{
				"default": {Name: "default", Units: []model.CitableUnit{
					unit(-1, "", "1"),
					unit(0, "regina caeli laetare alleluia", "1", "1"),
					unit(0, "gloria patri et filio", "1", "2"),
				}},
			},
		},
	}
	for _, doc := range docs {
		require.NoError(t, corpus.AddDocument(doc), "failed to add fixture document")
	}
	return corpus
}

// SeedTestCatalog populates the catalog at the configured path with
// collections and manuscript records matching TestCorpus.
func SeedTestCatalog(t *testing.T, settings *config.Settings) {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.New(settings.CatalogPath)
	require.NoError(t, err, "failed to open test catalog")
	defer cat.Close()

	collections := []model.Collection{
		{Identifier: "fribourg", Title: "Fribourg", NbChildren: 1},
		{Identifier: "sion", Title: "Sion", NbChildren: 1},
		{Identifier: "ms-1", Title: "Antiphonarium Lausannense", Parent: "fribourg", Resource: true},
		{Identifier: "ms-2", Title: "Graduale Sedunense", Parent: "sion", Resource: true},
	}
	for _, coll := range collections {
		require.NoError(t, cat.UpsertCollection(ctx, coll))
	}

	manuscripts := []model.Manuscript{
		{
			Identifier: "ms-1",
			Title:      "Antiphonarium Lausannense",
			Language:   "lat",
			Location:   "Fribourg",
			Dates:      &model.YearRange{Start: 1150, Stop: 1200},
			Tokens:     18,
		},
		{
			Identifier: "ms-2",
			Title:      "Graduale Sedunense",
			Language:   "lat",
			Location:   "Sion",
			Dates:      &model.YearRange{Start: 1300, Stop: 1350},
			Tokens:     8,
		},
	}
	for _, ms := range manuscripts {
		require.NoError(t, cat.UpsertManuscript(ctx, ms))
	}
}

// CreateTestEngine persists the fixture corpus, seeds the catalog, and loads
// an engine over both.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	settings := TestSettings(t)

	corpus := TestCorpus(t)
	corpusPath := filepath.Join(settings.DataDir, "corpus.gob")
	require.NoError(t, persistence.SaveGob(corpusPath, corpus), "failed to persist fixture corpus")

	SeedTestCatalog(t, settings)

	eng, err := engine.NewEngine(settings)
	require.NoError(t, err, "failed to build test engine")
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}
