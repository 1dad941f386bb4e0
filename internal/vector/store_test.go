package vector

import (
	"context"
	"math"
	"testing"

	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/store"
)

func testCorpus(t *testing.T) *store.Corpus {
	t.Helper()
	corpus := store.NewCorpus()
	doc := &store.StoredDocument{
		Identifier:  "ms-1",
		Title:       "Antiphonarium",
		DefaultTree: "folios",
		Trees: map[string]model.TreeSnapshot{
			"folios": {
				Name: "folios",
				Units: []model.CitableUnit{
					{Path: model.RefPath{"1"}, Parent: -1, Text: "salve regina mater misericordiae"},
					{Path: model.RefPath{"2"}, Parent: -1, Text: "regina caeli laetare"},
					{Path: model.RefPath{"3"}, Parent: -1, Text: "gloria patri et filio"},
				},
			},
		},
	}
	if err := corpus.AddDocument(doc); err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	return corpus
}

func TestEmbedder(t *testing.T) {
	t.Run("requires preparation", func(t *testing.T) {
		if _, err := NewEmbedder().Embed("salve"); err == nil {
			t.Error("expected error from unprepared embedder")
		}
	})

	t.Run("rejects empty corpus", func(t *testing.T) {
		if err := NewEmbedder().Prepare(nil); err == nil {
			t.Error("expected error for empty corpus")
		}
	})

	t.Run("vectors are L2 normalized", func(t *testing.T) {
		embedder := NewEmbedder()
		if err := embedder.Prepare([]string{"salve regina", "gloria patri"}); err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		vec, err := embedder.Embed("salve regina")
		if err != nil {
			t.Fatalf("Embed failed: %v", err)
		}
		norm := 0.0
		for _, v := range vec {
			norm += v * v
		}
		if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
			t.Errorf("norm = %f, want 1", math.Sqrt(norm))
		}
	})

	t.Run("unknown tokens embed to zero vector", func(t *testing.T) {
		embedder := NewEmbedder()
		if err := embedder.Prepare([]string{"salve regina"}); err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
		vec, err := embedder.Embed("benedictus dominus")
		if err != nil {
			t.Fatalf("Embed failed: %v", err)
		}
		for _, v := range vec {
			if v != 0 {
				t.Errorf("expected zero vector, got %v", vec)
				break
			}
		}
	})
}

func TestStoreSearch(t *testing.T) {
	s, err := NewStore(testCorpus(t))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	t.Run("most similar unit ranks first", func(t *testing.T) {
		result, err := s.Search(context.Background(), "salve regina", 10, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Hits) == 0 {
			t.Fatal("expected hits")
		}
		if result.Hits[0].Ref != "1" {
			t.Errorf("top hit = %s, want unit 1", result.Hits[0].Ref)
		}
		if result.Kind != model.ResultSetVector {
			t.Errorf("kind = %s", result.Kind)
		}
	})

	t.Run("unrelated unit is excluded", func(t *testing.T) {
		result, err := s.Search(context.Background(), "salve", 10, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, hit := range result.Hits {
			if hit.Ref == "3" {
				t.Error("unit without any query term should not appear")
			}
		}
	})

	t.Run("limit caps the page but not the total", func(t *testing.T) {
		result, err := s.Search(context.Background(), "regina", 1, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Hits) != 1 || result.Total != 2 {
			t.Errorf("hits = %d, total = %d", len(result.Hits), result.Total)
		}
	})

	t.Run("allowed docs filter", func(t *testing.T) {
		result, err := s.Search(context.Background(), "regina", 10, map[string]bool{"other": true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Hits) != 0 {
			t.Errorf("expected no hits, got %d", len(result.Hits))
		}
	})

	t.Run("empty query yields empty set", func(t *testing.T) {
		result, err := s.Search(context.Background(), "", 10, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 {
			t.Errorf("total = %d", result.Total)
		}
	})
}
