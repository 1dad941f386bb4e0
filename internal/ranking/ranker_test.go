package ranking

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/model"
)

type fakeLexical struct {
	hits  []model.SearchHit
	err   error
	delay time.Duration
}

func (f *fakeLexical) Search(ctx context.Context, desc query.Descriptor, _ map[string]bool) (model.ResultSet, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return model.ResultSet{}, ctx.Err()
		}
	}
	if f.err != nil {
		return model.ResultSet{}, f.err
	}
	return model.ResultSet{Kind: model.ResultSetLexical, Total: len(f.hits), Hits: f.hits}, nil
}

type fakeVector struct {
	hits []model.SearchHit
	err  error
}

func (f *fakeVector) Search(ctx context.Context, queryText string, limit int, _ map[string]bool) (model.ResultSet, error) {
	if f.err != nil {
		return model.ResultSet{}, f.err
	}
	hits := f.hits
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return model.ResultSet{Kind: model.ResultSetVector, Total: len(f.hits), Hits: hits}, nil
}

func hit(doc, ref string, score float64) model.SearchHit {
	return model.SearchHit{DocumentID: doc, Ref: ref, Score: score}
}

func testCfg() config.HybridSettings {
	return config.HybridSettings{
		LexicalWeight:    0.5,
		VectorWeight:     0.5,
		SubQueryTimeout:  200,
		PaginationMargin: 3,
	}
}

func testDesc() query.Descriptor {
	return query.Descriptor{Query: "salve regina", Terms: []string{"salve", "regina"}, Page: 1, PageSize: 10}
}

func TestRankMergesBothSources(t *testing.T) {
	lexical := &fakeLexical{hits: []model.SearchHit{
		hit("ms-1", "1", 4.0),
		hit("ms-1", "2", 2.0),
	}}
	vector := &fakeVector{hits: []model.SearchHit{
		hit("ms-1", "1", 0.9),
		hit("ms-2", "1", 0.3),
	}}
	ranker := NewRanker(lexical, vector, testCfg())

	result, err := ranker.Rank(context.Background(), testDesc(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Kind != model.ResultSetMerged || result.Partial {
		t.Errorf("kind=%s partial=%v", result.Kind, result.Partial)
	}
	if result.Total != 3 {
		t.Fatalf("expected 3 merged hits, got %d", result.Total)
	}

	// ms-1/1 tops both sources: normalized 1.0 in each, combined 1.0.
	top := result.Hits[0]
	if top.DocumentID != "ms-1" || top.Ref != "1" {
		t.Errorf("top hit = %s/%s", top.DocumentID, top.Ref)
	}
	if top.Score != 1.0 || top.LexicalScore != 1.0 || top.VectorScore != 1.0 {
		t.Errorf("scores = %f/%f/%f", top.Score, top.LexicalScore, top.VectorScore)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	lexical := &fakeLexical{hits: []model.SearchHit{
		hit("ms-1", "1", 3.0),
		hit("ms-1", "2", 1.0),
	}}
	vector := &fakeVector{hits: []model.SearchHit{
		hit("ms-2", "1", 0.8),
		hit("ms-2", "2", 0.2),
	}}
	ranker := NewRanker(lexical, vector, testCfg())

	first, err := ranker.Rank(context.Background(), testDesc(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ranker.Rank(context.Background(), testDesc(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again.Hits) != len(first.Hits) {
			t.Fatalf("hit count changed between runs")
		}
		for j := range again.Hits {
			if again.Hits[j].DocumentID != first.Hits[j].DocumentID || again.Hits[j].Ref != first.Hits[j].Ref {
				t.Fatalf("order changed between runs: %+v vs %+v", again.Hits, first.Hits)
			}
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	// Both units end with the same combined score; the one with the higher
	// lexical share must come first.
	lexical := &fakeLexical{hits: []model.SearchHit{
		hit("ms-1", "1", 2.0),
		hit("ms-2", "1", 1.0),
	}}
	vector := &fakeVector{hits: []model.SearchHit{
		hit("ms-2", "1", 0.9),
		hit("ms-1", "1", 0.1),
	}}
	ranker := NewRanker(lexical, vector, testCfg())

	result, err := ranker.Rank(context.Background(), testDesc(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(result.Hits))
	}
	// Combined scores: ms-1/1 = 0.5*1.0 + 0.5*0.0, ms-2/1 = 0.5*0.0 + 0.5*1.0.
	if result.Hits[0].DocumentID != "ms-1" {
		t.Errorf("lexical tie-break should favor ms-1, got %s", result.Hits[0].DocumentID)
	}
}

func TestRankPartialDegradation(t *testing.T) {
	t.Run("vector failure degrades to lexical", func(t *testing.T) {
		lexical := &fakeLexical{hits: []model.SearchHit{hit("ms-1", "1", 4.0), hit("ms-1", "2", 1.0)}}
		vector := &fakeVector{err: fmt.Errorf("embedder offline")}
		ranker := NewRanker(lexical, vector, testCfg())

		result, err := ranker.Rank(context.Background(), testDesc(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Partial {
			t.Error("expected partial result")
		}
		if len(result.Hits) != 2 || result.Hits[0].Ref != "1" {
			t.Errorf("hits = %+v", result.Hits)
		}
		if result.Hits[0].Score != 1.0 {
			t.Errorf("degraded top score = %f, want the lexical normalization", result.Hits[0].Score)
		}
	})

	t.Run("lexical timeout degrades to vector", func(t *testing.T) {
		cfg := testCfg()
		cfg.SubQueryTimeout = 20
		lexical := &fakeLexical{delay: 500 * time.Millisecond, hits: []model.SearchHit{hit("ms-1", "1", 4.0)}}
		vector := &fakeVector{hits: []model.SearchHit{hit("ms-2", "1", 0.7)}}
		ranker := NewRanker(lexical, vector, cfg)

		result, err := ranker.Rank(context.Background(), testDesc(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Partial || len(result.Hits) != 1 || result.Hits[0].DocumentID != "ms-2" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("both failing is IndexUnavailable", func(t *testing.T) {
		lexical := &fakeLexical{err: fmt.Errorf("index gone")}
		vector := &fakeVector{err: fmt.Errorf("embedder offline")}
		ranker := NewRanker(lexical, vector, testCfg())

		_, err := ranker.Rank(context.Background(), testDesc(), nil)
		if !stderrors.Is(err, errors.ErrIndexUnavailable) {
			t.Errorf("expected ErrIndexUnavailable, got %v", err)
		}
	})
}

func TestRankEmptyQuery(t *testing.T) {
	ranker := NewRanker(&fakeLexical{}, &fakeVector{}, testCfg())
	desc := testDesc()
	desc.Query = ""

	result, err := ranker.Rank(context.Background(), desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Hits) != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestRankPagination(t *testing.T) {
	hits := make([]model.SearchHit, 0, 8)
	for i := 0; i < 8; i++ {
		hits = append(hits, hit("ms-1", fmt.Sprintf("%d", i+1), float64(8-i)))
	}
	lexical := &fakeLexical{hits: hits}
	vector := &fakeVector{}
	ranker := NewRanker(lexical, vector, testCfg())

	desc := testDesc()
	desc.PageSize = 3
	page1, err := ranker.Rank(context.Background(), desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1.Hits) != 3 || page1.Total != 8 {
		t.Fatalf("page1 = %d hits, total %d", len(page1.Hits), page1.Total)
	}

	desc.Page = 2
	page2, err := ranker.Rank(context.Background(), desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2.Hits) != 3 {
		t.Fatalf("page2 = %d hits", len(page2.Hits))
	}
	if page2.Hits[0].Ref == page1.Hits[0].Ref {
		t.Error("pages overlap")
	}
}
