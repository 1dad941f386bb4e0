package lexical

import (
	"context"
	"testing"

	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/store"
)

func testSettings() config.SearchSettings {
	return config.SearchSettings{
		DefaultPageSize:      25,
		MaxPageSize:          100,
		FragmentSize:         160,
		MinWordSizeFor1Typo:  4,
		MinWordSizeFor2Typos: 7,
	}
}

func testCorpus(t *testing.T) *store.Corpus {
	t.Helper()
	corpus := store.NewCorpus()

	docs := []*store.StoredDocument{
		{
			Identifier:  "ms-1",
			Title:       "Antiphonarium Lausannense",
			DefaultTree: "folios",
			Trees: map[string]model.TreeSnapshot{
				"folios": {
					Name: "folios",
					Units: []model.CitableUnit{
						{Path: model.RefPath{"1"}, Parent: -1, Text: "salve regina mater misericordiae"},
						{Path: model.RefPath{"2"}, Parent: -1, Text: "vita dulcedo et spes nostra salve"},
						{Path: model.RefPath{"3"}, Parent: -1, Text: "ad te clamamus exsules filii"},
					},
				},
			},
		},
		{
			Identifier:  "ms-2",
			Title:       "Graduale Sedunense",
			DefaultTree: "folios",
			Trees: map[string]model.TreeSnapshot{
				"folios": {
					Name: "folios",
					Units: []model.CitableUnit{
						{Path: model.RefPath{"1"}, Parent: -1, Text: "regina caeli laetare alleluia"},
						{Path: model.RefPath{"2"}, Parent: -1, Text: "gloria patri et filio"},
					},
				},
			},
		},
	}
	for _, doc := range docs {
		if err := corpus.AddDocument(doc); err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
	}
	return corpus
}

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(testCorpus(t), testSettings())
}

func compile(t *testing.T, p query.Params) query.Descriptor {
	t.Helper()
	desc, err := query.NewCompiler(25, 100).Compile(p)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return desc
}

func TestSearchExact(t *testing.T) {
	service := testService(t)

	t.Run("phrase requires every term", func(t *testing.T) {
		result, err := service.Search(context.Background(), compile(t, query.Params{Query: "salve regina"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 1 {
			t.Fatalf("expected 1 hit, got %d", result.Total)
		}
		hit := result.Hits[0]
		if hit.DocumentID != "ms-1" || hit.Ref != "1" {
			t.Errorf("hit = %s %s", hit.DocumentID, hit.Ref)
		}
		if hit.Metadata.Title != "Antiphonarium Lausannense" {
			t.Errorf("title = %q", hit.Metadata.Title)
		}
	})

	t.Run("single term ranks all matching units", func(t *testing.T) {
		result, err := service.Search(context.Background(), compile(t, query.Params{Query: "salve"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 2 {
			t.Errorf("expected 2 hits, got %d", result.Total)
		}
		for _, hit := range result.Hits {
			if hit.DocumentID != "ms-1" {
				t.Errorf("unexpected document %s", hit.DocumentID)
			}
		}
	})

	t.Run("empty query yields empty set", func(t *testing.T) {
		result, err := service.Search(context.Background(), compile(t, query.Params{Query: "   "}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 || len(result.Hits) != 0 {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("no prefix matching in exact mode", func(t *testing.T) {
		result, err := service.Search(context.Background(), compile(t, query.Params{Query: "reg"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 {
			t.Errorf("expected no hits for prefix in exact mode, got %d", result.Total)
		}
	})
}

func TestSearchFuzzy(t *testing.T) {
	service := testService(t)

	t.Run("one edit away matches", func(t *testing.T) {
		result, err := service.Search(context.Background(), compile(t, query.Params{Query: "regena", Mode: "fuzzy"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 2 {
			t.Fatalf("expected hits in both manuscripts, got %d", result.Total)
		}
	})

	t.Run("exact hits outrank fuzzy hits", func(t *testing.T) {
		// "salve" exact in two units of ms-1; "salvi" fuzzy should score lower
		// than the same unit's exact score would.
		exact, err := service.Search(context.Background(), compile(t, query.Params{Query: "salve", Mode: "fuzzy"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fuzzy, err := service.Search(context.Background(), compile(t, query.Params{Query: "salvi", Mode: "fuzzy"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(exact.Hits) == 0 || len(fuzzy.Hits) == 0 {
			t.Fatalf("expected hits from both searches: %d, %d", len(exact.Hits), len(fuzzy.Hits))
		}
		if fuzzy.Hits[0].Score >= exact.Hits[0].Score {
			t.Errorf("fuzzy score %f should be below exact score %f", fuzzy.Hits[0].Score, exact.Hits[0].Score)
		}
	})

	t.Run("short tokens get no typo tolerance", func(t *testing.T) {
		result, err := service.Search(context.Background(), compile(t, query.Params{Query: "vit", Mode: "fuzzy"}), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 {
			t.Errorf("expected no fuzzy hits for 3-rune token, got %d", result.Total)
		}
	})
}

func TestSearchPartial(t *testing.T) {
	service := testService(t)

	result, err := service.Search(context.Background(), compile(t, query.Params{Query: "reg", Mode: "partial"}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected prefix hits in both manuscripts, got %d", result.Total)
	}
	// The highlight should cover the whole word starting with the prefix.
	found := false
	for _, hit := range result.Hits {
		for _, span := range hit.Highlights {
			if span.Text == "regina" {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected a highlight covering the full word 'regina'")
	}
}

func TestSearchFilters(t *testing.T) {
	service := testService(t)

	t.Run("resource filter", func(t *testing.T) {
		desc := compile(t, query.Params{Query: "regina", Resource: "ms-2"})
		result, err := service.Search(context.Background(), desc, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 1 || result.Hits[0].DocumentID != "ms-2" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("allowed documents restriction", func(t *testing.T) {
		desc := compile(t, query.Params{Query: "regina"})
		result, err := service.Search(context.Background(), desc, map[string]bool{"ms-1": true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 1 || result.Hits[0].DocumentID != "ms-1" {
			t.Errorf("result = %+v", result)
		}
	})
}

func TestSearchPagination(t *testing.T) {
	service := testService(t)

	desc := compile(t, query.Params{Query: "salve", PageSize: 1})
	page1, err := service.Search(context.Background(), desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page1.Total != 2 || len(page1.Hits) != 1 {
		t.Fatalf("page1 = total %d, hits %d", page1.Total, len(page1.Hits))
	}

	desc.Page = 2
	page2, err := service.Search(context.Background(), desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page2.Hits) != 1 || page2.Hits[0].Ref == page1.Hits[0].Ref {
		t.Errorf("pages overlap: %+v vs %+v", page1.Hits, page2.Hits)
	}

	desc.Page = 3
	page3, err := service.Search(context.Background(), desc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page3.Hits) != 0 {
		t.Errorf("expected empty page past the end, got %d hits", len(page3.Hits))
	}
}

func TestSearchHighlights(t *testing.T) {
	service := testService(t)

	result, err := service.Search(context.Background(), compile(t, query.Params{Query: "salve regina"}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(result.Hits))
	}

	hit := result.Hits[0]
	if len(hit.Highlights) != 2 {
		t.Fatalf("expected 2 highlight spans, got %d", len(hit.Highlights))
	}
	prevEnd := 0
	for _, span := range hit.Highlights {
		if span.Start < prevEnd {
			t.Errorf("spans overlap or are out of order: %+v", hit.Highlights)
		}
		if hit.Snippet[span.Start:span.End] != span.Text {
			t.Errorf("span text %q does not match snippet slice %q", span.Text, hit.Snippet[span.Start:span.End])
		}
		prevEnd = span.End
	}
}

func TestSearchCancelledContext(t *testing.T) {
	service := testService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Search(ctx, compile(t, query.Params{Query: "salve regina"}), nil)
	if err == nil {
		t.Error("expected context error")
	}
}
