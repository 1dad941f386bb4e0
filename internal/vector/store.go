// Package vector implements the semantic search backend: a TF-IDF embedder
// over the corpus units and a cosine-similarity store.
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cllg-project/TexTile-Backend/internal/tokenizer"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/store"
)

// Embedder is a TF-IDF vectorizer. It builds a vocabulary from the corpus
// units and computes smoothed IDF values.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{vocabulary: make(map[string]int)}
}

// Prepare builds the vocabulary and IDF values from the provided texts.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("empty corpus for TF-IDF prepare")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenizer.Tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("no tokens found in corpus")
	}

	// Stable vocabulary ordering.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF keeps terms present in every unit from zeroing out.
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Dimension returns the dimensionality of the produced vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized TF-IDF vector for the text. Tokens
// outside the vocabulary are ignored.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, fmt.Errorf("tfidf embedder not prepared")
	}

	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokenizer.Tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}

	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// entry is one embedded unit.
type entry struct {
	unitID uint32
	doc    string
	ref    string
	title  string
	vec    []float64
}

// Store answers nearest-neighbor queries over the embedded corpus units.
type Store struct {
	embedder *Embedder
	entries  []entry
}

// NewStore embeds every default-tree unit of the corpus. Units whose text
// is empty are skipped.
func NewStore(corpus *store.Corpus) (*Store, error) {
	texts := make([]string, 0)
	corpus.EachDefaultUnit(func(_ uint32, _ *store.StoredDocument, unit model.CitableUnit) {
		if unit.Text != "" {
			texts = append(texts, unit.Text)
		}
	})

	embedder := NewEmbedder()
	s := &Store{embedder: embedder}
	if len(texts) == 0 {
		return s, nil
	}
	if err := embedder.Prepare(texts); err != nil {
		return nil, err
	}

	var embedErr error
	corpus.EachDefaultUnit(func(unitID uint32, doc *store.StoredDocument, unit model.CitableUnit) {
		if unit.Text == "" || embedErr != nil {
			return
		}
		vec, err := embedder.Embed(unit.Text)
		if err != nil {
			embedErr = err
			return
		}
		s.entries = append(s.entries, entry{
			unitID: unitID,
			doc:    doc.Identifier,
			ref:    unit.Path.String(),
			title:  doc.Title,
			vec:    vec,
		})
	})
	if embedErr != nil {
		return nil, embedErr
	}
	return s, nil
}

// Search embeds the query and returns up to limit hits by cosine
// similarity, descending, with corpus order as tie-break. allowedDocs, when
// non-nil, restricts hits to those document identifiers. Hits with zero
// similarity are dropped.
func (s *Store) Search(ctx context.Context, queryText string, limit int, allowedDocs map[string]bool) (model.ResultSet, error) {
	result := model.ResultSet{Kind: model.ResultSetVector, Hits: []model.SearchHit{}}
	if queryText == "" || len(s.entries) == 0 {
		return result, nil
	}

	queryVec, err := s.embedder.Embed(queryText)
	if err != nil {
		return model.ResultSet{}, err
	}

	type scored struct {
		entry *entry
		sim   float64
	}
	candidates := make([]scored, 0)
	for i := range s.entries {
		if err := ctx.Err(); err != nil {
			return model.ResultSet{}, err
		}
		ent := &s.entries[i]
		if allowedDocs != nil && !allowedDocs[ent.doc] {
			continue
		}
		sim := dot(queryVec, ent.vec)
		if sim <= 0 {
			continue
		}
		candidates = append(candidates, scored{entry: ent, sim: sim})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].sim != candidates[j].sim {
			return candidates[i].sim > candidates[j].sim
		}
		return candidates[i].entry.unitID < candidates[j].entry.unitID
	})

	result.Total = len(candidates)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, c := range candidates {
		result.Hits = append(result.Hits, model.SearchHit{
			DocumentID: c.entry.doc,
			Ref:        c.entry.ref,
			Score:      c.sim,
			Metadata:   model.HitMetadata{Title: c.entry.title},
		})
	}
	return result, nil
}

// dot assumes both vectors are L2-normalized, so the dot product is the
// cosine similarity.
func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
