// Package ranking merges lexical and vector search results into a single
// hybrid ranking with per-source normalization and weighted scoring.
package ranking

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/internal/errors"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/model"
)

// LexicalSearcher is the lexical backend of the hybrid ranker.
type LexicalSearcher interface {
	Search(ctx context.Context, desc query.Descriptor, allowedDocs map[string]bool) (model.ResultSet, error)
}

// VectorSearcher is the semantic backend of the hybrid ranker.
type VectorSearcher interface {
	Search(ctx context.Context, queryText string, limit int, allowedDocs map[string]bool) (model.ResultSet, error)
}

// Ranker fans a query out to both backends, normalizes each result set, and
// merges them by weighted sum. One failing backend degrades the result to a
// partial single-source ranking; both failing is an IndexUnavailable error.
type Ranker struct {
	lexical LexicalSearcher
	vector  VectorSearcher
	cfg     config.HybridSettings
}

// NewRanker creates a hybrid ranker with the given weights and timeouts.
func NewRanker(lexical LexicalSearcher, vector VectorSearcher, cfg config.HybridSettings) *Ranker {
	return &Ranker{lexical: lexical, vector: vector, cfg: cfg}
}

type sourceResult struct {
	set model.ResultSet
	err error
}

// mergedHit accumulates normalized per-source scores for one unit.
type mergedHit struct {
	key      string
	hit      model.SearchHit
	lexical  float64
	vector   float64
	combined float64
}

// Rank runs the hybrid query. Each backend is asked for a superset of the
// requested page (margin times larger) so the merged page does not lose
// units that only one source ranked highly.
func (r *Ranker) Rank(ctx context.Context, desc query.Descriptor, allowedDocs map[string]bool) (model.ResultSet, error) {
	result := model.ResultSet{Kind: model.ResultSetMerged, Hits: []model.SearchHit{}}
	if desc.Query == "" {
		return result, nil
	}

	supersetSize := desc.Page * desc.PageSize * r.cfg.PaginationMargin
	timeout := time.Duration(r.cfg.SubQueryTimeout) * time.Millisecond

	lexCh := make(chan sourceResult, 1)
	vecCh := make(chan sourceResult, 1)

	go func() {
		subCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		lexDesc := desc
		lexDesc.Page = 1
		lexDesc.PageSize = supersetSize
		set, err := r.lexical.Search(subCtx, lexDesc, allowedDocs)
		lexCh <- sourceResult{set: set, err: err}
	}()

	go func() {
		subCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		set, err := r.vector.Search(subCtx, desc.Query, supersetSize, allowedDocs)
		vecCh <- sourceResult{set: set, err: err}
	}()

	lexRes := <-lexCh
	vecRes := <-vecCh

	if lexRes.err != nil && vecRes.err != nil {
		log.Printf("Warning: both search backends failed: lexical: %v; vector: %v\n", lexRes.err, vecRes.err)
		return model.ResultSet{}, errors.ErrIndexUnavailable
	}
	if lexRes.err != nil {
		log.Printf("Warning: lexical backend failed, degrading to vector-only results: %v\n", lexRes.err)
	}
	if vecRes.err != nil {
		log.Printf("Warning: vector backend failed, degrading to lexical-only results: %v\n", vecRes.err)
	}

	merged := make(map[string]*mergedHit)
	if lexRes.err == nil {
		for i, norm := range normalize(lexRes.set.Hits) {
			hit := lexRes.set.Hits[i]
			key := hitKey(hit)
			merged[key] = &mergedHit{key: key, hit: hit, lexical: norm}
		}
	}
	if vecRes.err == nil {
		for i, norm := range normalize(vecRes.set.Hits) {
			hit := vecRes.set.Hits[i]
			key := hitKey(hit)
			if existing, ok := merged[key]; ok {
				existing.vector = norm
				continue
			}
			merged[key] = &mergedHit{key: key, hit: hit, vector: norm}
		}
	}

	partial := lexRes.err != nil || vecRes.err != nil
	for _, m := range merged {
		switch {
		case partial && lexRes.err != nil:
			m.combined = m.vector
		case partial && vecRes.err != nil:
			m.combined = m.lexical
		default:
			m.combined = r.cfg.LexicalWeight*m.lexical + r.cfg.VectorWeight*m.vector
		}
	}

	ordered := make([]*mergedHit, 0, len(merged))
	for _, m := range merged {
		ordered = append(ordered, m)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].combined != ordered[j].combined {
			return ordered[i].combined > ordered[j].combined
		}
		if ordered[i].lexical != ordered[j].lexical {
			return ordered[i].lexical > ordered[j].lexical
		}
		return ordered[i].key < ordered[j].key
	})

	result.Total = len(ordered)
	result.Partial = partial

	startIndex := (desc.Page - 1) * desc.PageSize
	endIndex := startIndex + desc.PageSize
	if startIndex >= len(ordered) {
		return result, nil
	}
	if endIndex > len(ordered) {
		endIndex = len(ordered)
	}

	for _, m := range ordered[startIndex:endIndex] {
		hit := m.hit
		hit.Score = m.combined
		hit.LexicalScore = m.lexical
		hit.VectorScore = m.vector
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// hitKey identifies a unit across both result sets.
func hitKey(hit model.SearchHit) string {
	return hit.DocumentID + "/" + hit.Ref
}

// normalize min-max scales the scores of one result set into [0, 1]. A set
// whose scores are all equal normalizes to 1.
func normalize(hits []model.SearchHit) []float64 {
	norms := make([]float64, len(hits))
	if len(hits) == 0 {
		return norms
	}

	minScore, maxScore := hits[0].Score, hits[0].Score
	for _, hit := range hits[1:] {
		if hit.Score < minScore {
			minScore = hit.Score
		}
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}

	if maxScore == minScore {
		for i := range norms {
			norms[i] = 1.0
		}
		return norms
	}
	for i, hit := range hits {
		norms[i] = (hit.Score - minScore) / (maxScore - minScore)
	}
	return norms
}
