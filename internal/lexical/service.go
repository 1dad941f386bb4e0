// Package lexical implements the inverted-index search over citable units:
// exact, fuzzy, and partial matching with BM25 scoring and snippet
// highlighting.
package lexical

import (
	"context"
	"sort"
	"unicode/utf8"

	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/index"
	"github.com/cllg-project/TexTile-Backend/internal/query"
	"github.com/cllg-project/TexTile-Backend/internal/tokenizer"
	"github.com/cllg-project/TexTile-Backend/internal/typoutil"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/store"
)

// Penalties applied to fuzzy matches so exact hits always outrank them.
const (
	oneTypoPenalty  = 0.8
	twoTypoPenalty  = 0.6
	maxFuzzyResults = 500
)

// Service answers lexical queries against an index built from the corpus.
type Service struct {
	corpus        *store.Corpus
	invertedIndex *index.InvertedIndex
	calc          *bm25Calculator
	settings      config.SearchSettings
	indexedTerms  []string // full-word terms, for fuzzy candidate scans
}

// NewService builds the inverted index from the corpus and returns a ready
// search service.
func NewService(corpus *store.Corpus, settings config.SearchSettings) *Service {
	invIndex := index.NewInvertedIndex()
	unitLengths := buildIndex(corpus, invIndex)

	invIndex.Mu.RLock()
	indexedTerms := make([]string, 0, len(invIndex.Index))
	for term, postingList := range invIndex.Index {
		for _, entry := range postingList {
			if entry.IsFullWord {
				indexedTerms = append(indexedTerms, term)
				break
			}
		}
	}
	invIndex.Mu.RUnlock()
	sort.Strings(indexedTerms)

	return &Service{
		corpus:        corpus,
		invertedIndex: invIndex,
		calc:          newBM25Calculator(invIndex, unitLengths),
		settings:      settings,
		indexedTerms:  indexedTerms,
	}
}

// tokenMatch aggregates how one query token matched one unit.
type tokenMatch struct {
	bestScore float64
	terms     map[string]struct{} // index terms that produced the match
}

// Search runs the compiled query against the index. allowedDocs, when
// non-nil, restricts hits to those document identifiers. The returned set
// is ordered by score descending with unit order as tie-break.
func (s *Service) Search(ctx context.Context, desc query.Descriptor, allowedDocs map[string]bool) (model.ResultSet, error) {
	result := model.ResultSet{Kind: model.ResultSetLexical, Hits: []model.SearchHit{}}
	if len(desc.Terms) == 0 {
		return result, nil
	}

	s.invertedIndex.Mu.RLock()
	defer s.invertedIndex.Mu.RUnlock()

	matchesByToken := make([]map[uint32]*tokenMatch, len(desc.Terms))
	for i, token := range desc.Terms {
		if err := ctx.Err(); err != nil {
			return model.ResultSet{}, err
		}
		matchesByToken[i] = s.matchToken(token, desc.Mode)
	}

	// AND semantics: a unit must match every query token.
	intersected := make(map[uint32]bool)
	for unitID := range matchesByToken[0] {
		intersected[unitID] = true
	}
	for i := 1; i < len(matchesByToken); i++ {
		next := make(map[uint32]bool)
		for unitID := range intersected {
			if _, ok := matchesByToken[i][unitID]; ok {
				next[unitID] = true
			}
		}
		intersected = next
		if len(intersected) == 0 {
			break
		}
	}

	type candidateHit struct {
		unitID  uint32
		loc     store.UnitLocator
		score   float64
		matched map[string]struct{}
	}

	candidates := make([]candidateHit, 0, len(intersected))
	for unitID := range intersected {
		loc, ok := s.corpus.Locate(unitID)
		if !ok {
			continue
		}
		if desc.Resource != "" && loc.DocumentID != desc.Resource {
			continue
		}
		if allowedDocs != nil && !allowedDocs[loc.DocumentID] {
			continue
		}

		hit := candidateHit{unitID: unitID, loc: loc, matched: make(map[string]struct{})}
		for i := range desc.Terms {
			match := matchesByToken[i][unitID]
			hit.score += match.bestScore
			for term := range match.terms {
				hit.matched[term] = struct{}{}
			}
		}
		candidates = append(candidates, hit)
	}

	// Deterministic order: score descending, then corpus order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].unitID < candidates[j].unitID
	})

	result.Total = len(candidates)

	startIndex := (desc.Page - 1) * desc.PageSize
	endIndex := startIndex + desc.PageSize
	if startIndex >= len(candidates) {
		return result, nil
	}
	if endIndex > len(candidates) {
		endIndex = len(candidates)
	}

	for _, cand := range candidates[startIndex:endIndex] {
		text, _ := s.corpus.UnitText(cand.unitID)
		snippet, highlights := buildSnippet(text, cand.matched, desc.Mode, s.settings.FragmentSize)

		doc, _ := s.corpus.GetDocument(cand.loc.DocumentID)
		hit := model.SearchHit{
			DocumentID: cand.loc.DocumentID,
			Ref:        cand.loc.Ref,
			Score:      cand.score,
			Snippet:    snippet,
			Highlights: highlights,
		}
		if doc != nil {
			hit.Metadata.Title = doc.Title
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// matchToken collects the units matching one query token under the given
// mode. Caller holds the index read lock.
func (s *Service) matchToken(token string, mode query.Mode) map[uint32]*tokenMatch {
	matches := make(map[uint32]*tokenMatch)

	record := func(unitID uint32, term string, score float64) {
		match, ok := matches[unitID]
		if !ok {
			match = &tokenMatch{terms: make(map[string]struct{})}
			matches[unitID] = match
		}
		if score > match.bestScore {
			match.bestScore = score
		}
		match.terms[term] = struct{}{}
	}

	// Base pass: the token itself. Partial mode accepts prefix n-gram
	// entries, the other modes require full words.
	if postingList, found := s.invertedIndex.Index[token]; found {
		for _, entry := range postingList {
			if !entry.IsFullWord && mode != query.ModePartial {
				continue
			}
			record(entry.UnitID, token, s.calc.score(token, entry.UnitID, entry.Score))
		}
	}

	if mode != query.ModeFuzzy {
		return matches
	}

	// Fuzzy pass: nearby full words, penalized by edit distance, skipping
	// units the token already matched exactly.
	maxDistance := 0
	tokenLen := len([]rune(token))
	if s.settings.MinWordSizeFor2Typos > 0 && tokenLen >= s.settings.MinWordSizeFor2Typos {
		maxDistance = 2
	} else if s.settings.MinWordSizeFor1Typo > 0 && tokenLen >= s.settings.MinWordSizeFor1Typo {
		maxDistance = 1
	}
	if maxDistance == 0 {
		return matches
	}

	found := 0
	for _, nearTerm := range typoutil.FindNear(token, s.indexedTerms, maxDistance) {
		if found >= maxFuzzyResults {
			break
		}
		distance := typoutil.DistanceWithLimit(token, nearTerm, maxDistance)
		penalty := oneTypoPenalty
		if distance >= 2 {
			penalty = twoTypoPenalty
		}

		for _, entry := range s.invertedIndex.Index[nearTerm] {
			if !entry.IsFullWord {
				continue
			}
			if match, ok := matches[entry.UnitID]; ok {
				if _, exact := match.terms[token]; exact {
					continue
				}
			}
			record(entry.UnitID, nearTerm, s.calc.score(nearTerm, entry.UnitID, entry.Score)*penalty)
			found++
		}
	}
	return matches
}

// buildSnippet cuts a fragment of the unit text around the first matched
// token and marks every match inside it. Partial mode highlights tokens
// that merely start with a matched term.
func buildSnippet(text string, matched map[string]struct{}, mode query.Mode, fragmentSize int) (string, []model.HighlightSpan) {
	if text == "" {
		return "", nil
	}

	tokens := tokenizer.TokenizeWithOffsets(text)
	isMatch := func(tok tokenizer.Token) bool {
		if _, ok := matched[tok.Text]; ok {
			return true
		}
		if mode == query.ModePartial {
			for term := range matched {
				if len(term) <= len(tok.Text) && tok.Text[:len(term)] == term {
					return true
				}
			}
		}
		return false
	}

	first := -1
	for i, tok := range tokens {
		if isMatch(tok) {
			first = i
			break
		}
	}

	start, end := 0, len(text)
	if fragmentSize > 0 && len(text) > fragmentSize {
		anchor := 0
		if first >= 0 {
			anchor = tokens[first].Start
		}
		start = anchor - fragmentSize/4
		if start < 0 {
			start = 0
		}
		end = start + fragmentSize
		if end > len(text) {
			end = len(text)
			start = end - fragmentSize
			if start < 0 {
				start = 0
			}
		}
		// Never cut inside a multi-byte rune.
		for start > 0 && !utf8.RuneStart(text[start]) {
			start--
		}
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
	}

	snippet := text[start:end]
	highlights := make([]model.HighlightSpan, 0)
	for _, tok := range tokens {
		if tok.Start < start || tok.End > end {
			continue
		}
		if !isMatch(tok) {
			continue
		}
		highlights = append(highlights, model.HighlightSpan{
			Start: tok.Start - start,
			End:   tok.End - start,
			Text:  snippet[tok.Start-start : tok.End-start],
		})
	}
	return snippet, highlights
}

// TermCount reports how many distinct full words are indexed.
func (s *Service) TermCount() int {
	return len(s.indexedTerms)
}
