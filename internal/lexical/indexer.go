package lexical

import (
	"sort"

	"github.com/cllg-project/TexTile-Backend/index"
	"github.com/cllg-project/TexTile-Backend/internal/tokenizer"
	"github.com/cllg-project/TexTile-Backend/model"
	"github.com/cllg-project/TexTile-Backend/store"
)

// fieldText is the only indexed field: the transcription of a citable unit.
const fieldText = "text"

// buildIndex walks every default-tree unit of the corpus and fills the
// inverted index. Full words carry their positions; prefix n-grams are
// indexed alongside them for partial matching. Returns the token count per
// unit for BM25 length normalization.
func buildIndex(corpus *store.Corpus, invIndex *index.InvertedIndex) map[uint32]int {
	unitLengths := make(map[uint32]int)

	invIndex.Mu.Lock()
	defer invIndex.Mu.Unlock()

	corpus.EachDefaultUnit(func(unitID uint32, _ *store.StoredDocument, unit model.CitableUnit) {
		tokens := tokenizer.TokenizeWithOffsets(unit.Text)
		unitLengths[unitID] = len(tokens)

		// Term frequency and positions per full word.
		freq := make(map[string]float64)
		positions := make(map[string][]int)
		for pos, tok := range tokens {
			freq[tok.Text]++
			positions[tok.Text] = append(positions[tok.Text], pos)
		}

		seenNGrams := make(map[string]struct{})
		for term, tf := range freq {
			insertPosting(invIndex, term, index.PostingEntry{
				UnitID:     unitID,
				FieldName:  fieldText,
				Score:      tf,
				IsFullWord: true,
				Positions:  positions[term],
			})

			for _, ngram := range tokenizer.GeneratePrefixNGrams(term) {
				if ngram == term {
					continue
				}
				if _, seen := seenNGrams[ngram]; seen {
					continue
				}
				seenNGrams[ngram] = struct{}{}
				insertPosting(invIndex, ngram, index.PostingEntry{
					UnitID:     unitID,
					FieldName:  fieldText,
					Score:      tf,
					IsFullWord: false,
				})
			}
		}
	})

	return unitLengths
}

// insertPosting places the entry into the term's posting list, keeping the
// list sorted by Score descending with UnitID ascending as tie-break.
// Callers hold the index write lock.
func insertPosting(invIndex *index.InvertedIndex, term string, entry index.PostingEntry) {
	postingList := invIndex.Index[term]

	insertAt := sort.Search(len(postingList), func(i int) bool {
		if postingList[i].Score != entry.Score {
			return postingList[i].Score < entry.Score
		}
		return postingList[i].UnitID >= entry.UnitID
	})

	postingList = append(postingList, index.PostingEntry{})
	copy(postingList[insertAt+1:], postingList[insertAt:])
	postingList[insertAt] = entry
	invIndex.Index[term] = postingList
}
