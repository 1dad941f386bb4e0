package lexical

import (
	"math"

	"github.com/cllg-project/TexTile-Backend/index"
)

// BM25 parameters: k1 controls term frequency saturation, b how much unit
// length matters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// bm25Calculator scores term/unit pairs against the built index. Unit
// lengths and their average are computed once at build time.
type bm25Calculator struct {
	invertedIndex *index.InvertedIndex
	unitLengths   map[uint32]int
	avgUnitLength float64
}

func newBM25Calculator(invIndex *index.InvertedIndex, unitLengths map[uint32]int) *bm25Calculator {
	total := 0
	for _, length := range unitLengths {
		total += length
	}
	avg := 0.0
	if len(unitLengths) > 0 {
		avg = float64(total) / float64(len(unitLengths))
	}
	return &bm25Calculator{
		invertedIndex: invIndex,
		unitLengths:   unitLengths,
		avgUnitLength: avg,
	}
}

// idf = log(N / df) over units. Callers hold the index read lock.
func (calc *bm25Calculator) idf(term string) float64 {
	totalUnits := float64(len(calc.unitLengths))
	if totalUnits == 0 {
		return 0.0
	}

	postingList, exists := calc.invertedIndex.Index[term]
	if !exists {
		return 0.0
	}
	uniqueUnits := make(map[uint32]bool)
	for _, entry := range postingList {
		uniqueUnits[entry.UnitID] = true
	}
	if len(uniqueUnits) == 0 {
		return 0.0
	}
	return math.Log(totalUnits / float64(len(uniqueUnits)))
}

// score computes BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|u| / avg))).
func (calc *bm25Calculator) score(term string, unitID uint32, termFreq float64) float64 {
	unitLength, exists := calc.unitLengths[unitID]
	if !exists || calc.avgUnitLength == 0 {
		return 0.0
	}

	tf := termFreq
	norm := tf + bm25K1*(1-bm25B+bm25B*(float64(unitLength)/calc.avgUnitLength))
	if norm == 0 {
		return 0.0
	}
	return calc.idf(term) * (tf * (bm25K1 + 1)) / norm
}
