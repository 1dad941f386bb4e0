package typoutil

// DistanceWithLimit computes the Damerau-Levenshtein distance between two
// strings: the minimum number of insertions, deletions, substitutions, or
// adjacent transpositions turning one into the other. Strings are compared
// rune by rune. Returns maxDistance + 1 as soon as the distance provably
// exceeds maxDistance.
func DistanceWithLimit(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Three rolling rows: transpositions need to look two rows back.
	prevPrevRow := make([]int, lenB+1)
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)

	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)

			if i > 1 && j > 1 &&
				runesA[i-1] == runesB[j-2] &&
				runesA[i-2] == runesB[j-1] {
				transposition := prevPrevRow[j-2] + cost
				if transposition < currRow[j] {
					currRow[j] = transposition
				}
			}

			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		// Once every cell in a row exceeds the limit the result must too.
		if minInRow > maxDistance {
			return maxDistance + 1
		}

		prevPrevRow, prevRow, currRow = prevRow, currRow, prevPrevRow
	}

	return prevRow[lenB]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// FindNear returns the indexed terms within maxDistance edits of term,
// excluding the term itself. Candidates whose rune length differs from the
// term's by more than maxDistance are skipped without computing a distance.
func FindNear(term string, indexedTerms []string, maxDistance int) []string {
	matches := make([]string, 0)
	if maxDistance <= 0 || term == "" || len(indexedTerms) == 0 {
		return matches
	}

	termLen := len([]rune(term))

	for _, indexedTerm := range indexedTerms {
		if indexedTerm == term {
			continue
		}

		lengthDiff := len([]rune(indexedTerm)) - termLen
		if lengthDiff < 0 {
			lengthDiff = -lengthDiff
		}
		if lengthDiff > maxDistance {
			continue
		}

		dist := DistanceWithLimit(term, indexedTerm, maxDistance)
		if dist > 0 && dist <= maxDistance {
			matches = append(matches, indexedTerm)
		}
	}
	return matches
}
