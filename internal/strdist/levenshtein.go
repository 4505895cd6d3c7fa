// Package strdist provides the edit-distance similarity used by the
// ranking code.
package strdist

// Distance computes the Levenshtein distance between two strings: the
// minimum number of single-character insertions, deletions, or
// substitutions to turn one into the other. It operates on runes so
// multi-byte characters count as single edits.
func Distance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Two-row dynamic program: prev holds distances against the first i-1
	// runes of a, curr is being filled for the first i runes.
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			curr[j] = min3(deletion, insertion, substitution)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}

// NormalizedSimilarity maps Distance onto [0, 1], where 1 means the
// strings are identical. Two empty strings are identical. The distance is
// divided by the length of the longer string.
func NormalizedSimilarity(a, b string) float64 {
	lenA := len([]rune(a))
	lenB := len([]rune(b))

	longest := lenA
	if lenB > longest {
		longest = lenB
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(Distance(a, b))/float64(longest)
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
