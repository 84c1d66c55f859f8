// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package textutil

// SimilarityThreshold is the acceptance boundary for fuzzy matches.
// A score counts as a match when it is >= this value; every call site
// uses >=, never >.
const SimilarityThreshold = 0.85

// Similarity computes a bounded sequence ratio between two strings.
//
// Description:
//
//	Returns 2*LCS(a,b) / (len(a)+len(b)) over runes, where LCS is the
//	longest common subsequence length. The score is in [0,1], symmetric,
//	1.0 for identical strings (including two empty strings) and near 0
//	for disjoint ones. Adding common material never lowers the score.
//
//	Inputs are compared as given; callers normalize first. The two-row
//	dynamic program keeps memory at O(min side) for the O(n*m) scan.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)

	// Iterate over the longer sequence so the DP rows track the shorter.
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

// IsMatch reports whether the similarity between a and b meets the
// acceptance threshold.
func IsMatch(a, b string) bool {
	return Similarity(a, b) >= SimilarityThreshold
}
