package search

import "strings"

// similarityFloor is the minimum normalized similarity for a non-verbatim
// keyword to contribute to the fuzzy score. Below it, near-misses are noise.
const similarityFloor = 0.7

// fuzzyMatch scores how well text matches a keyword list, in [0,1].
// Each keyword contributes one full point when it appears verbatim in text,
// or its normalized Levenshtein similarity when that exceeds similarityFloor.
// The total is averaged over the keyword count. Empty text or an empty
// keyword list scores 0. Callers pass already-lowercased input.
func fuzzyMatch(text string, keywords []string) float64 {
	if text == "" || len(keywords) == 0 {
		return 0
	}

	var points float64
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			points++
			continue
		}
		if sim := similarity(text, kw); sim > similarityFloor {
			points += sim
		}
	}

	score := points / float64(len(keywords))
	if score > 1 {
		return 1
	}
	return score
}

// similarity is 1 − levenshtein(a,b)/max(len(a),len(b)), in [0,1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	return 1 - float64(levenshtein(a, b))/float64(longer)
}

// levenshtein computes the edit distance between two strings with the full
// dynamic-programming matrix, reduced to two rows. Inputs here are names,
// roles, and tags — tens of characters — so O(n·m) is fine and no early
// exit is needed.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
