package search

import "strings"

// Fixed vocabularies matched against the whole normalized query. These mirror
// the facets the directory actually carries; free-form keywords cover the rest.
var (
	industryVocab = []string{
		"technology", "finance", "healthcare", "education",
		"consulting", "marketing", "real-estate", "nonprofit",
	}
	roleVocab = []string{
		"founder", "ceo", "manager", "director",
		"engineer", "consultant", "analyst", "designer",
	}
	locationVocab = []string{
		"san francisco", "new york", "london", "toronto", "singapore", "tokyo",
	}
	goalVocab = []string{
		"mentorship", "partnerships", "job opportunities", "advice", "connections",
	}
	levelVocab = []string{
		"junior", "mid", "senior", "entry level", "experienced",
	}
)

// minKeywordLen filters out stopword-length tokens ("a", "of", "in" ...).
const minKeywordLen = 3

// Terms is the structured form of a free-text query: generic keywords plus
// any fixed-vocabulary facets the query mentions.
type Terms struct {
	Keywords   []string
	Industries []string
	Roles      []string
	Locations  []string
	Goals      []string
	Levels     []string
}

// Normalize returns the canonical form of a query: trimmed and lowercased.
// It is also the cache key for scored results.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// ExtractTerms tokenizes the normalized query into keywords (whitespace
// tokens longer than two runes) and scans it for fixed-vocabulary facets.
// Vocabulary terms match by substring containment against the full query
// string, not per-token, so multi-word phrases like "new york" or
// "job opportunities" are found.
func ExtractTerms(query string) Terms {
	q := Normalize(query)

	var t Terms
	for _, tok := range strings.Fields(q) {
		if len(tok) >= minKeywordLen {
			t.Keywords = append(t.Keywords, tok)
		}
	}

	for _, ind := range industryVocab {
		// Hyphenated industries also match their spaced spelling
		// ("real estate" finds "real-estate").
		if strings.Contains(q, ind) || strings.Contains(q, strings.ReplaceAll(ind, "-", " ")) {
			t.Industries = append(t.Industries, ind)
		}
	}
	for _, role := range roleVocab {
		if strings.Contains(q, role) {
			t.Roles = append(t.Roles, role)
		}
	}
	for _, loc := range locationVocab {
		if strings.Contains(q, loc) {
			t.Locations = append(t.Locations, loc)
		}
	}
	for _, goal := range goalVocab {
		if strings.Contains(q, goal) {
			t.Goals = append(t.Goals, goal)
		}
	}
	for _, level := range levelVocab {
		if strings.Contains(q, level) {
			t.Levels = append(t.Levels, level)
		}
	}
	return t
}
