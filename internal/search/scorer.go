package search

import (
	"context"
	"sort"
	"strings"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
)

// Signal weights for the additive relevance model. The sum can exceed 1;
// the final score is clamped to [0,1].
const (
	weightExactMatch   = 0.5   // raw query is a substring of the profile's full text
	weightName         = 0.3   // fuzzy match of name against keywords
	weightRole         = 0.25  // fuzzy match of role against keywords
	weightRoleVocab    = 0.125 // bonus when a vocabulary role term appears in the role
	weightCompany      = 0.2   // fuzzy match of company against keywords
	weightIndustry     = 0.15  // exact industry facet match
	weightExpertise    = 0.2   // fuzzy match of joined expertise tags against keywords
	weightLocation     = 0.1   // location facet appears in city+country text
	weightNetworking   = 0.15  // goal facet appears in goals+offering text
	defaultMinScore    = 0.1   // results at or below this are dropped
	defaultCacheSize   = 100
	defaultMaxResults  = 0 // 0 = unlimited
)

// LocalScorer is the always-available search path: a pure weighted scoring
// function over the candidate list plus a bounded FIFO cache of ranked
// results keyed by normalized query. It never returns an error.
type LocalScorer struct {
	minScore   float64
	maxResults int
	cache      *queryCache
}

// Option configures a LocalScorer.
type Option func(*LocalScorer)

// WithMinScore overrides the relevance threshold.
func WithMinScore(min float64) Option {
	return func(s *LocalScorer) { s.minScore = min }
}

// WithMaxResults caps the number of results returned. 0 means unlimited.
func WithMaxResults(n int) Option {
	return func(s *LocalScorer) { s.maxResults = n }
}

// WithCacheSize overrides the query cache capacity. 0 disables caching.
func WithCacheSize(n int) Option {
	return func(s *LocalScorer) { s.cache = newQueryCache(n) }
}

// NewLocalScorer creates a LocalScorer with the default threshold (0.1) and
// cache capacity (100). Construct one per application session and share it;
// the cache is safe for concurrent use.
func NewLocalScorer(opts ...Option) *LocalScorer {
	s := &LocalScorer{
		minScore:   defaultMinScore,
		maxResults: defaultMaxResults,
		cache:      newQueryCache(defaultCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search scores every candidate profile against the query and returns the
// matches sorted by relevance descending, ties keeping candidate order.
// Repeated searches for the same normalized query are served from the cache;
// recomputing is always safe, the cache only saves work.
func (s *LocalScorer) Search(_ context.Context, query string, profiles []directory.Profile) ([]Result, error) {
	normalized := Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	if cached, ok := s.cache.get(normalized); ok {
		return cached, nil
	}

	terms := ExtractTerms(normalized)

	results := make([]Result, 0, len(profiles))
	for _, p := range profiles {
		score := scoreProfile(p, terms, normalized)
		if score > s.minScore {
			results = append(results, Result{Profile: p, Relevance: score, Query: normalized})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	if s.maxResults > 0 && len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	s.cache.put(normalized, results)
	return results, nil
}

// scoreProfile applies the additive weighted model and clamps to [0,1].
// Absent fields contribute nothing, so an empty profile scores 0.
func scoreProfile(p directory.Profile, terms Terms, rawQuery string) float64 {
	name := strings.ToLower(p.Personal.Name)
	role := strings.ToLower(p.Professional.CurrentRole)
	company := strings.ToLower(p.Professional.Company)
	industry := strings.ToLower(p.Professional.Industry)
	city := strings.ToLower(p.Personal.Location.City)

	var score float64

	// Exact substring over the profile's concatenated text fields.
	fullText := name + " " + role + " " + company + " " + industry + " " + city
	if strings.Contains(fullText, rawQuery) {
		score += weightExactMatch
	}

	score += fuzzyMatch(name, terms.Keywords) * weightName

	score += fuzzyMatch(role, terms.Keywords) * weightRole
	for _, r := range terms.Roles {
		if strings.Contains(role, r) {
			score += weightRoleVocab
			break
		}
	}

	score += fuzzyMatch(company, terms.Keywords) * weightCompany

	for _, ind := range terms.Industries {
		if industry == ind {
			score += weightIndustry
			break
		}
	}

	if tags := p.Professional.ExpertiseTags; len(tags) > 0 {
		joined := strings.ToLower(strings.Join(tags, " "))
		score += fuzzyMatch(joined, terms.Keywords) * weightExpertise
	}

	location := strings.ToLower(p.Personal.Location.City + " " + p.Personal.Location.Country)
	for _, loc := range terms.Locations {
		if strings.Contains(location, loc) {
			score += weightLocation
			break
		}
	}

	networking := strings.ToLower(strings.Join(p.Networking.Goals, " ") + " " + strings.Join(p.Networking.Offering, " "))
	for _, goal := range terms.Goals {
		if strings.Contains(networking, goal) {
			score += weightNetworking
			break
		}
	}

	// Clamp to [0,1]. All weights are non-negative, so the floor only guards
	// future signals that might subtract.
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}
