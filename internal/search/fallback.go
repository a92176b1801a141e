package search

import (
	"context"
	"log/slog"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
)

// FallbackScorer tries a primary Scorer and serves from the fallback when the
// primary fails. The composition is explicit rather than buried in error
// handling inside a single scorer: either leg can be used on its own, and the
// call site decides the chain. The usual chain is remote AI search backed by
// the local scorer, which never errors.
type FallbackScorer struct {
	primary  Scorer
	fallback Scorer
}

// NewFallbackScorer composes two scorers. Both must be non-nil.
func NewFallbackScorer(primary, fallback Scorer) *FallbackScorer {
	return &FallbackScorer{primary: primary, fallback: fallback}
}

// Search returns the primary scorer's results, or the fallback's when the
// primary errors. A primary that succeeds with zero results is respected —
// empty is an answer, not a failure.
func (f *FallbackScorer) Search(ctx context.Context, query string, profiles []directory.Profile) ([]Result, error) {
	results, err := f.primary.Search(ctx, query, profiles)
	if err == nil {
		return results, nil
	}

	slog.Warn("primary search failed, using fallback", "error", err)
	return f.fallback.Search(ctx, query, profiles)
}
