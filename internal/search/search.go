// Package search implements relevance-scored free-text search over the
// alumni directory. The default path is a local weighted scorer with a
// bounded query cache; an optional remote AI search backend can be layered
// in front of it with explicit fallback composition.
package search

import (
	"context"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
)

// Result is one scored profile for a given query.
type Result struct {
	Profile   directory.Profile `json:"profile"`
	Relevance float64           `json:"relevance"`
	Query     string            `json:"query"`
}

// Scorer ranks candidate profiles by relevance to a free-text query.
// Results are ordered by relevance descending; profiles at or below the
// relevance threshold are omitted. Implementations must treat profiles as
// read-only.
type Scorer interface {
	Search(ctx context.Context, query string, profiles []directory.Profile) ([]Result, error)
}
