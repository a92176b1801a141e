package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
)

const defaultRemoteTimeout = 5 * time.Second

// RemoteScorer queries an external AI search service over HTTP. The service
// holds its own copy of the directory and returns profile IDs with relevance
// scores; the scorer maps those back onto the candidate list. Any transport,
// status, or decode failure is returned as an error so the caller can fall
// back to the local scorer.
type RemoteScorer struct {
	baseURL    string
	apiKey     string
	minScore   float64
	httpClient *http.Client
}

// NewRemoteScorer creates a RemoteScorer for the given service base URL.
// apiKey may be empty when the service is unauthenticated.
func NewRemoteScorer(baseURL, apiKey string, timeout time.Duration) *RemoteScorer {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteScorer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		minScore:   defaultMinScore,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type remoteSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type remoteSearchResponse struct {
	Results []struct {
		ID        string  `json:"id"`
		Relevance float64 `json:"relevance"`
	} `json:"results"`
}

// Search posts the query to <base_url>/v1/search and resolves the returned
// IDs against the candidate profiles. Remote scores are clamped to [0,1] and
// filtered by the same threshold as local results; IDs the candidate list
// does not contain are dropped.
func (r *RemoteScorer) Search(ctx context.Context, query string, profiles []directory.Profile) ([]Result, error) {
	normalized := Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	body, err := json.Marshal(remoteSearchRequest{Query: normalized})
	if err != nil {
		return nil, fmt.Errorf("marshalling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote search returned status %d", resp.StatusCode)
	}

	var decoded remoteSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding remote search response: %w", err)
	}

	byID := make(map[string]directory.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	results := make([]Result, 0, len(decoded.Results))
	for _, res := range decoded.Results {
		p, ok := byID[res.ID]
		if !ok {
			continue
		}
		relevance := res.Relevance
		if relevance > 1 {
			relevance = 1
		}
		if relevance <= r.minScore {
			continue
		}
		results = append(results, Result{Profile: p, Relevance: relevance, Query: normalized})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}
