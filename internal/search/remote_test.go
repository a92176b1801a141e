package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
)

func remoteCandidates() []directory.Profile {
	return []directory.Profile{
		{ID: "p-1", Personal: directory.Personal{Name: "One"}},
		{ID: "p-2", Personal: directory.Personal{Name: "Two"}},
		{ID: "p-3", Personal: directory.Personal{Name: "Three"}},
	}
}

func TestRemoteScorer_MapsAndSortsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %s, want /v1/search", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var req remoteSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Query != "technology" {
			t.Errorf("query = %q, want normalized %q", req.Query, "technology")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "p-2", "relevance": 0.4},
				{"id": "p-1", "relevance": 0.9},
				{"id": "p-unknown", "relevance": 0.8}, // not in the candidate list
				{"id": "p-3", "relevance": 0.05},      // below threshold
			},
		})
	}))
	defer srv.Close()

	scorer := NewRemoteScorer(srv.URL, "secret", time.Second)
	results, err := scorer.Search(context.Background(), "  Technology ", remoteCandidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Profile.ID != "p-1" || results[1].Profile.ID != "p-2" {
		t.Errorf("order = [%s %s], want [p-1 p-2]", results[0].Profile.ID, results[1].Profile.ID)
	}
	if results[0].Query != "technology" {
		t.Errorf("result query = %q, want %q", results[0].Query, "technology")
	}
}

func TestRemoteScorer_ClampsRelevance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": "p-1", "relevance": 1.7}},
		})
	}))
	defer srv.Close()

	results, err := NewRemoteScorer(srv.URL, "", time.Second).
		Search(context.Background(), "q", remoteCandidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Relevance != 1 {
		t.Errorf("got %+v, want single result clamped to 1", results)
	}
}

func TestRemoteScorer_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewRemoteScorer(srv.URL, "", time.Second).
		Search(context.Background(), "q", remoteCandidates()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestRemoteScorer_Unreachable(t *testing.T) {
	// Port 1 is essentially never listening.
	scorer := NewRemoteScorer("http://127.0.0.1:1", "", 200*time.Millisecond)
	if _, err := scorer.Search(context.Background(), "q", remoteCandidates()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestRemoteScorer_EmptyQuery(t *testing.T) {
	scorer := NewRemoteScorer("http://127.0.0.1:1", "", time.Second)
	results, err := scorer.Search(context.Background(), "   ", remoteCandidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("got %v, want nil for empty query", results)
	}
}
