package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
	"github.com/HarelItay/leaders-alumni-association/internal/ingest"
	"github.com/HarelItay/leaders-alumni-association/internal/prefs"
	"github.com/HarelItay/leaders-alumni-association/internal/search"
	"github.com/HarelItay/leaders-alumni-association/internal/storage"
)

const maxRequestBodySize = 10 << 20 // 10MB, dataset imports included

// AppDeps holds the dependencies for the HTTP API.
type AppDeps struct {
	Store     *storage.Store
	Directory *directory.Directory
	Scorer    search.Scorer
	Prefs     *prefs.Manager
	Token     string // optional; empty disables auth
}

// NewAppHandler returns the alumnid REST API. /health is always open;
// everything else requires the bearer token when one is configured.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}

		r.Get("/search", handleSearch(deps))
		r.Get("/profiles", handleListProfiles(deps))
		r.Get("/profiles/{id}", handleGetProfile(deps))
		r.Delete("/profiles/{id}", handleDeleteProfile(deps))
		r.Post("/ingest", handleIngest(deps))
		r.Get("/preferences", handleGetPreferences(deps))
		r.Patch("/preferences", handlePatchPreferences(deps))
		r.Get("/search-history", handleListSearchHistory(deps))
		r.Delete("/search-history", handleClearSearchHistory(deps))
	})

	return r
}

func handleHealth(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"profiles": deps.Directory.Len(),
		})
	}
}

// SearchResponse is the /search payload.
type SearchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []search.Result `json:"results"`
}

func handleSearch(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "q is required")
			return
		}
		limit := parseIntParam(r, "limit", 0, 100)

		profiles := deps.Directory.All()
		filter := filterFromQuery(r)
		if filter.IsZero() {
			// No explicit filters; fall back to the configured defaults.
			if p, err := deps.Prefs.Get(); err == nil {
				filter = p.DefaultFilters.ToFilter()
			}
		}
		profiles = filter.Apply(profiles)

		results, err := deps.Scorer.Search(r.Context(), query, profiles)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "search failed: %v", err)
			return
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}
		if results == nil {
			results = []search.Result{}
		}

		recordSearch(deps, query, len(results), "api")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SearchResponse{
			Query:   query,
			Count:   len(results),
			Results: results,
		})
	}
}

// recordSearch appends to the search history unless the user disabled it.
// History failures never break the search itself.
func recordSearch(deps AppDeps, query string, count int, source string) {
	if deps.Prefs != nil && !deps.Prefs.SearchHistoryEnabled() {
		return
	}
	_ = deps.Store.SaveSearch(storage.SearchEntry{
		ID:          uuid.New().String(),
		Query:       query,
		ResultCount: count,
		Source:      source,
		CreatedAt:   time.Now().UTC(),
	})
}

func filterFromQuery(r *http.Request) directory.Filter {
	q := r.URL.Query()
	f := directory.Filter{
		Industry:     q.Get("industry"),
		Availability: directory.Availability(q.Get("availability")),
		Location:     q.Get("location"),
	}
	if v := q.Get("year_min"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			f.YearMin = year
		}
	}
	if v := q.Get("year_max"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			f.YearMax = year
		}
	}
	return f
}

func handleListProfiles(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		filter := filterFromQuery(r)
		var profiles []directory.Profile
		var err error
		if filter.IsZero() {
			profiles, err = deps.Store.ListProfiles(limit, offset)
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to list profiles: %v", err)
				return
			}
		} else {
			// Filters operate on the in-memory snapshot; paginate after.
			filtered := filter.Apply(deps.Directory.All())
			if offset >= len(filtered) {
				filtered = nil
			} else {
				filtered = filtered[offset:]
			}
			if len(filtered) > limit {
				filtered = filtered[:limit]
			}
			profiles = filtered
		}

		if profiles == nil {
			profiles = []directory.Profile{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profiles)
	}
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		p, err := deps.Store.GetProfile(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func handleDeleteProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := deps.Store.DeleteProfile(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete profile: %v", err)
			return
		}

		if err := deps.Directory.Reload(); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "profile deleted but reload failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

// IngestRequest queues a dataset import. Either a server-side file path or
// inline content (with its format) must be provided.
type IngestRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Format  string `json:"format"`
}

func handleIngest(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		var jobID string
		var err error
		switch {
		case req.Path != "":
			jobID, err = ingest.EnqueueFile(deps.Store, req.Path)
		case req.Content != "":
			if req.Format == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "format is required for inline content")
				return
			}
			jobID, err = ingest.EnqueueContent(deps.Store, req.Content, req.Format)
		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "at least one of path or content is required")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to enqueue import: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":     jobID,
			"status": "queued",
		})
	}
}

func handleGetPreferences(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Prefs.Get()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get preferences: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

func handlePatchPreferences(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var fields map[string]string
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		for key, value := range fields {
			if err := deps.Prefs.Set(key, value); err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "failed to set %q: %v", key, err)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
	}
}

func handleListSearchHistory(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		entries, err := deps.Store.ListSearches(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list searches: %v", err)
			return
		}

		if entries == nil {
			entries = []storage.SearchEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func handleClearSearchHistory(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.ClearSearches(); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to clear search history: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "cleared"})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
