package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HarelItay/leaders-alumni-association/internal/directory"
	"github.com/HarelItay/leaders-alumni-association/internal/prefs"
	"github.com/HarelItay/leaders-alumni-association/internal/search"
	"github.com/HarelItay/leaders-alumni-association/internal/storage"
)

func seedProfiles(t *testing.T, store *storage.Store) {
	t.Helper()
	profiles := []directory.Profile{
		{
			ID: "p-sarah",
			Personal: directory.Personal{
				Name:           "Sarah Chen",
				GraduationYear: 2015,
				Location:       directory.Location{City: "San Francisco", Country: "USA"},
			},
			Professional: directory.Professional{
				CurrentRole: "Senior Product Manager",
				Company:     "TechCorp Inc",
				Industry:    "technology",
			},
			Networking: directory.Networking{
				Goals:        []string{"mentorship"},
				Availability: directory.Available,
			},
		},
		{
			ID: "p-marcus",
			Personal: directory.Personal{
				Name:           "Marcus Webb",
				GraduationYear: 2010,
				Location:       directory.Location{City: "London", Country: "UK"},
			},
			Professional: directory.Professional{
				CurrentRole: "Founder & CEO",
				Company:     "Webb Capital",
				Industry:    "finance",
			},
			Networking: directory.Networking{
				Availability: directory.Busy,
			},
		},
	}
	for _, p := range profiles {
		if err := store.SaveProfile(p); err != nil {
			t.Fatalf("SaveProfile %s: %v", p.ID, err)
		}
	}
}

func newTestDeps(t *testing.T) AppDeps {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	seedProfiles(t, store)

	dir := directory.New(store)
	if err := dir.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	return AppDeps{
		Store:     store,
		Directory: dir,
		Scorer:    search.NewLocalScorer(),
		Prefs:     prefs.NewManager(store),
	}
}

func doRequest(t *testing.T, h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
	if resp["profiles"].(float64) != 2 {
		t.Errorf("profiles = %v, want 2", resp["profiles"])
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/search", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchRanksResults(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/search?q=founder", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count == 0 {
		t.Fatal("no results for founder query")
	}
	if resp.Results[0].Profile.ID != "p-marcus" {
		t.Errorf("top result = %s, want p-marcus", resp.Results[0].Profile.ID)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Relevance > resp.Results[i-1].Relevance {
			t.Error("results not sorted by relevance")
		}
	}
}

func TestSearchLimit(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/search?q=sarah+marcus&limit=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count > 1 {
		t.Errorf("count = %d, want at most 1", resp.Count)
	}
}

func TestSearchIndustryFilter(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	// The industry filter drops p-marcus before scoring.
	w := doRequest(t, h, http.MethodGet, "/search?q=marcus+sarah&industry=technology", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	for _, res := range resp.Results {
		if res.Profile.ID == "p-marcus" {
			t.Error("filtered-out profile appeared in results")
		}
	}
}

func TestSearchRecordsHistory(t *testing.T) {
	deps := newTestDeps(t)
	h := NewAppHandler(deps)

	doRequest(t, h, http.MethodGet, "/search?q=founder", "")

	entries, err := deps.Store.ListSearches(10)
	if err != nil {
		t.Fatalf("ListSearches: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history entries = %d, want 1", len(entries))
	}
	if entries[0].Query != "founder" || entries[0].Source != "api" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestSearchHistoryDisabled(t *testing.T) {
	deps := newTestDeps(t)
	if err := deps.Prefs.Set(prefs.KeySearchHistoryEnabled, "false"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	h := NewAppHandler(deps)

	doRequest(t, h, http.MethodGet, "/search?q=founder", "")

	entries, err := deps.Store.ListSearches(10)
	if err != nil {
		t.Fatalf("ListSearches: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("history entries = %d, want 0 when disabled", len(entries))
	}
}

func TestListProfiles(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/profiles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var profiles []directory.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(profiles) != 2 {
		t.Errorf("len = %d, want 2", len(profiles))
	}
}

func TestListProfilesWithFilter(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/profiles?industry=finance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var profiles []directory.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "p-marcus" {
		t.Errorf("profiles = %+v, want only p-marcus", profiles)
	}
}

func TestGetProfile(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/profiles/p-sarah", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var p directory.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if p.Personal.Name != "Sarah Chen" {
		t.Errorf("name = %q", p.Personal.Name)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodGet, "/profiles/missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteProfileReloadsDirectory(t *testing.T) {
	deps := newTestDeps(t)
	h := NewAppHandler(deps)

	w := doRequest(t, h, http.MethodDelete, "/profiles/p-sarah", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	if deps.Directory.Len() != 1 {
		t.Errorf("directory len = %d after delete, want 1", deps.Directory.Len())
	}

	w = doRequest(t, h, http.MethodDelete, "/profiles/p-sarah", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestIngestQueuesJob(t *testing.T) {
	deps := newTestDeps(t)
	h := NewAppHandler(deps)

	body := `{"content":"[{\"id\":\"p-new\"}]","format":"json"}`
	w := doRequest(t, h, http.MethodPost, "/ingest", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["status"] != "queued" || resp["id"] == "" {
		t.Errorf("response = %v", resp)
	}

	var count int
	if err := deps.Store.DB().QueryRow(`SELECT COUNT(*) FROM jobs WHERE status = 'pending'`).Scan(&count); err != nil {
		t.Fatalf("counting jobs: %v", err)
	}
	if count != 1 {
		t.Errorf("pending jobs = %d, want 1", count)
	}
}

func TestIngestRejectsEmptyRequest(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodPost, "/ingest", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodPatch, "/preferences", `{"view_mode":"list","default_filters.industry":"finance"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, h, http.MethodGet, "/preferences", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	var p prefs.Preferences
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if p.ViewMode != "list" {
		t.Errorf("view mode = %q", p.ViewMode)
	}
	if p.DefaultFilters.Industry != "finance" {
		t.Errorf("industry = %q", p.DefaultFilters.Industry)
	}
}

func TestPatchPreferencesRejectsUnknownKey(t *testing.T) {
	h := NewAppHandler(newTestDeps(t))

	w := doRequest(t, h, http.MethodPatch, "/preferences", `{"theme":"dark"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchHistoryEndpoints(t *testing.T) {
	deps := newTestDeps(t)
	h := NewAppHandler(deps)

	doRequest(t, h, http.MethodGet, "/search?q=founder", "")
	doRequest(t, h, http.MethodGet, "/search?q=technology", "")

	w := doRequest(t, h, http.MethodGet, "/search-history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var entries []storage.SearchEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}

	w = doRequest(t, h, http.MethodDelete, "/search-history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/search-history", "")
	entries = nil
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d after clear, want 0", len(entries))
	}
}

func TestBearerAuth(t *testing.T) {
	deps := newTestDeps(t)
	deps.Token = "secret-token"
	h := NewAppHandler(deps)

	// Health stays open.
	w := doRequest(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 without auth", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/search?q=founder", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/search?q=founder", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d with valid token, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/search?q=founder", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d with bad token, want 401", rec.Code)
	}
}
