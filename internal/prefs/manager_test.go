package prefs

import (
	"sync"
	"testing"
	"time"
)

// --- Mock store ---

type mockStore struct {
	mu   sync.Mutex
	data map[string]string

	getAllCalls int
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) SetPreference(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockStore) GetPreference(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *mockStore) GetAllPreferences() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getAllCalls++
	cp := make(map[string]string, len(m.data))
	for k, v := range m.data {
		cp[k] = v
	}
	return cp, nil
}

// --- Mock clock ---

type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- Tests ---

func TestGet_Defaults(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	p, err := mgr.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ViewMode != ViewModeGrid {
		t.Errorf("expected default view mode %q, got %q", ViewModeGrid, p.ViewMode)
	}
	if !p.SearchHistoryEnabled {
		t.Error("expected search history enabled by default")
	}
	if p.DefaultFilters != (DefaultFilters{}) {
		t.Errorf("expected empty default filters, got %+v", p.DefaultFilters)
	}
}

func TestSetAndGet(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	if err := mgr.Set(KeyViewMode, "list"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := mgr.Set(KeyFilterIndustry, "technology"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := mgr.Set(KeyFilterYear, "2015"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	p, err := mgr.Get()
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p.ViewMode != "list" {
		t.Errorf("expected view mode %q, got %q", "list", p.ViewMode)
	}
	if p.DefaultFilters.Industry != "technology" {
		t.Errorf("expected industry %q, got %q", "technology", p.DefaultFilters.Industry)
	}
	if p.DefaultFilters.Year != 2015 {
		t.Errorf("expected year 2015, got %d", p.DefaultFilters.Year)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	if err := mgr.Set("theme", "dark"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSet_Validation(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	cases := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"valid view mode", KeyViewMode, "grid", false},
		{"invalid view mode", KeyViewMode, "carousel", true},
		{"valid year", KeyFilterYear, "2020", false},
		{"empty year clears filter", KeyFilterYear, "", false},
		{"invalid year", KeyFilterYear, "twenty", true},
		{"valid bool", KeySearchHistoryEnabled, "false", false},
		{"invalid bool", KeySearchHistoryEnabled, "maybe", true},
		{"availability is free-form", KeyFilterAvailability, "available", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mgr.Set(tc.key, tc.value)
			if tc.wantErr && err == nil {
				t.Errorf("Set(%q, %q): expected error", tc.key, tc.value)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Set(%q, %q): unexpected error: %v", tc.key, tc.value, err)
			}
		})
	}
}

func TestSearchHistoryToggle(t *testing.T) {
	store := newMockStore()
	mgr := NewManager(store)

	if !mgr.SearchHistoryEnabled() {
		t.Error("expected history enabled by default")
	}

	if err := mgr.Set(KeySearchHistoryEnabled, "false"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if mgr.SearchHistoryEnabled() {
		t.Error("expected history disabled after Set")
	}
}

func TestMalformedStoredYearSkipped(t *testing.T) {
	store := newMockStore()
	store.data[KeyFilterYear] = "not-a-year"
	mgr := NewManager(store)

	p, err := mgr.Get()
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p.DefaultFilters.Year != 0 {
		t.Errorf("expected malformed year skipped, got %d", p.DefaultFilters.Year)
	}
}

func TestCacheTTL(t *testing.T) {
	store := newMockStore()
	clock := &mockClock{now: time.Now()}
	mgr := NewManagerWithClock(store, clock, 60*time.Second)

	mgr.Set(KeyViewMode, "list")

	mgr.Get()
	mgr.Get()

	store.mu.Lock()
	calls := store.getAllCalls
	store.mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 store call (cache hit on second), got %d", calls)
	}
}

func TestCacheInvalidation(t *testing.T) {
	store := newMockStore()
	clock := &mockClock{now: time.Now()}
	ttl := 60 * time.Second
	mgr := NewManagerWithClock(store, clock, ttl)

	mgr.Set(KeyViewMode, "list")

	mgr.Get()

	// Advance past TTL
	clock.Advance(ttl + time.Second)

	mgr.Get()

	store.mu.Lock()
	calls := store.getAllCalls
	store.mu.Unlock()

	if calls != 2 {
		t.Errorf("expected 2 store calls (cache expired), got %d", calls)
	}
}

func TestDefaultFiltersToFilter(t *testing.T) {
	d := DefaultFilters{Industry: "finance", Year: 2018, Availability: "available"}
	f := d.ToFilter()

	if f.Industry != "finance" {
		t.Errorf("industry = %q", f.Industry)
	}
	if f.YearMin != 2018 || f.YearMax != 2018 {
		t.Errorf("year bounds = [%d, %d], want [2018, 2018]", f.YearMin, f.YearMax)
	}
	if string(f.Availability) != "available" {
		t.Errorf("availability = %q", f.Availability)
	}
}
