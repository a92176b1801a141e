package prefs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// PreferenceStore defines the storage operations the Manager needs.
// Implemented by storage.Store.
type PreferenceStore interface {
	SetPreference(key, value string) error
	GetPreference(key string) (string, error)
	GetAllPreferences() (map[string]string, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Preference keys accepted by Set. Filter values are stored flat with
// dot-notation so each can be changed independently.
const (
	KeyViewMode             = "view_mode"
	KeyFilterIndustry       = "default_filters.industry"
	KeyFilterYear           = "default_filters.year"
	KeyFilterAvailability   = "default_filters.availability"
	KeySearchHistoryEnabled = "search_history_enabled"
)

var knownKeys = map[string]bool{
	KeyViewMode:             true,
	KeyFilterIndustry:       true,
	KeyFilterYear:           true,
	KeyFilterAvailability:   true,
	KeySearchHistoryEnabled: true,
}

// Manager provides cached, structured access to preferences stored in SQLite.
type Manager struct {
	store PreferenceStore
	clock Clock
	ttl   time.Duration

	mu       sync.RWMutex
	cached   *Preferences
	cachedAt time.Time
}

// NewManager creates a Manager with a 60-second cache TTL.
func NewManager(store PreferenceStore) *Manager {
	return &Manager{
		store: store,
		clock: realClock{},
		ttl:   60 * time.Second,
	}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store PreferenceStore, clock Clock, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		clock: clock,
		ttl:   ttl,
	}
}

// Get reads all preference keys from storage (or cache) and assembles a
// Preferences value. An empty store yields the defaults.
func (m *Manager) Get() (Preferences, error) {
	// Fast path: read lock for cache hit.
	m.mu.RLock()
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		p := *m.cached
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	// Slow path: write lock for cache miss.
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock.
	if m.cached != nil && m.clock.Now().Before(m.cachedAt.Add(m.ttl)) {
		return *m.cached, nil
	}

	keys, err := m.store.GetAllPreferences()
	if err != nil {
		return Preferences{}, fmt.Errorf("loading preferences: %w", err)
	}

	p := buildPreferences(keys)
	m.cached = &p
	m.cachedAt = m.clock.Now()
	return p, nil
}

// Set validates and persists one preference key, then invalidates the cache.
func (m *Manager) Set(key, value string) error {
	if !knownKeys[key] {
		return fmt.Errorf("unknown preference key %q", key)
	}
	if err := validateValue(key, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SetPreference(key, value); err != nil {
		return fmt.Errorf("setting preference %q: %w", key, err)
	}

	m.cached = nil
	return nil
}

// SearchHistoryEnabled reports whether searches should be recorded. Storage
// errors fall back to the default (enabled) so search itself keeps working.
func (m *Manager) SearchHistoryEnabled() bool {
	p, err := m.Get()
	if err != nil {
		slog.Warn("reading preferences failed, assuming history enabled", "error", err)
		return true
	}
	return p.SearchHistoryEnabled
}

func validateValue(key, value string) error {
	switch key {
	case KeyViewMode:
		if value != ViewModeGrid && value != ViewModeList {
			return fmt.Errorf("view_mode must be %q or %q, got %q", ViewModeGrid, ViewModeList, value)
		}
	case KeyFilterYear:
		if value == "" {
			return nil
		}
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("default_filters.year must be a number, got %q", value)
		}
	case KeySearchHistoryEnabled:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("search_history_enabled must be a boolean, got %q", value)
		}
	}
	return nil
}

// buildPreferences assembles Preferences from flat key-value pairs,
// applying defaults for anything unset.
func buildPreferences(keys map[string]string) Preferences {
	p := Preferences{
		ViewMode:             ViewModeGrid,
		SearchHistoryEnabled: true,
	}

	if v, ok := keys[KeyViewMode]; ok && v != "" {
		p.ViewMode = v
	}
	if v, ok := keys[KeyFilterIndustry]; ok {
		p.DefaultFilters.Industry = v
	}
	if v, ok := keys[KeyFilterYear]; ok && v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("malformed preference, skipping", "key", KeyFilterYear, "error", err)
		} else {
			p.DefaultFilters.Year = year
		}
	}
	if v, ok := keys[KeyFilterAvailability]; ok {
		p.DefaultFilters.Availability = v
	}
	if v, ok := keys[KeySearchHistoryEnabled]; ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("malformed preference, skipping", "key", KeySearchHistoryEnabled, "error", err)
		} else {
			p.SearchHistoryEnabled = enabled
		}
	}
	return p
}

// MarshalIndent renders the preferences as formatted JSON, for CLI output
// and the MCP resource.
func MarshalIndent(p Preferences) (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
