package directory

import (
	"fmt"
	"sync"
)

// Source yields the full profile set, typically from SQLite.
// Implemented by storage.Store.
type Source interface {
	AllProfiles() ([]Profile, error)
}

// Directory is an in-memory snapshot of the alumni directory. Profiles are
// loaded once at startup and refreshed after imports; reads vastly outnumber
// reloads, so the snapshot is guarded by an RWMutex and handed out as a copy.
type Directory struct {
	source Source

	mu       sync.RWMutex
	profiles []Profile
	byID     map[string]Profile
}

// New creates an empty Directory backed by the given source.
// Call Reload to populate it.
func New(source Source) *Directory {
	return &Directory{source: source, byID: make(map[string]Profile)}
}

// Reload replaces the snapshot with the source's current profile set.
func (d *Directory) Reload() error {
	profiles, err := d.source.AllProfiles()
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	byID := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	d.mu.Lock()
	d.profiles = profiles
	d.byID = byID
	d.mu.Unlock()
	return nil
}

// All returns a copy of the current profile snapshot in stable load order.
func (d *Directory) All() []Profile {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Profile, len(d.profiles))
	copy(out, d.profiles)
	return out
}

// Get returns the profile with the given ID, plus a found boolean.
func (d *Directory) Get(id string) (Profile, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byID[id]
	return p, ok
}

// Len returns the number of profiles in the snapshot.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.profiles)
}
