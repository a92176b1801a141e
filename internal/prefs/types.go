package prefs

import "github.com/HarelItay/leaders-alumni-association/internal/directory"

// Preferences is the user's directory configuration: how results are shown,
// which filters apply by default, and whether searches are recorded.
type Preferences struct {
	ViewMode             string         `json:"view_mode"`
	DefaultFilters       DefaultFilters `json:"default_filters"`
	SearchHistoryEnabled bool           `json:"search_history_enabled"`
}

// DefaultFilters narrows the directory before any query is typed.
type DefaultFilters struct {
	Industry     string `json:"industry,omitempty"`
	Year         int    `json:"year,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// ToFilter converts the defaults into a directory filter. A year preference
// pins both bounds to that graduation year.
func (d DefaultFilters) ToFilter() directory.Filter {
	f := directory.Filter{
		Industry:     d.Industry,
		Availability: directory.Availability(d.Availability),
	}
	if d.Year != 0 {
		f.YearMin = d.Year
		f.YearMax = d.Year
	}
	return f
}

// View modes supported by clients.
const (
	ViewModeGrid = "grid"
	ViewModeList = "list"
)
