package directory

import "strings"

// Filter is a structured directory filter. Zero-value fields are inactive;
// a zero Filter matches every profile.
type Filter struct {
	Industry     string
	YearMin      int
	YearMax      int
	Availability Availability
	Location     string // matched against city and country, case-insensitive
}

// IsZero reports whether no filter criteria are set.
func (f Filter) IsZero() bool {
	return f.Industry == "" && f.YearMin == 0 && f.YearMax == 0 &&
		f.Availability == "" && f.Location == ""
}

// Matches reports whether the profile satisfies every active criterion.
func (f Filter) Matches(p Profile) bool {
	if f.Industry != "" && !strings.EqualFold(p.Professional.Industry, f.Industry) {
		return false
	}
	if f.YearMin != 0 && p.Personal.GraduationYear < f.YearMin {
		return false
	}
	if f.YearMax != 0 && (p.Personal.GraduationYear == 0 || p.Personal.GraduationYear > f.YearMax) {
		return false
	}
	if f.Availability != "" && p.Networking.Availability != f.Availability {
		return false
	}
	if f.Location != "" {
		loc := strings.ToLower(p.Personal.Location.City + " " + p.Personal.Location.Country)
		if !strings.Contains(loc, strings.ToLower(f.Location)) {
			return false
		}
	}
	return true
}

// Apply returns the profiles matching the filter, preserving input order.
func (f Filter) Apply(profiles []Profile) []Profile {
	if f.IsZero() {
		return profiles
	}
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
