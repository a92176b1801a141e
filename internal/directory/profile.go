package directory

import "time"

// Availability is a profile's networking availability state.
type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Offline   Availability = "offline"
)

// Location is an optional city/country pair.
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Personal holds identity fields. All fields are optional.
type Personal struct {
	Name           string   `json:"name,omitempty"`
	PhotoGlyph     string   `json:"photo_glyph,omitempty"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Location       Location `json:"location,omitempty"`
}

// Professional holds career fields. All fields are optional.
type Professional struct {
	CurrentRole     string   `json:"current_role,omitempty"`
	Company         string   `json:"company,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	ExpertiseTags   []string `json:"expertise_tags,omitempty"`
}

// Networking holds the profile owner's networking goals and offers.
type Networking struct {
	Goals        []string     `json:"goals,omitempty"`
	Offering     []string     `json:"offering,omitempty"`
	Availability Availability `json:"availability,omitempty"`
}

// Profile is one alumni directory record. Every nested group is optional;
// consumers must tolerate zero values everywhere.
type Profile struct {
	ID           string       `json:"id"`
	Personal     Personal     `json:"personal,omitempty"`
	Professional Professional `json:"professional,omitempty"`
	Networking   Networking   `json:"networking,omitempty"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
}

// DisplayName returns the profile name, or the ID when the name is absent.
func (p Profile) DisplayName() string {
	if p.Personal.Name != "" {
		return p.Personal.Name
	}
	return p.ID
}
