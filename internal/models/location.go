package models

import "strings"

// Location is a campus restaurant known to the forecasting service
type Location string

const (
	LocationChemicum Location = "Chemicum"
	LocationPhysicum Location = "Physicum"
	LocationExactum  Location = "Exactum"
)

// AllLocations lists every restaurant in display order
var AllLocations = []Location{LocationChemicum, LocationPhysicum, LocationExactum}

// IsValid reports whether the location is one of the known restaurants
func (l Location) IsValid() bool {
	for _, known := range AllLocations {
		if l == known {
			return true
		}
	}
	return false
}

func (l Location) String() string {
	return string(l)
}

// LocationSet is the subset of restaurants a deployment serves.
type LocationSet struct {
	allowed []Location
}

// NewLocationSet builds a set from configured names. An empty list means
// every known restaurant.
func NewLocationSet(names []string) (*LocationSet, error) {
	if len(names) == 0 {
		return &LocationSet{allowed: append([]Location(nil), AllLocations...)}, nil
	}

	set := &LocationSet{}
	seen := make(map[Location]bool)
	for _, name := range names {
		loc := Location(strings.TrimSpace(name))
		if !loc.IsValid() {
			return nil, NewValidationError("locations", "unknown restaurant "+name)
		}
		if seen[loc] {
			continue
		}
		seen[loc] = true
		set.allowed = append(set.allowed, loc)
	}
	return set, nil
}

// Parse resolves a restaurant name against the set. Matching is exact.
func (s *LocationSet) Parse(name string) (Location, error) {
	if name == "" {
		return "", NewValidationError("location", "restaurant is required")
	}
	for _, loc := range s.allowed {
		if string(loc) == name {
			return loc, nil
		}
	}
	return "", NewValidationError("location", "unsupported restaurant "+name)
}

// List returns the allowed restaurants in order
func (s *LocationSet) List() []Location {
	return append([]Location(nil), s.allowed...)
}

// Default is the first allowed restaurant
func (s *LocationSet) Default() Location {
	return s.allowed[0]
}
