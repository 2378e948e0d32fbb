package geo

import (
	"errors"
	"fmt"
)

const (
	DefaultMinAge     = 18
	DefaultMaxAge     = 99
	DefaultDistanceKm = 50.0

	maxAllowedAge        = 120
	maxAllowedDistanceKm = 20000.0
)

var ErrInvalidPreferences = errors.New("invalid preferences")

// Preferences are a user's discovery filters. Nil fields fall back to defaults.
type Preferences struct {
	MinAge     *int     `json:"min_age,omitempty"`
	MaxAge     *int     `json:"max_age,omitempty"`
	DistanceKm *float64 `json:"distance,omitempty"`
}

// Resolved holds preferences with defaults applied.
type Resolved struct {
	MinAge     int
	MaxAge     int
	DistanceKm float64
}

func (p Preferences) Resolve() Resolved {
	r := Resolved{MinAge: DefaultMinAge, MaxAge: DefaultMaxAge, DistanceKm: DefaultDistanceKm}
	if p.MinAge != nil {
		r.MinAge = *p.MinAge
	}
	if p.MaxAge != nil {
		r.MaxAge = *p.MaxAge
	}
	if p.DistanceKm != nil {
		r.DistanceKm = *p.DistanceKm
	}
	return r
}

// Validate checks bounds on the explicitly set fields.
func (p Preferences) Validate() error {
	r := p.Resolve()
	if p.MinAge != nil && r.MinAge < DefaultMinAge {
		return fmt.Errorf("%w: min_age must be at least %d", ErrInvalidPreferences, DefaultMinAge)
	}
	if p.MaxAge != nil && r.MaxAge > maxAllowedAge {
		return fmt.Errorf("%w: max_age must be at most %d", ErrInvalidPreferences, maxAllowedAge)
	}
	if r.MinAge > r.MaxAge {
		return fmt.Errorf("%w: min_age greater than max_age", ErrInvalidPreferences)
	}
	if p.DistanceKm != nil && (r.DistanceKm <= 0 || r.DistanceKm > maxAllowedDistanceKm) {
		return fmt.Errorf("%w: distance must be in (0, %.0f]", ErrInvalidPreferences, maxAllowedDistanceKm)
	}
	return nil
}

// MatchesPreferences reports whether a candidate's age and distance fall within prefs.
func MatchesPreferences(candidateAge int, distanceKm float64, prefs Preferences) bool {
	r := prefs.Resolve()
	return candidateAge >= r.MinAge && candidateAge <= r.MaxAge && distanceKm <= r.DistanceKm
}
