package proximity

import "math"

// Closeness is a privacy-safe description of how far away a profile is.
type Closeness struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// Describe reports closeness of a profile at distanceKm within a search radius.
// Percent is 100 at zero distance and 0 at or beyond the radius.
func Describe(distanceKm, radiusKm float64) Closeness {
	p := Percent(distanceKm, radiusKm)
	return Closeness{Label: Label(distanceKm, p), Percent: math.Round(p)}
}

// Percent computes (1 - distance/radius) * 100, clamped to [0, 100].
func Percent(distanceKm, radiusKm float64) float64 {
	if radiusKm <= 0 || distanceKm >= radiusKm {
		return 0
	}
	p := (1 - distanceKm/radiusKm) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Label never exposes the exact distance for anything closer than a kilometre.
func Label(distanceKm, percent float64) string {
	switch {
	case distanceKm < 1:
		return "Less than a km away"
	case percent >= 75:
		return "Very close"
	case percent >= 50:
		return "Nearby"
	case percent > 0:
		return "In your area"
	default:
		return "Far away"
	}
}
