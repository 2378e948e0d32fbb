package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinates is wrapped by every ParseCoordinates failure.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ParseCoordinates parses a "lat,lng" string.
func ParseCoordinates(text string) (lat, lng float64, err error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected \"lat,lng\", got %q", ErrInvalidCoordinates, text)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q is not a number", ErrInvalidCoordinates, parts[0])
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q is not a number", ErrInvalidCoordinates, parts[1])
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return 0, 0, fmt.Errorf("%w: %q is not a finite position", ErrInvalidCoordinates, text)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinates, lat)
	}
	if lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinates, lng)
	}
	return lat, lng, nil
}

// FormatCoordinates is the inverse of ParseCoordinates.
func FormatCoordinates(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
