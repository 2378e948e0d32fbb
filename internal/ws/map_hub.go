package ws

import (
	"math"
	"sync"
	"time"

	"venus/internal/domain"
)

// MapMarker is a coarse profile location for the live map.
type MapMarker struct {
	Type      string        `json:"type"`
	UserID    string        `json:"user_id"`
	Gender    domain.Gender `json:"gender"`
	Lat       float64       `json:"lat"`
	Lng       float64       `json:"lng"`
	Online    bool          `json:"online"`
	UpdatedAt int64         `json:"updated_at"`
}

// MapHub streams profile locations to map viewers of the opposite gender.
type MapHub struct {
	*Hub
	mu      sync.RWMutex
	markers map[string]MapMarker
	now     func() time.Time
}

func NewMapHub() *MapHub {
	return &MapHub{
		Hub:     NewHub(),
		markers: make(map[string]MapMarker),
		now:     time.Now,
	}
}

// fuzz rounds to two decimals, roughly a kilometre at the equator.
func fuzz(v float64) float64 {
	return math.Round(v*100) / 100
}

// UpdateLocation records a profile's position and fans it out to viewers who could discover it.
func (m *MapHub) UpdateLocation(userID string, gender domain.Gender, lat, lng float64, online bool) {
	marker := MapMarker{
		Type:      "location",
		UserID:    userID,
		Gender:    gender,
		Lat:       fuzz(lat),
		Lng:       fuzz(lng),
		Online:    online,
		UpdatedAt: m.now().Unix(),
	}
	m.mu.Lock()
	m.markers[userID] = marker
	m.mu.Unlock()
	m.BroadcastWhere(marker, func(c *Client) bool {
		return c.UserID != userID && c.Gender == gender.Opposite()
	})
}

// Markers returns online markers visible to a viewer of the given gender, for the initial map load.
func (m *MapHub) Markers(viewer domain.Gender) []MapMarker {
	list := make([]MapMarker, 0)
	if viewer == "" {
		return list
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.markers {
		if v.Online && v.Gender == viewer.Opposite() {
			list = append(list, v)
		}
	}
	return list
}
