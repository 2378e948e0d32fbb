package service

import (
	"errors"
	"log"
	"sort"
	"time"

	"venus/internal/models"
	"venus/pkg/geo"
	"venus/pkg/proximity"

	"gorm.io/gorm"
)

// NearbyProfile is a discovery result.
type NearbyProfile struct {
	models.Profile
	Age        int                 `json:"age"`
	DistanceKm float64             `json:"distance_km"`
	Proximity  proximity.Closeness `json:"proximity"`
}

type DiscoveryService struct {
	profiles ProfileStore
	now      func() time.Time
}

func NewDiscoveryService(profiles ProfileStore) *DiscoveryService {
	return &DiscoveryService{profiles: profiles, now: time.Now}
}

// FindNearby lists online profiles of the opposite gender that satisfy the
// requester's age and distance preferences, closest first.
// A requester without a profile or usable coordinates gets an empty list.
func (s *DiscoveryService) FindNearby(requesterUserID string) ([]NearbyProfile, error) {
	out := []NearbyProfile{}
	me, err := s.profiles.GetByUserID(requesterUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	lat, lng, ok := me.Coordinates()
	if !ok {
		return out, nil
	}
	candidates, err := s.profiles.ListCandidates(me.Gender.Opposite(), me.UserID)
	if err != nil {
		return nil, err
	}
	prefs := me.Prefs()
	radius := prefs.Resolve().DistanceKm
	today := s.now()
	for _, c := range candidates {
		if c.UserID == me.UserID || c.Gender != me.Gender.Opposite() || !c.Online || !c.Active {
			continue
		}
		cLat, cLng, ok := c.Coordinates()
		if !ok {
			continue
		}
		dist := geo.HaversineKm(lat, lng, cLat, cLng)
		age := geo.AgeYears(c.DateOfBirth, today)
		if !geo.MatchesPreferences(age, dist, prefs) {
			continue
		}
		out = append(out, NearbyProfile{
			Profile:    c,
			Age:        age,
			DistanceKm: dist,
			Proximity:  proximity.Describe(dist, radius),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > 0 {
		log.Printf("[discovery] user=%s candidates=%d nearby=%d", requesterUserID, len(candidates), len(out))
	}
	return out, nil
}
