package service

import (
	"errors"
	"log"
	"time"

	"venus/internal/apperr"
	"venus/internal/domain"
	"venus/internal/models"
	"venus/internal/validator"
	"venus/pkg/geo"
	"venus/pkg/payment"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// LocationBroadcaster is told when a profile moves. *ws.MapHub implements it.
type LocationBroadcaster interface {
	UpdateLocation(userID string, gender domain.Gender, lat, lng float64, online bool)
}

// ProfileInput is the body of a profile completion request.
type ProfileInput struct {
	PhoneNumber string           `json:"phone_number" validate:"required,msisdn"`
	Gender      string           `json:"gender" validate:"required,gender"`
	DateOfBirth string           `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Bio         string           `json:"bio" validate:"max=1000"`
	Coordinates *string          `json:"coordinates" validate:"omitempty,coordinates"`
	Online      *bool            `json:"online"`
	Preferences *geo.Preferences `json:"preferences"`
}

type ProfileService struct {
	profiles ProfileStore
	hub      LocationBroadcaster
	now      func() time.Time
}

func NewProfileService(profiles ProfileStore, hub LocationBroadcaster) *ProfileService {
	return &ProfileService{profiles: profiles, hub: hub, now: time.Now}
}

// Complete creates or replaces the caller's profile.
func (s *ProfileService) Complete(userID string, in ProfileInput) (*models.Profile, error) {
	if err := validator.Struct(in); err != nil {
		return nil, apperr.Validation(err.Error(), err)
	}
	gender, _ := domain.ParseGender(in.Gender)
	phone, _ := payment.NormalizeMSISDN(in.PhoneNumber)
	dob, _ := time.Parse(dateLayout, in.DateOfBirth)
	if geo.AgeYears(dob, s.now()) < geo.DefaultMinAge {
		return nil, apperr.Validation("you must be at least 18 years old", nil)
	}
	var prefs geo.Preferences
	if in.Preferences != nil {
		if err := in.Preferences.Validate(); err != nil {
			return nil, apperr.Validation(err.Error(), err)
		}
		prefs = *in.Preferences
	}
	taken, err := s.profiles.PhoneTaken(phone, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("phone number already registered", nil)
	}
	p := &models.Profile{
		UserID:             userID,
		PhoneNumber:        phone,
		Gender:             gender,
		DateOfBirth:        dob,
		Bio:                in.Bio,
		Online:             in.Online == nil || *in.Online,
		CurrentCoordinates: in.Coordinates,
		Preferences:        datatypes.NewJSONType(prefs),
		Audit:              models.NewAudit(userID),
	}
	saved, err := s.profiles.Upsert(p)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Conflict("phone number already registered", err)
	}
	if err != nil {
		return nil, err
	}
	s.broadcast(saved)
	return saved, nil
}

func (s *ProfileService) Get(userID string) (*models.Profile, error) {
	p, err := s.profiles.GetByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("profile not found")
	}
	return p, err
}

// UpdateLocation stores "lat,lng" on the caller's profile and fans it out to map viewers.
func (s *ProfileService) UpdateLocation(userID, coordinates string, online bool) (*models.Profile, error) {
	lat, lng, err := geo.ParseCoordinates(coordinates)
	if err != nil {
		return nil, apperr.Format(err.Error(), err)
	}
	normalized := geo.FormatCoordinates(lat, lng)
	if err := s.profiles.UpdateLocation(userID, normalized, online); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("complete your profile first")
		}
		return nil, err
	}
	p, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	s.broadcast(p)
	return p, nil
}

func (s *ProfileService) UpdatePreferences(userID string, prefs geo.Preferences) (*models.Profile, error) {
	if err := prefs.Validate(); err != nil {
		return nil, apperr.Validation(err.Error(), err)
	}
	if err := s.profiles.UpdatePreferences(userID, prefs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("complete your profile first")
		}
		return nil, err
	}
	return s.Get(userID)
}

func (s *ProfileService) broadcast(p *models.Profile) {
	if s.hub == nil {
		return
	}
	lat, lng, ok := p.Coordinates()
	if !ok {
		return
	}
	s.hub.UpdateLocation(p.UserID, p.Gender, lat, lng, p.Online)
	log.Printf("[profile] user=%s location broadcast online=%v", p.UserID, p.Online)
}
