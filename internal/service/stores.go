package service

import (
	"venus/internal/domain"
	"venus/internal/models"
	"venus/pkg/geo"
)

// Storage ports; implemented by the gorm repositories.

type UserStore interface {
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateFCMToken(userID, token string) error
}

type ProfileStore interface {
	Upsert(p *models.Profile) (*models.Profile, error)
	GetByUserID(userID string) (*models.Profile, error)
	PhoneTaken(phone, excludeUserID string) (bool, error)
	ListCandidates(gender domain.Gender, excludeUserID string) ([]models.Profile, error)
	UpdateLocation(userID, coordinates string, online bool) error
	UpdatePreferences(userID string, prefs geo.Preferences) error
}

type PlanStore interface {
	ListActive() ([]models.PaymentPlan, error)
	GetByID(id string) (*models.PaymentPlan, error)
}

type PaymentStore interface {
	Create(p *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	ListByUserID(userID string) ([]models.Payment, error)
	UpdateByID(id string, fn func(p *models.Payment) (bool, error)) (*models.Payment, error)
	UpdateByCorrelationID(checkoutRequestID string, fn func(p *models.Payment) (bool, error)) (*models.Payment, error)
}

type PhotoStore interface {
	Create(p *models.Photo) error
	ListByUserID(userID string) ([]models.Photo, error)
	Deactivate(id, userID string) error
}

type MatchStore interface {
	Upsert(m *models.Match) (*models.Match, error)
	ListForUser(userID string) ([]models.Match, error)
}

type NotificationStore interface {
	Create(n *models.Notification) error
}
