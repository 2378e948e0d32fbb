package models

import (
	"time"

	"venus/internal/domain"
	"venus/pkg/geo"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile holds the dating details of a user. One per user.
type Profile struct {
	ID                 string                              `gorm:"primaryKey;size:36" json:"profile_id"`
	UserID             string                              `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	PhoneNumber        string                              `gorm:"uniqueIndex;size:20;not null" json:"phone_number"`
	Gender             domain.Gender                       `gorm:"size:10;not null;index" json:"gender"`
	DateOfBirth        time.Time                           `gorm:"type:date;not null" json:"date_of_birth"`
	Bio                string                              `gorm:"type:text" json:"bio"`
	Online             bool                                `gorm:"not null;default:false;index" json:"online"`
	CurrentCoordinates *string                             `gorm:"size:64" json:"current_coordinates"`
	Preferences        datatypes.JSONType[geo.Preferences] `json:"preferences"`
	Audit
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Coordinates parses CurrentCoordinates; ok is false when absent or malformed.
func (p *Profile) Coordinates() (lat, lng float64, ok bool) {
	if p.CurrentCoordinates == nil || *p.CurrentCoordinates == "" {
		return 0, 0, false
	}
	lat, lng, err := geo.ParseCoordinates(*p.CurrentCoordinates)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

func (p *Profile) Prefs() geo.Preferences {
	return p.Preferences.Data()
}
