package models

import "gorm.io/gorm"

type Photo struct {
	ID       string `gorm:"primaryKey;size:36" json:"photo_id"`
	UserID   string `gorm:"size:36;not null;index" json:"user_id"`
	PhotoURL string `gorm:"size:512;not null" json:"photo_url"`
	Verified bool   `gorm:"not null;default:false" json:"verified"`
	Audit
}

func (Photo) TableName() string { return "photos" }

func (p *Photo) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
