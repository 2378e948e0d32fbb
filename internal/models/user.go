package models

import "gorm.io/gorm"

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"user_id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	PasswordHash string `gorm:"size:255" json:"-"`
	AvatarURL    string `gorm:"size:512" json:"avatar_url"`
	FCMToken     string `gorm:"size:512" json:"-"`
	Audit
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
