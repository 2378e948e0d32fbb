package models

import (
	"time"

	"gorm.io/gorm"
)

// Match links two users and the chat thread between them.
type Match struct {
	ID              string     `gorm:"primaryKey;size:36" json:"match_id"`
	MyID            string     `gorm:"size:36;not null;uniqueIndex:idx_match_pair" json:"my_id"`
	PartnerID       string     `gorm:"size:36;not null;uniqueIndex:idx_match_pair;index" json:"partner_id"`
	ThreadID        string     `gorm:"size:36;not null;uniqueIndex:idx_match_pair" json:"thread_id"`
	LastMessage     *string    `gorm:"type:text" json:"last_message"`
	LastMessageDate *time.Time `json:"last_message_date"`
	SentBy          *string    `gorm:"size:36" json:"sent_by"`
	Audit
}

func (Match) TableName() string { return "matches" }

func (m *Match) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
