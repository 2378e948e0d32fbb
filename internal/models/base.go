package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit is embedded by every table: soft-delete flag, free-form meta, and who touched the row.
type Audit struct {
	Active    bool           `gorm:"not null;default:true;index" json:"active"`
	Meta      datatypes.JSON `json:"meta,omitempty"`
	CreatedBy string         `gorm:"size:36" json:"created_by"`
	UpdatedBy string         `gorm:"size:36" json:"updated_by"`
	CreatedAt time.Time      `json:"date_created"`
	UpdatedAt time.Time      `json:"date_updated"`
}

// NewAudit returns an active Audit attributed to actor.
func NewAudit(actor string) Audit {
	return Audit{Active: true, CreatedBy: actor, UpdatedBy: actor}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
