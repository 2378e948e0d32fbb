package models

import (
	"venus/internal/domain"

	"gorm.io/gorm"
)

type PaymentPlan struct {
	ID     string          `gorm:"primaryKey;size:36" json:"plan_id"`
	Plan   domain.PlanKind `gorm:"uniqueIndex;size:20;not null" json:"plan"`
	Amount int64           `gorm:"not null" json:"amount"`
	Months int             `gorm:"not null" json:"months"`
	Audit
}

func (PaymentPlan) TableName() string { return "payment_plans" }

func (p *PaymentPlan) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
