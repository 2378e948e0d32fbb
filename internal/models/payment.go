package models

import (
	"time"

	"venus/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment is a subscription purchase and its M-Pesa transaction trail.
type Payment struct {
	ID                  string               `gorm:"primaryKey;size:36" json:"payment_id"`
	UserID              string               `gorm:"size:36;not null;index" json:"user_id"`
	PlanID              string               `gorm:"size:36;not null;index" json:"plan_id"`
	Amount              int64                `gorm:"not null" json:"amount"`
	PaymentDate         time.Time            `gorm:"not null" json:"payment_date"`
	ValidUntil          time.Time            `gorm:"not null" json:"valid_until"`
	PaymentRef          *string              `gorm:"size:64" json:"payment_ref"`
	CheckoutRequestID   *string              `gorm:"uniqueIndex;size:128" json:"checkout_request_id"`
	MpesaTransactionID  *string              `gorm:"size:64" json:"mpesa_transaction_id"`
	TransactionRequest  datatypes.JSON       `json:"transaction_request,omitempty"`
	TransactionResponse datatypes.JSON       `json:"transaction_response,omitempty"`
	TransactionCallback datatypes.JSON       `json:"transaction_callback,omitempty"`
	TransactionStatus   string               `gorm:"size:255" json:"transaction_status"`
	Status              domain.PaymentStatus `gorm:"size:20;not null;index" json:"status"`
	DateCompleted       *time.Time           `json:"date_completed"`
	PushAttemptedAt     *time.Time           `json:"push_attempted_at,omitempty"`
	Audit
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
