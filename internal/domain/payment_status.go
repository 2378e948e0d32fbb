package domain

import (
	"fmt"
	"strings"
)

// PaymentStatus is the normalized lifecycle state of a payment.
//
//	CREATED -> PUSH_SENT -> SUCCEEDED | FAILED
//
// A payment may also settle straight from CREATED when the provider
// calls back before the push acknowledgement is stored.
type PaymentStatus string

const (
	PaymentCreated   PaymentStatus = "CREATED"
	PaymentPushSent  PaymentStatus = "PUSH_SENT"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Provider vocabulary stored in transaction_status.
const (
	TransactionSuccess = "Success"
	TransactionPending = "Pending"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); p {
	case PaymentCreated, PaymentPushSent, PaymentSucceeded, PaymentFailed:
		return p, nil
	}
	return "", fmt.Errorf("%w: payment status %q", ErrUnknownValue, s)
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentSucceeded || s == PaymentFailed
}

func (s PaymentStatus) rank() int {
	switch s {
	case PaymentCreated:
		return 0
	case PaymentPushSent:
		return 1
	case PaymentSucceeded, PaymentFailed:
		return 2
	}
	return -1
}

// CanTransition reports whether moving from s to next goes strictly forward.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	if s.IsTerminal() || s.rank() < 0 || next.rank() < 0 {
		return false
	}
	return next.rank() > s.rank()
}
