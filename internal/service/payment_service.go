package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"time"

	"venus/internal/apperr"
	"venus/internal/domain"
	"venus/internal/models"
	"venus/pkg/payment"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrPushInProgress    = errors.New("stk push in progress")
)

const callbackActor = "mpesa-callback"

// Notifier is told about settled payments. Failures are logged, never propagated.
type Notifier interface {
	NotifyPaymentSucceeded(ctx context.Context, p *models.Payment) error
}

// PushOutcome reports what happened when the STK push was attempted.
type PushOutcome struct {
	Sent              bool   `json:"sent"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`
	CustomerMessage   string `json:"customer_message,omitempty"`
	Error             string `json:"error,omitempty"`
}

// CallbackResult is the payment a callback resolved to. Applied is false
// when the payment was already terminal and nothing changed.
type CallbackResult struct {
	Payment *models.Payment
	Applied bool
}

type PaymentService struct {
	payments    PaymentStore
	plans       PlanStore
	gateway     payment.Gateway
	notifier    Notifier
	callbackURL string
	pushTimeout time.Duration
	now         func() time.Time
}

func NewPaymentService(payments PaymentStore, plans PlanStore, gateway payment.Gateway, notifier Notifier, callbackURL string, pushTimeout time.Duration) *PaymentService {
	if pushTimeout <= 0 || pushTimeout > 30*time.Second {
		pushTimeout = 30 * time.Second
	}
	return &PaymentService{
		payments:    payments,
		plans:       plans,
		gateway:     gateway,
		notifier:    notifier,
		callbackURL: callbackURL,
		pushTimeout: pushTimeout,
		now:         time.Now,
	}
}

func (s *PaymentService) ListPlans() ([]models.PaymentPlan, error) {
	return s.plans.ListActive()
}

// Create records a payment intent for planID in CREATED state.
func (s *PaymentService) Create(userID, planID string) (*models.Payment, error) {
	plan, err := s.plans.GetByID(planID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment plan not found")
	}
	if err != nil {
		return nil, err
	}
	if plan.Amount <= 0 {
		return nil, apperr.Validation("payment plan has no chargeable amount", nil)
	}
	now := s.now()
	p := &models.Payment{
		UserID:            userID,
		PlanID:            plan.ID,
		Amount:            plan.Amount,
		PaymentDate:       now,
		ValidUntil:        now.AddDate(0, plan.Months, 0),
		Status:            domain.PaymentCreated,
		TransactionStatus: domain.TransactionPending,
		Audit:             models.NewAudit(userID),
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// InitiatePush sends the STK prompt for a CREATED payment. A gateway failure
// is recorded on the payment and reported in the outcome, not returned as an error.
//
// The attempt is claimed under the row lock before the gateway is called, so
// only one prompt is in flight per payment. The acknowledgement is written
// under the lock too and only while the payment is still CREATED.
func (s *PaymentService) InitiatePush(ctx context.Context, p *models.Payment, phone string) (*models.Payment, *PushOutcome, error) {
	req := payment.PushRequest{
		Phone:       phone,
		Amount:      p.Amount,
		Reference:   p.ID,
		Description: s.describe(p),
		CallbackURL: s.callbackURL,
	}
	claimedAt := s.now().Truncate(time.Second)
	_, err := s.payments.UpdateByID(p.ID, func(cur *models.Payment) (bool, error) {
		if cur.Status != domain.PaymentCreated {
			return false, apperr.Validation("push already attempted for this payment", ErrInvalidTransition)
		}
		if cur.PushAttemptedAt != nil && claimedAt.Before(cur.PushAttemptedAt.Add(s.claimTTL())) {
			return false, apperr.Conflict("push already in progress for this payment", ErrPushInProgress)
		}
		cur.PushAttemptedAt = &claimedAt
		cur.TransactionRequest = mustJSON(req)
		cur.UpdatedBy = cur.UserID
		return true, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("payment not found")
	}
	if err != nil {
		return nil, nil, err
	}

	pushCtx, cancel := context.WithTimeout(ctx, s.pushTimeout)
	ack, err := s.gateway.SendPush(pushCtx, req)
	cancel()
	if err != nil {
		log.Printf("[MPESA] payment %s: %v", p.ID, apperr.Gateway("mpesa push failed", err))
		saved, uerr := s.payments.UpdateByID(p.ID, func(cur *models.Payment) (bool, error) {
			if cur.PushAttemptedAt == nil || !cur.PushAttemptedAt.Equal(claimedAt) {
				return false, nil
			}
			cur.PushAttemptedAt = nil
			cur.TransactionResponse = mustJSON(map[string]string{"error": err.Error()})
			return true, nil
		})
		if uerr != nil {
			return nil, nil, uerr
		}
		return saved, &PushOutcome{Sent: false, Error: err.Error()}, nil
	}

	checkoutID := ack.CorrelationID
	saved, err := s.payments.UpdateByID(p.ID, func(cur *models.Payment) (bool, error) {
		if cur.Status != domain.PaymentCreated {
			return false, nil
		}
		cur.CheckoutRequestID = &checkoutID
		if ack.MerchantRequestID != "" {
			ref := ack.MerchantRequestID
			cur.PaymentRef = &ref
		}
		if len(ack.Raw) > 0 && json.Valid(ack.Raw) {
			cur.TransactionResponse = datatypes.JSON(ack.Raw)
		} else {
			cur.TransactionResponse = mustJSON(ack)
		}
		cur.Status = domain.PaymentPushSent
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if saved.Status != domain.PaymentPushSent || saved.CheckoutRequestID == nil || *saved.CheckoutRequestID != checkoutID {
		log.Printf("[MPESA] payment %s moved to %s during push, checkout_request_id=%s not recorded", p.ID, saved.Status, checkoutID)
	} else {
		log.Printf("[MPESA] payment %s push sent checkout_request_id=%s", p.ID, checkoutID)
	}
	return saved, &PushOutcome{Sent: true, CheckoutRequestID: checkoutID, CustomerMessage: ack.CustomerMessage}, nil
}

// claimTTL is how long a push claim blocks another attempt. A claim older
// than this belongs to a request that died before recording its result.
func (s *PaymentService) claimTTL() time.Duration {
	return 2 * s.pushTimeout
}

// InitiateSTK creates a payment for planID and immediately pushes it to phone.
func (s *PaymentService) InitiateSTK(ctx context.Context, userID, planID, phone string) (*models.Payment, *PushOutcome, error) {
	msisdn, err := payment.NormalizeMSISDN(phone)
	if err != nil {
		return nil, nil, apperr.Validation(err.Error(), err)
	}
	p, err := s.Create(userID, planID)
	if err != nil {
		return nil, nil, err
	}
	return s.InitiatePush(ctx, p, msisdn)
}

// RetryPush re-sends the STK prompt for a payment whose earlier push failed.
func (s *PaymentService) RetryPush(ctx context.Context, paymentID, userID, phone string) (*models.Payment, *PushOutcome, error) {
	msisdn, err := payment.NormalizeMSISDN(phone)
	if err != nil {
		return nil, nil, apperr.Validation(err.Error(), err)
	}
	p, err := s.Get(paymentID, userID)
	if err != nil {
		return nil, nil, err
	}
	return s.InitiatePush(ctx, p, msisdn)
}

// UpdateStatus moves a payment owned by actorID forward to next.
func (s *PaymentService) UpdateStatus(paymentID string, next domain.PaymentStatus, actorID string) (*models.Payment, error) {
	p, err := s.payments.UpdateByID(paymentID, func(p *models.Payment) (bool, error) {
		if p.UserID != actorID {
			return false, apperr.Permission("payment belongs to another user")
		}
		if !p.Status.CanTransition(next) {
			return false, apperr.Validation("cannot move payment from "+string(p.Status)+" to "+string(next), ErrInvalidTransition)
		}
		p.Status = next
		switch next {
		case domain.PaymentSucceeded:
			p.TransactionStatus = domain.TransactionSuccess
			if p.DateCompleted == nil {
				t := s.now()
				p.DateCompleted = &t
			}
		case domain.PaymentFailed:
			p.TransactionStatus = "Failed"
		}
		p.UpdatedBy = actorID
		return true, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("payment not found")
	}
	return p, err
}

// Get returns an active payment owned by userID.
func (s *PaymentService) Get(paymentID, userID string) (*models.Payment, error) {
	p, err := s.payments.GetByID(paymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (p.UserID != userID || !p.Active)) {
		return nil, apperr.NotFound("payment not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) ListForUser(userID string) ([]models.Payment, error) {
	return s.payments.ListByUserID(userID)
}

// ApplyCallback settles the payment a Daraja STK callback refers to.
// A payment that is already SUCCEEDED or FAILED is returned unchanged.
func (s *PaymentService) ApplyCallback(ctx context.Context, raw []byte) (*CallbackResult, error) {
	cb, err := payment.ParseCallback(raw)
	if err != nil {
		return nil, apperr.Format("invalid callback payload", err)
	}
	receivedAt := s.now()
	applied := false
	p, err := s.payments.UpdateByCorrelationID(cb.CheckoutRequestID, func(p *models.Payment) (bool, error) {
		if p.Status.IsTerminal() {
			return false, nil
		}
		p.TransactionCallback = datatypes.JSON(raw)
		if cb.Succeeded() {
			p.Status = domain.PaymentSucceeded
			p.TransactionStatus = domain.TransactionSuccess
			if receipt := cb.ReceiptNumber(); receipt != "" {
				p.MpesaTransactionID = &receipt
			}
			if p.DateCompleted == nil {
				t := receivedAt
				p.DateCompleted = &t
			}
		} else {
			p.Status = domain.PaymentFailed
			p.TransactionStatus = cb.ResultDesc
			if p.TransactionStatus == "" {
				p.TransactionStatus = "Failed"
			}
		}
		p.UpdatedBy = callbackActor
		applied = true
		return true, nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[MPESA callback] no payment for checkout_request_id=%s result_code=%d", cb.CheckoutRequestID, cb.Code())
		return nil, apperr.NotFound("no payment for CheckoutRequestID " + cb.CheckoutRequestID)
	}
	if err != nil {
		return nil, err
	}
	if !applied {
		log.Printf("[MPESA callback] payment %s already %s, ignoring duplicate", p.ID, p.Status)
		return &CallbackResult{Payment: p}, nil
	}
	log.Printf("[MPESA callback] payment %s -> %s (%s)", p.ID, p.Status, p.TransactionStatus)
	if p.Status == domain.PaymentSucceeded {
		s.auditSettlement(p, cb)
	}
	if p.Status == domain.PaymentSucceeded && s.notifier != nil {
		if err := s.notifier.NotifyPaymentSucceeded(ctx, p); err != nil {
			log.Printf("[MPESA callback] notify payment %s: %v", p.ID, err)
		}
	}
	return &CallbackResult{Payment: p, Applied: true}, nil
}

// auditSettlement logs what the callback says was paid. A partial payment
// still settles the payment; the mismatch is left for reconciliation.
func (s *PaymentService) auditSettlement(p *models.Payment, cb *payment.STKCallback) {
	if paidAt, ok := cb.TransactionTime(); ok {
		log.Printf("[MPESA callback] payment %s receipt=%s paid_at=%s", p.ID, cb.ReceiptNumber(), paidAt.UTC().Format(time.RFC3339))
	}
	amount, ok := cb.Amount()
	if !ok {
		return
	}
	if paid := int64(math.Round(amount)); paid != p.Amount {
		log.Printf("[MPESA callback] payment %s amount mismatch: paid %d, expected %d", p.ID, paid, p.Amount)
	}
}

func (s *PaymentService) describe(p *models.Payment) string {
	if plan, err := s.plans.GetByID(p.PlanID); err == nil {
		return "Venus " + string(plan.Plan)
	}
	return "Venus"
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON(`{}`)
	}
	return datatypes.JSON(b)
}
