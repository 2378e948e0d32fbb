package service

import (
	"context"
	"encoding/json"
	"fmt"

	"venus/internal/models"
)

const NotificationPaymentSucceeded = "PAYMENT_SUCCEEDED"

// Pusher delivers a notification to a device. *FCMService implements it.
type Pusher interface {
	Push(ctx context.Context, token, notifType, title, body string, data map[string]interface{}) error
}

type NotificationService struct {
	repo   NotificationStore
	users  UserStore
	pusher Pusher
}

func NewNotificationService(repo NotificationStore, users UserStore, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, users: users, pusher: pusher}
}

// Notify persists the notification and pushes it to the user's registered device.
func (s *NotificationService) Notify(ctx context.Context, userID, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	return s.push(ctx, userID, notifType, title, body, data)
}

func (s *NotificationService) push(ctx context.Context, userID, notifType, title, body string, data map[string]interface{}) error {
	if s.pusher == nil || s.users == nil {
		return nil
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if u.FCMToken == "" {
		return nil
	}
	return s.pusher.Push(ctx, u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) NotifyPaymentSucceeded(ctx context.Context, p *models.Payment) error {
	receipt := ""
	if p.MpesaTransactionID != nil {
		receipt = *p.MpesaTransactionID
	}
	body := fmt.Sprintf("We received KES %d. Your subscription is active until %s.", p.Amount, p.ValidUntil.Format("2 Jan 2006"))
	return s.Notify(ctx, p.UserID, NotificationPaymentSucceeded, "Payment received", body, map[string]interface{}{
		"payment_id":  p.ID,
		"amount":      p.Amount,
		"receipt":     receipt,
		"valid_until": p.ValidUntil.Format("2006-01-02"),
	})
}
