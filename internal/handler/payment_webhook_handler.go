package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"venus/internal/apperr"
	"venus/internal/service"

	"github.com/gin-gonic/gin"
)

// Callback statuses. Daraja retries anything that is not a 200, so every outcome is a 200.
const (
	callbackOK      = "ok"
	callbackIgnored = "ignored"
	callbackError   = "error"
)

type PaymentWebhookHandler struct {
	svc *service.PaymentService
}

func NewPaymentWebhookHandler(svc *service.PaymentService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{svc: svc}
}

// Handle applies a Daraja STK callback to the payment it names.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[MPESA callback] ReadBody error: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": callbackError})
		return
	}
	log.Printf("[MPESA callback] raw body: %s", string(body))
	res, err := h.svc.ApplyCallback(c.Request.Context(), body)
	switch {
	case errors.Is(err, apperr.ErrFormat):
		log.Printf("[MPESA callback] rejected: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": callbackError})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"status": callbackIgnored})
	case err != nil:
		log.Printf("[MPESA callback] apply failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": callbackError})
	case !res.Applied:
		c.JSON(http.StatusOK, gin.H{"status": callbackIgnored})
	default:
		c.JSON(http.StatusOK, gin.H{"status": callbackOK})
	}
}
