package handler

import (
	"net/http"

	"venus/internal/apperr"
	"venus/internal/domain"
	"venus/internal/middleware"
	"venus/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// ListPlans is public so the paywall can render before login.
func (h *PaymentHandler) ListPlans(c *gin.Context) {
	plans, err := h.svc.ListPlans()
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req struct {
		PlanID string `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(middleware.GetUserID(c), req.PlanID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": p})
}

func (h *PaymentHandler) List(c *gin.Context) {
	list, err := h.svc.ListForUser(middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next, err := domain.ParsePaymentStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.UpdateStatus(c.Param("id"), next, middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// InitiateSTK creates a payment and sends the M-Pesa prompt. A failed push still
// returns 201 with the payment left in CREATED and the reason under push.error.
func (h *PaymentHandler) InitiateSTK(c *gin.Context) {
	var req struct {
		PlanID      string `json:"plan_id" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, outcome, err := h.svc.InitiateSTK(c.Request.Context(), middleware.GetUserID(c), req.PlanID, req.PhoneNumber)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": p, "push": outcome})
}

// RetryPush re-sends the prompt for a payment still in CREATED. Returns 409
// while another push for the same payment is in flight.
func (h *PaymentHandler) RetryPush(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, outcome, err := h.svc.RetryPush(c.Request.Context(), c.Param("id"), middleware.GetUserID(c), req.PhoneNumber)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p, "push": outcome})
}
