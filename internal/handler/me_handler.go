package handler

import (
	"net/http"

	"venus/internal/apperr"
	"venus/internal/middleware"
	"venus/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	auth *service.AuthService
}

func NewMeHandler(auth *service.AuthService) *MeHandler {
	return &MeHandler{auth: auth}
}

func (h *MeHandler) Get(c *gin.Context) {
	u, err := h.auth.GetUser(middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// RegisterFCMToken saves the FCM token for push notifications.
func (h *MeHandler) RegisterFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.UpdateFCMToken(middleware.GetUserID(c), req.Token); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
