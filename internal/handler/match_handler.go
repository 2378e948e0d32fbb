package handler

import (
	"net/http"

	"venus/internal/apperr"
	"venus/internal/middleware"
	"venus/internal/service"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	svc *service.MatchService
}

func NewMatchHandler(svc *service.MatchService) *MatchHandler {
	return &MatchHandler{svc: svc}
}

func (h *MatchHandler) Save(c *gin.Context) {
	var req service.MatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Save(middleware.GetUserID(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": m})
}

func (h *MatchHandler) List(c *gin.Context) {
	list, err := h.svc.List(middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": list})
}
