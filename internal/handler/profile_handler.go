package handler

import (
	"net/http"

	"venus/internal/apperr"
	"venus/internal/middleware"
	"venus/internal/service"
	"venus/pkg/geo"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles  *service.ProfileService
	discovery *service.DiscoveryService
}

func NewProfileHandler(profiles *service.ProfileService, discovery *service.DiscoveryService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, discovery: discovery}
}

// Complete creates or replaces the caller's profile.
func (h *ProfileHandler) Complete(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profiles.Complete(middleware.GetUserID(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.profiles.Get(middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// Map lists nearby profiles. A caller without a profile or location gets an empty list.
func (h *ProfileHandler) Map(c *gin.Context) {
	list, err := h.discovery.FindNearby(middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"map_profiles": list})
}

func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	var req struct {
		Coordinates string `json:"coordinates" binding:"required"`
		Online      *bool  `json:"online"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	online := req.Online == nil || *req.Online
	p, err := h.profiles.UpdateLocation(middleware.GetUserID(c), req.Coordinates, online)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var req geo.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profiles.UpdatePreferences(middleware.GetUserID(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}
