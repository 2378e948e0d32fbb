package handler

import (
	"net/http"

	"venus/internal/apperr"
	"venus/internal/middleware"
	"venus/internal/service"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	svc *service.PhotoService
}

func NewPhotoHandler(svc *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{svc: svc}
}

// Upload stores a multipart "file" image and records it on the caller's profile.
func (h *PhotoHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	photo, err := h.svc.Upload(c.Request.Context(), middleware.GetUserID(c), file.Filename, file.Size, f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}

func (h *PhotoHandler) List(c *gin.Context) {
	list, err := h.svc.List(middleware.GetUserID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": list})
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.GetUserID(c)); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
