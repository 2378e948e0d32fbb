package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"venus/internal/apperr"
	"venus/internal/models"
	"venus/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoService struct {
	photos   PhotoStore
	uploader storage.Uploader
	folder   string
	maxBytes int64
}

func NewPhotoService(photos PhotoStore, uploader storage.Uploader, folder string, maxSizeMB int64) *PhotoService {
	return &PhotoService{photos: photos, uploader: uploader, folder: folder, maxBytes: maxSizeMB << 20}
}

// Upload validates and stores an image, then records it against the user.
func (s *PhotoService) Upload(ctx context.Context, userID, filename string, size int64, body io.Reader) (*models.Photo, error) {
	ext, contentType, err := storage.ValidateImage(filename, size, s.maxBytes)
	if err != nil {
		return nil, apperr.Format(err.Error(), err)
	}
	name := "img_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	url, err := s.uploader.Upload(ctx, body, storage.ObjectKey(s.folder, userID, name, ext), contentType)
	if err != nil {
		return nil, apperr.Gateway("photo upload failed", err)
	}
	p := &models.Photo{UserID: userID, PhotoURL: url, Audit: models.NewAudit(userID)}
	if err := s.photos.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PhotoService) List(userID string) ([]models.Photo, error) {
	return s.photos.ListByUserID(userID)
}

func (s *PhotoService) Delete(photoID, userID string) error {
	err := s.photos.Deactivate(photoID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("photo not found")
	}
	return err
}
