package repository

import (
	"venus/internal/models"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(p *models.Photo) error {
	return r.db.Create(p).Error
}

func (r *PhotoRepository) ListByUserID(userID string) ([]models.Photo, error) {
	var list []models.Photo
	err := r.db.Where("user_id = ? AND active = ?", userID, true).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Deactivate soft-deletes a photo owned by userID.
func (r *PhotoRepository) Deactivate(id, userID string) error {
	res := r.db.Model(&models.Photo{}).Where("id = ? AND user_id = ? AND active = ?", id, userID, true).
		Updates(map[string]interface{}{"active": false, "updated_by": userID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
