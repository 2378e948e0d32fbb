package repository

import (
	"venus/internal/domain"
	"venus/internal/models"
	"venus/pkg/geo"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert creates or replaces the profile for p.UserID in one statement.
// A nil CurrentCoordinates keeps the stored location.
func (r *ProfileRepository) Upsert(p *models.Profile) (*models.Profile, error) {
	columns := []string{
		"phone_number", "gender", "date_of_birth", "bio", "online",
		"preferences", "active", "updated_by", "updated_at",
	}
	if p.CurrentCoordinates != nil {
		columns = append(columns, "current_coordinates")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(p).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(p.UserID)
}

func (r *ProfileRepository) GetByUserID(userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("user_id = ? AND active = ?", userID, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PhoneTaken reports whether phone belongs to a profile other than excludeUserID's.
func (r *ProfileRepository) PhoneTaken(phone, excludeUserID string) (bool, error) {
	var n int64
	err := r.db.Model(&models.Profile{}).Where("phone_number = ? AND user_id <> ?", phone, excludeUserID).Count(&n).Error
	return n > 0, err
}

// ListCandidates returns active online profiles of the given gender, excluding one user.
func (r *ProfileRepository) ListCandidates(gender domain.Gender, excludeUserID string) ([]models.Profile, error) {
	var list []models.Profile
	err := r.db.
		Where("gender = ? AND online = ? AND active = ? AND user_id <> ?", gender, true, true, excludeUserID).
		Where("current_coordinates IS NOT NULL AND current_coordinates <> ''").
		Find(&list).Error
	return list, err
}

// UpdateLocation sets coordinates and online flag; returns gorm.ErrRecordNotFound when the user has no profile.
func (r *ProfileRepository) UpdateLocation(userID, coordinates string, online bool) error {
	res := r.db.Model(&models.Profile{}).Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{
			"current_coordinates": coordinates,
			"online":              online,
			"updated_by":          userID,
		})
	if res.Error != nil {
		return res.Error
	}
	return r.requireRow(res, userID)
}

func (r *ProfileRepository) UpdatePreferences(userID string, prefs geo.Preferences) error {
	res := r.db.Model(&models.Profile{}).Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{
			"preferences": datatypes.NewJSONType(prefs),
			"updated_by":  userID,
		})
	if res.Error != nil {
		return res.Error
	}
	return r.requireRow(res, userID)
}

// requireRow maps "no rows affected" to gorm.ErrRecordNotFound, unless the
// profile exists and the update simply changed nothing (MySQL counts changed rows).
func (r *ProfileRepository) requireRow(res *gorm.DB, userID string) error {
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := r.db.Model(&models.Profile{}).Where("user_id = ? AND active = ?", userID, true).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
