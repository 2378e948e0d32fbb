package repository

import (
	"venus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert inserts the match or reactivates the existing (my_id, partner_id, thread_id) row,
// refreshing its last-message fields when m carries a message.
func (r *MatchRepository) Upsert(m *models.Match) (*models.Match, error) {
	cols := []string{"active", "updated_by", "updated_at"}
	if m.LastMessage != nil {
		cols = append(cols, "last_message", "last_message_date", "sent_by")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "my_id"}, {Name: "partner_id"}, {Name: "thread_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}
	var out models.Match
	err = r.db.Where("my_id = ? AND partner_id = ? AND thread_id = ?", m.MyID, m.PartnerID, m.ThreadID).First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListForUser returns matches where the user is on either side, newest message first.
func (r *MatchRepository) ListForUser(userID string) ([]models.Match, error) {
	var list []models.Match
	err := r.db.Where("(my_id = ? OR partner_id = ?) AND active = ?", userID, userID, true).
		Order("last_message_date DESC").Find(&list).Error
	return list, err
}
