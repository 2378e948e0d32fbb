package repository

import (
	"venus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) ListByUserID(userID string) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("user_id = ? AND active = ?", userID, true).Order("created_at DESC").Find(&list).Error
	return list, err
}

// UpdateByID locks the payment with the given ID for the duration of fn.
func (r *PaymentRepository) UpdateByID(id string, fn func(p *models.Payment) (bool, error)) (*models.Payment, error) {
	return r.updateLocked("id = ?", id, fn)
}

// UpdateByCorrelationID locks the payment matching checkoutRequestID for the duration of fn.
func (r *PaymentRepository) UpdateByCorrelationID(checkoutRequestID string, fn func(p *models.Payment) (bool, error)) (*models.Payment, error) {
	return r.updateLocked("checkout_request_id = ?", checkoutRequestID, fn)
}

// updateLocked runs a SELECT ... FOR UPDATE read-modify-write. fn reports
// whether it changed the row; only then is it saved. An error from fn rolls back.
func (r *PaymentRepository) updateLocked(query string, arg interface{}, fn func(p *models.Payment) (bool, error)) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(query, arg).First(&p).Error
		if err != nil {
			return err
		}
		changed, err := fn(&p)
		if err != nil || !changed {
			return err
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
