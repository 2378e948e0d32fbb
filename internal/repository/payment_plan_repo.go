package repository

import (
	"venus/internal/models"

	"gorm.io/gorm"
)

type PaymentPlanRepository struct {
	db *gorm.DB
}

func NewPaymentPlanRepository(db *gorm.DB) *PaymentPlanRepository {
	return &PaymentPlanRepository{db: db}
}

func (r *PaymentPlanRepository) ListActive() ([]models.PaymentPlan, error) {
	var list []models.PaymentPlan
	err := r.db.Where("active = ?", true).Order("amount ASC").Find(&list).Error
	return list, err
}

func (r *PaymentPlanRepository) GetByID(id string) (*models.PaymentPlan, error) {
	var p models.PaymentPlan
	err := r.db.Where("id = ? AND active = ?", id, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
