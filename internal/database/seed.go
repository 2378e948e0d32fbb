package database

import (
	"log"

	"venus/internal/domain"
	"venus/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPlans is the subscription catalogue inserted on first start. Amounts are in KES.
var DefaultPlans = []models.PaymentPlan{
	{Plan: domain.PlanMonthly, Amount: 500, Months: 1},
	{Plan: domain.PlanSemiAnnual, Amount: 2500, Months: 6},
	{Plan: domain.PlanAnnual, Amount: 4500, Months: 12},
	{Plan: domain.PlanVIP, Amount: 10000, Months: 12},
	{Plan: domain.PlanTest, Amount: 1, Months: 1},
}

// SeedPlans inserts missing plans; existing rows are left untouched.
func SeedPlans(db *gorm.DB) {
	for _, p := range DefaultPlans {
		plan := p
		plan.Audit = models.NewAudit("system")
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan"}},
			DoNothing: true,
		}).Create(&plan).Error
		if err != nil {
			log.Printf("[seed] plan %s: %v", p.Plan, err)
		}
	}
}
