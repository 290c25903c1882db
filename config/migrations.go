package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/martindev-ke/fieldops/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250715_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Inspection{}, &models.Outage{},
					&models.DisconnectionAccount{}, &models.RebillingRequest{}, &models.SupervisorRemark{})
			},
		},
		{
			ID: "20250822_add_prior_month_balance",
			Migrate: func(tx *gorm.DB) error {
				// Debt lists from billing started carrying last month's figure
				return tx.AutoMigrate(&models.DisconnectionAccount{})
			},
		},
	})
	return m.Migrate()
}
