package store

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: interview responses, append-only
		{
			ID: "001_responses",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&responseRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("responses")
			},
		},

		// Migration 002: one profile per session (unique session_id)
		{
			ID: "002_profiles",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&profileRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("profiles")
			},
		},
	})
	return m.Migrate()
}
