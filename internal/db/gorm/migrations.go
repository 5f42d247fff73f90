package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: users table
		{
			ID: "001_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},

		// Migration 002: notes and per-note analysis results
		{
			ID: "002_notes",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&Note{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&NoteAnalysis{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("notes", "note_analyses")
			},
		},

		// Migration 003: learning todos
		{
			ID: "003_learning_todos",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&LearningTodo{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("learning_todos")
			},
		},
	})

	return m.Migrate()
}
