package database

import (
	_ "embed"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/01_schema.up.sql
var schemaUp string

// Migrate applies the embedded schema. Statements are idempotent so the
// migration can run on every start.
func Migrate(db *sqlx.DB) error {
	log.Println("🔄 Running database migrations...")

	if _, err := db.Exec(schemaUp); err != nil {
		return fmt.Errorf("apply schema migration: %w", err)
	}

	log.Println("✅ Migrations completed")
	return nil
}
