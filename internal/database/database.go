package database

import (
	"os"
	"path/filepath"

	"folio-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens the portfolio store. A non-empty DSN selects Postgres
// (PreferSimpleProtocol disables prepared-statement caching to stay
// compatible with connection poolers); otherwise a single-file sqlite
// database at path is created, parent directories included.
func Open(dsn, path string) (*gorm.DB, error) {
	if dsn != "" {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// AutoMigrate creates or evolves the schema for all portfolio models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Holding{},
		&models.Snapshot{},
		&models.UploadLog{},
		&models.WalletAddress{},
	)
}
