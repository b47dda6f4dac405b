package testhelpers

import (
	"fmt"
	"testing"

	"brainrank/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	openSQLite    = func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), &gorm.Config{}) }
	migrateSchema = func(db *gorm.DB) error {
		return db.AutoMigrate(
			&models.User{},
			&models.Game{},
			&models.Score{},
			&models.UserStats{},
			&models.Achievement{},
			&models.Friendship{},
			&models.PasswordResetToken{},
		)
	}
	dropScoreTableFn = func(db *gorm.DB) error { return db.Migrator().DropTable(&models.Score{}) }
)

// SetupTestDB creates an isolated in-memory SQLite database for tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := openSQLite(dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	if err := migrateSchema(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return db
}

// DropScoreTable removes the scores table to force repository errors.
func DropScoreTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := dropScoreTableFn(db); err != nil {
		panic(fmt.Sprintf("failed to drop score table: %v", err))
	}
}
