// Package testdb opens throwaway in-memory databases for tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/isvialnva/excel-processor/internal/appcontext"
	"github.com/isvialnva/excel-processor/internal/config"
)

// Open returns a migrated in-memory database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Context returns an appcontext backed by an in-memory database, a no-op
// logger, and a temp media root.
func Context(t *testing.T) *appcontext.Context {
	t.Helper()
	return &appcontext.Context{
		DB:        Open(t),
		Logger:    zap.NewNop(),
		MediaRoot: t.TempDir(),
	}
}
