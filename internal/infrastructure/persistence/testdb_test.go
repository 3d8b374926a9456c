package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a private in-memory database with the application schema.
// A single connection keeps every statement on the same memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// seedProduct stores a product created at the given offset from a fixed base,
// so created_at ordering is deterministic
func seedProduct(t *testing.T, repo *GormProductRepository, name, price string, stock int, offset time.Duration) *catalog.Product {
	t.Helper()

	p, err := catalog.NewProduct(name, decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p.CreatedAt = base.Add(offset)
	p.UpdatedAt = p.CreatedAt
	require.NoError(t, repo.Save(context.Background(), p))
	return p
}
