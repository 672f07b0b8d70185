package persistence

import (
	"testing"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/identity"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/partner"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with every table migrated.
// A single connection keeps the in-memory database alive across calls.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&identity.Tenant{},
		&identity.User{},
		&partner.Customer{},
		&partner.Warehouse{},
		&catalog.Product{},
		&inventory.StockMovement{},
		&trade.Cart{},
		&trade.CartItem{},
		&trade.Order{},
		&trade.OrderItem{},
		&finance.Payment{},
		&review.Review{},
		&automation.Rule{},
	))
	return db
}
