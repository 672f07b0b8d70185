package persistence

import (
	"context"
	"testing"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/inventory"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func seedPendingOrder(t *testing.T, repo *GormOrderRepository, tenantID uuid.UUID) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(tenantID, uuid.New(), "USD")
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), "MUG", "Mug", decimal.NewFromInt(10), 1))
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestGormOrderRepository_StaleSaveConflicts(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	order := seedPendingOrder(t, repo, tenantID)

	first, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)

	require.NoError(t, first.Cancel("customer request"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.MarkPaid())
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusCancelled, reloaded.Status)
	assert.Equal(t, first.Version, reloaded.Version)
	assert.Nil(t, reloaded.PaidAt)
}

func TestGormOrderRepository_SequentialSavesOfSameCopy(t *testing.T) {
	repo := NewGormOrderRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	order := seedPendingOrder(t, repo, tenantID)

	require.NoError(t, order.MarkPaid())
	require.NoError(t, repo.Save(ctx, order))
	require.NoError(t, order.Ship())
	require.NoError(t, repo.Save(ctx, order))

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusShipped, reloaded.Status)
	assert.Equal(t, order.Version, reloaded.Version)
}

func TestGormProductRepository_EditAfterSaleConflicts(t *testing.T) {
	repo := NewGormProductRepository(setupTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, repo, tenantID, "SKU-1", 10)

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	_, err = repo.DecrementStock(ctx, tenantID, product.ID, 4)
	require.NoError(t, err)

	require.NoError(t, loaded.SetPricing(decimal.NewFromInt(12), nil))
	assert.ErrorIs(t, repo.Save(ctx, loaded), shared.ErrConcurrencyConflict)

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.Stock)
}

func TestGormPaymentRepository_OneCompletedPaymentPerOrder(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec(
		"CREATE UNIQUE INDEX idx_payments_completed_order ON payments (order_id) WHERE status = 'completed'",
	).Error)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	tenantID, orderID := uuid.New(), uuid.New()

	newPayment := func() *finance.Payment {
		p, err := finance.NewPayment(tenantID, orderID, decimal.NewFromInt(10), "USD", finance.PaymentMethodCard)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
		return p
	}
	first, second := newPayment(), newPayment()

	require.NoError(t, first.Complete("ch_1"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Complete("ch_2"))
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrAlreadyExists)

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentStatusPending, reloaded.Status)
}

// Adjustments and sales racing on one product must land exactly, and each
// movement must record the level its own update produced.
func TestGormTransactionScope_ConcurrentStockChanges(t *testing.T) {
	db := setupTestDB(t)
	products := NewGormProductRepository(db)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, products, tenantID, "SKU-1", 50)

	change := func(delta int) error {
		return scope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
			after, err := repos.Products().AdjustStock(ctx, tenantID, product.ID, delta)
			if err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(inventory.MovementInput{
				TenantID:    tenantID,
				ProductID:   product.ID,
				Type:        inventory.MovementTypeAdjustment,
				Quantity:    delta,
				StockBefore: after - delta,
				Reference:   "RACE",
			})
			if err != nil {
				return err
			}
			return repos.Movements().Create(ctx, movement)
		})
	}

	var g errgroup.Group
	for i := 0; i < 5; i++ {
		g.Go(func() error { return change(-3) })
		g.Go(func() error { return change(2) })
	}
	require.NoError(t, g.Wait())

	reloaded, err := products.FindByIDForTenant(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 45, reloaded.Stock)

	var movements []inventory.StockMovement
	require.NoError(t, db.Where("reference = ?", "RACE").Find(&movements).Error)
	require.Len(t, movements, 10)

	// the movements chain from the initial level to the final one
	levels := map[int]int{50: 1}
	for _, m := range movements {
		assert.Equal(t, m.StockBefore+m.Quantity, m.StockAfter)
		levels[m.StockAfter]++
		levels[m.StockBefore]--
	}
	levels[45]--
	for level, n := range levels {
		assert.Zero(t, n, "level %d", level)
	}
}
