package automation

import (
	"context"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleRepository defines the interface for automation rule persistence
type RuleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Rule, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Rule, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindEnabledByTrigger(ctx context.Context, tenantID uuid.UUID, trigger Trigger) ([]Rule, error)
	// RecordRun increments run_count atomically so concurrent events do not lose updates
	RecordRun(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error
	Save(ctx context.Context, rule *Rule) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
