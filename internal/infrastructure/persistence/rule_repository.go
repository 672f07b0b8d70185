package persistence

import (
	"context"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRuleRepository implements automation.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

func (r *GormRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*automation.Rule, error) {
	var rule automation.Rule
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		First(&rule, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &rule, nil
}

func (r *GormRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]automation.Rule, error) {
	var rules []automation.Rule
	err := r.applyFilter(r.db.WithContext(ctx).Model(&automation.Rule{}).Scopes(TenantScope(tenantID)), filter).
		Scopes(OrderBy(filter, RuleSortFields, "created_at"), Paginate(filter)).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *GormRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&automation.Rule{}).Scopes(TenantScope(tenantID)), filter).
		Count(&count).Error
	return count, err
}

func (r *GormRuleRepository) FindEnabledByTrigger(ctx context.Context, tenantID uuid.UUID, trigger automation.Trigger) ([]automation.Rule, error) {
	var rules []automation.Rule
	if err := r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
		Where(`"trigger" = ? AND enabled = ?`, trigger, true).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// RecordRun bumps the run counter in place so concurrent firings are not lost
func (r *GormRuleRepository) RecordRun(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	return requireAffected(r.db.WithContext(ctx).Model(&automation.Rule{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]any{
			"run_count":   gorm.Expr("run_count + 1"),
			"last_run_at": at,
		}))
}

func (r *GormRuleRepository) Save(ctx context.Context, rule *automation.Rule) error {
	return saveVersioned(r.db.WithContext(ctx), rule)
}

func (r *GormRuleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&automation.Rule{}, "tenant_id = ? AND id = ?", tenantID, id))
}

func (r *GormRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "trigger":
			query = query.Where(`"trigger" = ?`, value)
		case "enabled":
			query = query.Where("enabled = ?", value)
		}
	}
	return query
}

var _ automation.RuleRepository = (*GormRuleRepository)(nil)
