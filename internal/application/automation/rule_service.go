package automation

import (
	"context"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/google/uuid"
)

// RuleService manages tenant automation rules
type RuleService struct {
	ruleRepo automation.RuleRepository
}

func NewRuleService(ruleRepo automation.RuleRepository) *RuleService {
	return &RuleService{ruleRepo: ruleRepo}
}

func (s *RuleService) Create(ctx context.Context, tenantID uuid.UUID, req RuleRequest) (*RuleResponse, error) {
	rule, err := automation.NewRule(tenantID, req.spec())
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		rule.SetCreatedBy(*req.CreatedBy)
	}
	return s.save(ctx, rule)
}

func (s *RuleService) GetByID(ctx context.Context, tenantID, ruleID uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

func (s *RuleService) List(ctx context.Context, tenantID uuid.UUID, filter RuleListFilter) ([]RuleResponse, int64, error) {
	domainFilter := filter.ToFilter()
	if filter.Trigger != "" {
		domainFilter.Filters["trigger"] = filter.Trigger
	}
	if filter.Enabled != nil {
		domainFilter.Filters["enabled"] = *filter.Enabled
	}

	rules, err := s.ruleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ruleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRuleResponses(rules), total, nil
}

// Update replaces the editable attributes; run statistics are kept
func (s *RuleService) Update(ctx context.Context, tenantID, ruleID uuid.UUID, req RuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	if err := rule.Update(req.spec()); err != nil {
		return nil, err
	}
	return s.save(ctx, rule)
}

func (s *RuleService) Delete(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	if _, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID); err != nil {
		return err
	}
	return s.ruleRepo.DeleteForTenant(ctx, tenantID, ruleID)
}

func (s *RuleService) Enable(ctx context.Context, tenantID, ruleID uuid.UUID) (*RuleResponse, error) {
	return s.toggle(ctx, tenantID, ruleID, (*automation.Rule).Enable)
}

func (s *RuleService) Disable(ctx context.Context, tenantID, ruleID uuid.UUID) (*RuleResponse, error) {
	return s.toggle(ctx, tenantID, ruleID, (*automation.Rule).Disable)
}

func (s *RuleService) toggle(ctx context.Context, tenantID, ruleID uuid.UUID, apply func(*automation.Rule)) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	apply(rule)
	return s.save(ctx, rule)
}

func (s *RuleService) save(ctx context.Context, rule *automation.Rule) (*RuleResponse, error) {
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}
