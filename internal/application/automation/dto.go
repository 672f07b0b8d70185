package automation

import (
	"time"

	appshared "github.com/anu-devcode/deploy-test-sub002/internal/application/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleRequest creates or replaces an automation rule
type RuleRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Trigger      string           `json:"trigger" binding:"required,oneof=order.placed stock.low payment.completed review.created"`
	Threshold    *decimal.Decimal `json:"threshold"`
	Action       string           `json:"action" binding:"required,oneof=log queue"`
	ActionTarget string           `json:"action_target" binding:"max=100"`
	CreatedBy    *uuid.UUID       `json:"-"`
}

func (r RuleRequest) spec() automation.RuleSpec {
	return automation.RuleSpec{
		Name:         r.Name,
		Trigger:      automation.Trigger(r.Trigger),
		Threshold:    r.Threshold,
		Action:       automation.Action(r.Action),
		ActionTarget: r.ActionTarget,
	}
}

// RuleListFilter represents filter options for the rule list
type RuleListFilter struct {
	appshared.ListQuery
	Trigger string `form:"trigger" binding:"omitempty,oneof=order.placed stock.low payment.completed review.created"`
	Enabled *bool  `form:"enabled"`
}

// RuleResponse represents an automation rule in API responses
type RuleResponse struct {
	ID           uuid.UUID        `json:"id"`
	TenantID     uuid.UUID        `json:"tenant_id"`
	Name         string           `json:"name"`
	Trigger      string           `json:"trigger"`
	Threshold    *decimal.Decimal `json:"threshold,omitempty"`
	Action       string           `json:"action"`
	ActionTarget string           `json:"action_target,omitempty"`
	Enabled      bool             `json:"enabled"`
	RunCount     int64            `json:"run_count"`
	LastRunAt    *time.Time       `json:"last_run_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func ToRuleResponse(r *automation.Rule) RuleResponse {
	return RuleResponse{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Name:         r.Name,
		Trigger:      string(r.Trigger),
		Threshold:    r.Threshold,
		Action:       string(r.Action),
		ActionTarget: r.ActionTarget,
		Enabled:      r.Enabled,
		RunCount:     r.RunCount,
		LastRunAt:    r.LastRunAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToRuleResponses(rules []automation.Rule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses
}
