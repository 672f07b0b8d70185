package automation

import (
	"regexp"
	"strings"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trigger names the business event a rule listens to
type Trigger string

const (
	TriggerOrderPlaced      Trigger = "order.placed"
	TriggerStockLow         Trigger = "stock.low"
	TriggerPaymentCompleted Trigger = "payment.completed"
	TriggerReviewCreated    Trigger = "review.created"
)

func (t Trigger) IsValid() bool {
	switch t {
	case TriggerOrderPlaced, TriggerStockLow, TriggerPaymentCompleted, TriggerReviewCreated:
		return true
	}
	return false
}

// Action is what a matched rule does
type Action string

const (
	ActionLog   Action = "log"
	ActionQueue Action = "queue"
)

func (a Action) IsValid() bool {
	return a == ActionLog || a == ActionQueue
}

var queueNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,99}$`)

// Rule is a tenant-defined automation. Threshold is optional and compared
// according to the trigger.
type Rule struct {
	shared.TenantAggregateRoot
	Name         string           `gorm:"type:varchar(200);not null"`
	Trigger      Trigger          `gorm:"type:varchar(50);not null;index"`
	Threshold    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Action       Action           `gorm:"type:varchar(20);not null"`
	ActionTarget string           `gorm:"type:varchar(100)"`
	Enabled      bool             `gorm:"not null"`
	RunCount     int64            `gorm:"not null;default:0"`
	LastRunAt    *time.Time
}

func (Rule) TableName() string {
	return "automation_rules"
}

// RuleSpec holds the editable attributes of a rule
type RuleSpec struct {
	Name         string
	Trigger      Trigger
	Threshold    *decimal.Decimal
	Action       Action
	ActionTarget string
}

func NewRule(tenantID uuid.UUID, spec RuleSpec) (*Rule, error) {
	rule := &Rule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Enabled:             true,
	}
	if err := rule.apply(spec); err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *Rule) Update(spec RuleSpec) error {
	if err := r.apply(spec); err != nil {
		return err
	}
	r.MarkModified()
	return nil
}

func (r *Rule) apply(spec RuleSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Rule name must be 1-200 characters")
	}
	if !spec.Trigger.IsValid() {
		return shared.NewDomainError("INVALID_TRIGGER", "Unknown trigger")
	}
	if !spec.Action.IsValid() {
		return shared.NewDomainError("INVALID_ACTION", "Unknown action")
	}
	if spec.Action == ActionQueue && !queueNamePattern.MatchString(spec.ActionTarget) {
		return shared.NewDomainError("INVALID_ACTION_TARGET", "Queue actions need a lower-case queue name")
	}
	if spec.Threshold != nil && spec.Threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold cannot be negative")
	}

	r.Name = name
	r.Trigger = spec.Trigger
	r.Threshold = spec.Threshold
	r.Action = spec.Action
	r.ActionTarget = spec.ActionTarget
	if spec.Action == ActionLog {
		r.ActionTarget = ""
	}
	return nil
}

func (r *Rule) Enable() {
	r.Enabled = true
	r.MarkModified()
}

func (r *Rule) Disable() {
	r.Enabled = false
	r.MarkModified()
}

// Matches decides whether value satisfies the threshold for this trigger.
// Order totals and payment amounts match at or above the threshold, stock
// levels and ratings at or below it.
func (r *Rule) Matches(value decimal.Decimal) bool {
	if !r.Enabled {
		return false
	}
	if r.Threshold == nil {
		return true
	}
	switch r.Trigger {
	case TriggerOrderPlaced, TriggerPaymentCompleted:
		return value.GreaterThanOrEqual(*r.Threshold)
	case TriggerStockLow, TriggerReviewCreated:
		return value.LessThanOrEqual(*r.Threshold)
	}
	return false
}

// RecordRun bumps the run counter
func (r *Rule) RecordRun(at time.Time) {
	r.RunCount++
	r.LastRunAt = &at
	r.Touch()
}
