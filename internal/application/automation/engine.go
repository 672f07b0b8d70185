package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/automation"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/catalog"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/finance"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/review"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Queue receives events forwarded by queue actions
type Queue interface {
	Push(ctx context.Context, queue string, event shared.DomainEvent) error
}

// Engine evaluates the tenant's enabled rules for each business event and
// runs the actions of the rules that match.
type Engine struct {
	rules  automation.RuleRepository
	queue  Queue
	logger *zap.Logger
	now    func() time.Time
}

func NewEngine(rules automation.RuleRepository, queue Queue, logger *zap.Logger) *Engine {
	return &Engine{
		rules:  rules,
		queue:  queue,
		logger: logger.Named("automation"),
		now:    time.Now,
	}
}

func (e *Engine) EventTypes() []string {
	return []string{
		trade.EventTypeOrderPlaced,
		catalog.EventTypeStockLow,
		finance.EventTypePaymentCompleted,
		review.EventTypeReviewCreated,
	}
}

// Handle runs every matching rule. One failing action does not stop the rest;
// all failures are returned joined.
func (e *Engine) Handle(ctx context.Context, event shared.DomainEvent) error {
	trigger, value, ok := evaluate(event)
	if !ok {
		return nil
	}

	rules, err := e.rules.FindEnabledByTrigger(ctx, event.TenantID(), trigger)
	if err != nil {
		return fmt.Errorf("load rules for %s: %w", trigger, err)
	}

	var errs []error
	for i := range rules {
		rule := &rules[i]
		if !rule.Matches(value) {
			continue
		}
		if err := e.run(ctx, rule, event, value); err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", rule.ID, err))
			continue
		}
		if err := e.rules.RecordRun(ctx, rule.TenantID, rule.ID, e.now()); err != nil {
			errs = append(errs, fmt.Errorf("record run of rule %s: %w", rule.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) run(ctx context.Context, rule *automation.Rule, event shared.DomainEvent, value decimal.Decimal) error {
	switch rule.Action {
	case automation.ActionLog:
		e.logger.Info("Automation rule matched",
			zap.String("tenant_id", rule.TenantID.String()),
			zap.String("rule_id", rule.ID.String()),
			zap.String("rule", rule.Name),
			zap.String("trigger", string(rule.Trigger)),
			zap.String("event_id", event.EventID().String()),
			zap.String("value", value.String()),
		)
		return nil
	case automation.ActionQueue:
		if e.queue == nil {
			return errors.New("no queue configured")
		}
		return e.queue.Push(ctx, rule.ActionTarget, event)
	}
	return fmt.Errorf("unknown action %q", rule.Action)
}

// evaluate maps an event to its trigger and the value rules compare against
func evaluate(event shared.DomainEvent) (automation.Trigger, decimal.Decimal, bool) {
	switch ev := event.(type) {
	case *trade.OrderPlacedEvent:
		return automation.TriggerOrderPlaced, ev.Total, true
	case *catalog.StockLowEvent:
		return automation.TriggerStockLow, decimal.NewFromInt(int64(ev.Stock)), true
	case *finance.PaymentCompletedEvent:
		return automation.TriggerPaymentCompleted, ev.Amount, true
	case *review.ReviewCreatedEvent:
		return automation.TriggerReviewCreated, decimal.NewFromInt(int64(ev.Rating)), true
	}
	return "", decimal.Zero, false
}

var _ shared.EventHandler = (*Engine)(nil)
