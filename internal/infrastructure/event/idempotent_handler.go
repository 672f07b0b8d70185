package event

import (
	"context"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotentHandler processes each event ID at most once within ttl
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger
}

func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	return &IdempotentHandler{handler: handler, store: store, ttl: ttl, logger: logger}
}

func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := "event:" + event.EventID().String()

	fresh, err := h.store.Reserve(ctx, key, h.ttl)
	if err != nil {
		// a duplicate is preferable to a dropped event
		h.logger.Warn("Idempotency check failed, processing anyway",
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	} else if !fresh {
		h.logger.Debug("Duplicate event skipped", zap.String("event_id", event.EventID().String()))
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		if fresh {
			if relErr := h.store.Release(ctx, key); relErr != nil {
				h.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
			}
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
