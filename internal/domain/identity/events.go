package identity

import (
	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
)

const (
	AggregateTypeTenant = "Tenant"

	EventTypeTenantCreated = "TenantCreated"
)

// TenantCreatedEvent is raised when a merchant registers
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Code:            t.Code,
		Name:            t.Name,
	}
}
