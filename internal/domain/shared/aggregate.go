package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the consistency boundary that owns pending domain events
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot adds an optimistic lock version and an event buffer.
// Version moves on every modification; the version the row carried before
// the first modification is kept so a repository can refuse a stale write.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
	baseVersion  int
	changed      bool
	transient    bool
}

func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

func (a *BaseAggregateRoot) IncrementVersion() {
	if !a.changed {
		a.baseVersion = a.Version
		a.changed = true
	}
	a.Version++
}

// StoredVersion is the version the persisted row is expected to carry
func (a *BaseAggregateRoot) StoredVersion() int {
	if a.changed {
		return a.baseVersion
	}
	return a.Version
}

// IsTransient reports whether the aggregate was built in memory and never stored
func (a *BaseAggregateRoot) IsTransient() bool {
	return a.transient
}

// MarkStored records that the current version now matches the stored row
func (a *BaseAggregateRoot) MarkStored() {
	a.changed = false
	a.transient = false
}

// AddDomainEvent buffers an event until the caller publishes it after commit
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// PullDomainEvents returns the buffered events and empties the buffer
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

// MarkModified touches the timestamp and bumps the version in one call
func (a *BaseAggregateRoot) MarkModified() {
	a.Touch()
	a.IncrementVersion()
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
		transient:    true,
	}
}

// TenantAggregateRoot is an aggregate row isolated by tenant_id
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// SetCreatedBy records the user that created the row; uuid.Nil is ignored
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	t.CreatedBy = &userID
}

// BelongsTo reports whether the row is owned by tenantID
func (t *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool {
	return t.TenantID == tenantID
}
