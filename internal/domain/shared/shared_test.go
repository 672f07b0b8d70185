package shared

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("load product: %w", NotFound("Product"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "load product: Product not found", err.Error())
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.NotNil(t, f.Filters)

	f = Filter{Page: 3, PageSize: 0}.Normalize()
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, 40, f.Offset())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestAggregate_PullDomainEvents(t *testing.T) {
	root := NewTenantAggregateRoot(uuid.New())
	event := NewBaseDomainEvent("Thing", "Agg", root.ID, root.TenantID)
	root.AddDomainEvent(&event)

	events := root.PullDomainEvents()
	assert.Len(t, events, 1)
	assert.Empty(t, root.GetDomainEvents())

	root.MarkModified()
	assert.Equal(t, 2, root.GetVersion())
}

func TestAggregate_StoredVersion(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.True(t, root.IsTransient())
	root.MarkStored()
	assert.False(t, root.IsTransient())

	root.MarkModified()
	root.MarkModified()
	assert.Equal(t, 3, root.GetVersion())
	assert.Equal(t, 1, root.StoredVersion())

	root.MarkStored()
	assert.Equal(t, 3, root.StoredVersion())

	// a row read back from storage is neither transient nor changed
	var loaded BaseAggregateRoot
	loaded.Version = 4
	assert.False(t, loaded.IsTransient())
	assert.Equal(t, 4, loaded.StoredVersion())
}
