package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes email", func(t *testing.T) {
		c, err := NewCustomer(tenantID, "  Jane.Doe@Example.COM ", "Jane", "Doe")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", c.Email)
		assert.Equal(t, "Jane Doe", c.FullName())
		assert.True(t, c.IsActive())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "not-an-email", "Jane", "Doe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("requires first name", func(t *testing.T) {
		_, err := NewCustomer(tenantID, "a@b.co", " ", "Doe")
		require.Error(t, err)
	})
}

func TestCustomer_Deactivate(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "a@b.co", "A", "")
	require.NoError(t, err)

	require.NoError(t, c.Deactivate())
	assert.False(t, c.IsActive())
	assert.Error(t, c.Deactivate())
	require.NoError(t, c.Activate())
	assert.Equal(t, 3, c.GetVersion())
}

func TestNewWarehouse(t *testing.T) {
	w, err := NewWarehouse(uuid.New(), "main-01", "Main Warehouse")
	require.NoError(t, err)
	assert.Equal(t, "MAIN-01", w.Code)
	assert.True(t, w.Active)
	assert.False(t, w.IsDefault)

	_, err = NewWarehouse(uuid.New(), "bad code", "X")
	assert.Error(t, err)
}

func TestWarehouse_DefaultRules(t *testing.T) {
	w, err := NewWarehouse(uuid.New(), "WH", "Main")
	require.NoError(t, err)

	require.NoError(t, w.SetDefault(true))
	assert.Error(t, w.SetActive(false), "default warehouse cannot be deactivated")

	require.NoError(t, w.SetDefault(false))
	require.NoError(t, w.SetActive(false))
	assert.Error(t, w.EnsureOperational())
	assert.Error(t, w.SetDefault(true))
}
