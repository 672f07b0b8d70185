package testutil

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
	assert.NotEqual(t, TestTenantID(), TestUserID())
	assert.NotEqual(t, uuid.Nil, TestTenantID())
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "19.99", Money(t, "19.99").String())
	assert.True(t, Money(t, "10").Equal(Money(t, "10.00")))
}

func TestNewMockDB(t *testing.T) {
	db := NewMockDB(t)
	db.Mock.ExpectExec(`DELETE FROM "carts"`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.DB.Exec(`DELETE FROM "carts" WHERE status = ?`, "abandoned").Error)
	db.ExpectationsWereMet(t)
}

func TestPerformRequest(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "ERR_INVALID_JSON"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"sku":    body["sku"],
			"tenant": c.GetHeader("X-Tenant-ID"),
		}})
	})

	tc := PerformRequest(t, engine, http.MethodPost, "/echo", map[string]any{"sku": "TEE-1"}, map[string]string{"X-Tenant-ID": "acme"})
	require.Equal(t, http.StatusOK, tc.Recorder.Code)
	AssertSuccessResponse(t, tc)

	resp := JSONResponseAs[struct {
		Data struct {
			SKU    string `json:"sku"`
			Tenant string `json:"tenant"`
		} `json:"data"`
	}](t, tc)
	assert.Equal(t, "TEE-1", resp.Data.SKU)
	assert.Equal(t, "acme", resp.Data.Tenant)

	tc = PerformRequest(t, engine, http.MethodPost, "/echo", nil, nil)
	assert.Equal(t, http.StatusBadRequest, tc.Recorder.Code)
	AssertErrorResponse(t, tc, "ERR_INVALID_JSON")
}
