// Package testutil holds the helpers shared by the shop tests: repository
// mocks, a recording event publisher, HTTP request helpers and a
// sqlmock-backed GORM handle.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB is a GORM handle on the postgres dialector whose statements are
// answered by sqlmock.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens a MockDB and closes it when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: db, Mock: mock, SqlDB: sqlDB}
}

// ExpectationsWereMet fails the test when a queued statement never ran.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewTestUUID derives a stable UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}

// TestTenantID is the tenant every handler test request runs as.
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID is the user every handler test request runs as.
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// Money parses a decimal literal, failing the test on bad input.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err, "bad money literal %q", s)
	return d
}
