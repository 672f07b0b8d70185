package persistence

import (
	"errors"
	"strings"

	"github.com/anu-devcode/deploy-test-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// TenantScope restricts a query to a single tenant
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// Paginate applies limit/offset from a normalized filter
func Paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f := filter.Normalize()
		return db.Offset(f.Offset()).Limit(f.PageSize)
	}
}

// OrderBy orders by a whitelisted field, falling back to defaultField
func OrderBy(filter shared.Filter, allowed map[string]bool, defaultField string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(filter.OrderBy, allowed, defaultField)
		return db.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	}
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return shared.ErrAlreadyExists
	}
	return err
}

func requireAffected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type versionedAggregate interface {
	GetVersion() int
	IncrementVersion()
	StoredVersion() int
	IsTransient() bool
	MarkStored()
}

// saveVersioned inserts a transient aggregate, or updates a stored one only
// while its row still carries the version it was read at. A lost race
// returns ErrConcurrencyConflict and leaves the row untouched.
func saveVersioned(db *gorm.DB, aggregate versionedAggregate) error {
	if aggregate.IsTransient() {
		if err := db.Omit(clause.Associations).Create(aggregate).Error; err != nil {
			return translateError(err)
		}
		aggregate.MarkStored()
		return nil
	}

	expected := aggregate.StoredVersion()
	if aggregate.GetVersion() == expected {
		aggregate.IncrementVersion()
	}
	result := db.Model(aggregate).
		Omit(clause.Associations).
		Select("*").
		Where("version = ?", expected).
		Updates(aggregate)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	aggregate.MarkStored()
	return nil
}
