package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// DBTracingConfig controls the otelgorm plugin
type DBTracingConfig struct {
	Enabled       bool
	LogFullSQL    bool // includes bound variables in db.statement; dev only
	SlowThreshold time.Duration
}

// RegisterDBTracing installs otelgorm and a callback pair that annotates
// spans with row counts, errors and slow-query markers.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, cfg.SlowThreshold) }

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("shop:before_create", before),
		cb.Create().After("gorm:create").Register("shop:after_create", after),
		cb.Query().Before("gorm:query").Register("shop:before_query", before),
		cb.Query().After("gorm:query").Register("shop:after_query", after),
		cb.Update().Before("gorm:update").Register("shop:before_update", before),
		cb.Update().After("gorm:update").Register("shop:after_update", after),
		cb.Delete().Before("gorm:delete").Register("shop:before_delete", before),
		cb.Delete().After("gorm:delete").Register("shop:after_delete", after),
		cb.Raw().Before("gorm:raw").Register("shop:before_raw", before),
		cb.Raw().After("gorm:raw").Register("shop:after_raw", after),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_threshold", cfg.SlowThreshold),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, slowThreshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
