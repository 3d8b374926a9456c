package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls database span creation.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound query variables in spans
	SlowQueryThresh time.Duration // statements slower than this get a slow_query event
	DBName          string
}

// DBTracingPlugin registers otelgorm and annotates its spans with row counts
// and slow statement markers.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

const startTimeKey = "telemetry:start_time"

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// After callbacks must run before otelgorm ends its span.
	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", p.before),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("telemetry:after_create", p.after),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", p.before),
		cb.Query().After("gorm:query").Before("otel:after:select").Register("telemetry:after_query", p.after),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", p.before),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("telemetry:after_update", p.after),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", p.before),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("telemetry:after_delete", p.after),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", p.before),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("telemetry:after_raw", p.after),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", p.before),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("telemetry:after_row", p.after),
	)
	if err != nil {
		return err
	}

	p.logger.Info("database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh))
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	v, ok := db.InstanceGet(startTimeKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
