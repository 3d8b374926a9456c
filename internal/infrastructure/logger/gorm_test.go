package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(50*time.Millisecond))

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")
	now := time.Now()

	gl.Trace(ctx, now, statement("SELECT 1", 1), nil)
	gl.Trace(ctx, now.Add(-time.Second), statement("SELECT pg_sleep(1)", 1), nil)
	gl.Trace(ctx, now, statement("INSERT INTO carts", 0), errors.New("connection reset"))
	gl.Trace(ctx, now, statement("SELECT * FROM products", 0), gorm.ErrRecordNotFound)
	gl.Trace(ctx, now, statement("INSERT INTO products", 0), gorm.ErrDuplicatedKey)

	entries := recorded.All()
	assert.Len(t, entries, 5)
	assert.Equal(t, "sql", entries[0].Message)
	assert.Equal(t, "slow sql", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "sql error", entries[2].Message)
	assert.Equal(t, "req-7", entries[2].ContextMap()["request_id"])
	assert.Equal(t, "sql", entries[3].Message, "not found is not an error entry")
	assert.Equal(t, "sql", entries[4].Message, "duplicate key is not an error entry")
}

func TestGormLogger_WithoutSQL(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSQL(false))

	gl.Trace(context.Background(), time.Now(), statement("SELECT secret", 1), nil)
	assert.NotContains(t, recorded.All()[0].ContextMap(), "sql")
}

func TestGormLogger_LevelGating(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn)

	gl.Info(context.Background(), "info %d", 1)
	gl.Warn(context.Background(), "warn %d", 2)
	gl.Error(context.Background(), "error %d", 3)
	gl.Trace(context.Background(), time.Now(), statement("SELECT 1", 1), nil)
	assert.Equal(t, 2, recorded.Len())

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), statement("SELECT 1", 1), errors.New("x"))
	silent.Error(context.Background(), "ignored")
	assert.Equal(t, 2, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
