package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint
	Name string
}

func newTracedDB(t *testing.T, cfg DBTracingConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	require.NoError(t, NewDBTracingPlugin(cfg, zaptest.NewLogger(t)).Register(db))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := newTracedDB(t, DBTracingConfig{})

	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestDBTracingPlugin_AnnotatesSpans(t *testing.T) {
	recorder := installSpanRecorder(t)
	db := newTracedDB(t, DBTracingConfig{Enabled: true, DBName: "lojinha", SlowQueryThresh: time.Nanosecond})

	ctx, parent := otel.Tracer("test").Start(context.Background(), "request")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	var dbSpans int
	for _, s := range recorder.Ended() {
		if s.Name() == "request" {
			continue
		}
		dbSpans++
		attrs := map[string]bool{}
		for _, kv := range s.Attributes() {
			attrs[string(kv.Key)] = true
		}
		assert.True(t, attrs["db.rows_affected"], "span %s lacks rows_affected", s.Name())
		assert.True(t, attrs["db.slow_query"], "span %s lacks slow marker", s.Name())
	}
	assert.Equal(t, 2, dbSpans)
}
