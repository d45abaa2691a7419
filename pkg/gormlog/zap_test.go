package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, gormlogger.Silent, ParseLevel("silent"))
	require.Equal(t, gormlogger.Info, ParseLevel("INFO"))
	require.Equal(t, gormlogger.Warn, ParseLevel(""))
}

func TestShortCaller(t *testing.T) {
	require.Equal(t, "internal/platform/db/postgres.go:38", shortCaller("/home/ci/paytrack/internal/platform/db/postgres.go:38"))
	require.Equal(t, "a/b/c.go:1", shortCaller("/x/y/a/b/c.go:1"))
	require.Equal(t, "", shortCaller(""))
}

func TestTrace_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	lg := New(zap.New(core).Sugar(), gormlogger.Warn, 100*time.Millisecond)
	sql := func() (string, int64) { return "INSERT INTO payment_callback_log", 1 }

	lg.Trace(context.Background(), time.Now(), sql, nil)
	require.Zero(t, logs.Len())

	lg.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 1, logs.FilterMessage("gorm_slow").Len())

	lg.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	require.Zero(t, logs.FilterMessage("gorm_trace").Len())

	lg.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.FilterMessage("gorm_trace").Len())
}
