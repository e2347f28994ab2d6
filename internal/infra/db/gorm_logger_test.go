package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestTrace_LogsFailedQuery(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newTestLogger(&buf), false)

	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))

	assert.Contains(t, buf.String(), "gorm query failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestTrace_IgnoresRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newTestLogger(&buf), false)

	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestTrace_LogsSlowQuery(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newTestLogger(&buf), false)

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)

	assert.Contains(t, buf.String(), "gorm slow query")
}

func TestTrace_SilentMode(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newTestLogger(&buf), true).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, errors.New("boom"))

	assert.Empty(t, buf.String())
}
