package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"studybud/internal/config"
	"studybud/internal/domain"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func openObserved(t *testing.T) (*observer.ObservedLogs, func() error) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromCore(core)
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, DSN: "file::memory:?_foreign_keys=on"}

	db, err := Open(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db, cfg.Driver, log))

	insert := func() error {
		return db.Create(&domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "x", IsActive: true}).Error
	}
	return logs, insert
}

func TestGormLogger_UniqueViolationIsNotAnError(t *testing.T) {
	logs, insert := openObserved(t)

	require.NoError(t, insert())
	err := insert()
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))

	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("Query rejected").Len())
}

func TestGormLogger_FailedQueryIsAnError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(logger.NewFromCore(core), 0)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("connection reset"))

	entries := logs.FilterMessage("Query failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}
