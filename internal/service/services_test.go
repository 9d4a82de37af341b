package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studybud/internal/config"
	"studybud/internal/domain"
	"studybud/internal/repository"
	"studybud/internal/testutil"
	"studybud/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    time.Hour,
			Issuer:        "studybud-test",
		},
	}
}

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.NewNop()
	repos := repository.NewRepositories(db, nil, log)

	return NewServices(repos, testConfig(), log), db
}

func countAudit(t *testing.T, db *gorm.DB, eventType string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&domain.AuditLog{}).Where("event_type = ?", eventType).Count(&count).Error)
	return count
}

// failingAuditRepo fails every write.
type failingAuditRepo struct{}

func (failingAuditRepo) CreateLog(context.Context, *domain.AuditLog) error {
	return errors.New("audit store down")
}
