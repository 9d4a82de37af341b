package database

import (
	"context"
	"fmt"
	"time"

	"studybud/internal/config"
	"studybud/internal/domain"
	"studybud/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database and prepares the GORM schema.
func Open(cfg config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  NewGormLogger(log, cfg.SlowQueryThreshold),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if err := SetupJoinTables(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// an in-memory database lives exactly as long as its connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConnections)
		sqlDB.SetConnMaxIdleTime(cfg.MaxIdleTime)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

func newDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		connCfg, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse postgres DSN: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connCfg)}), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	case config.DriverSQLite:
		registerSQLiteDriver()
		return &sqlite.Dialector{DriverName: sqliteDriverName, DSN: cfg.DSN}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SetupJoinTables registers RoomParticipant as the room/user join model so the
// participant set carries joined_at. Must run before any migration or preload.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.Room{}, "Participants", &domain.RoomParticipant{}); err != nil {
		return fmt.Errorf("setup room participants join table: %w", err)
	}
	return nil
}

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.UserSession{},
		&domain.Topic{},
		&domain.Room{},
		&domain.Message{},
		&domain.AuditLog{},
	}
}

// Migrate brings the schema up to date. PostgreSQL is driven by versioned SQL
// migrations; the other drivers use GORM auto-migration.
func Migrate(db *gorm.DB, driver string, log logger.Logger) error {
	if driver == config.DriverPostgres {
		return migratePostgres(db, log)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Info("Database schema auto-migrated", "driver", driver)
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
