// Package db opens the database and prepares its schema and seed data.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-growth/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Dialector returns the gorm dialector selected by cfg.Driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens the database, retrying while the server starts up.
func Connect(ctx context.Context, cfg config.DatabaseConfig, dev bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	level := logger.Warn
	if dev {
		level = logger.Info
	}
	log := zerolog.Ctx(ctx)
	gcfg := &gorm.Config{
		Logger:         NewGormLogger(*log, level),
		TranslateError: true,
	}

	var conn *gorm.DB
	for i := 1; i <= connectAttempts; i++ {
		conn, err = gorm.Open(dialector, gcfg)
		if err == nil {
			if err = Ping(ctx, conn); err == nil {
				return conn, nil
			}
		}
		log.Warn().Err(err).Int("attempt", i).Str("driver", cfg.Driver).Msg("database connection failed")
		if i == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("connect database: %w", err)
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
