// Package db opens the gorm database of the DMS services.
package db

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/dsn"
	"github.com/apota/mydms-sub010/internal/db/models"
	gormlogger "github.com/apota/mydms-sub010/internal/logger/adapter/gorm"
)

// ErrUnknownEngine is returned for an unsupported gorm engine.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// retryBaseDelay is the first backoff step, doubled per attempt.
var retryBaseDelay = time.Second //nolint:gochecknoglobals

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case config.DBEnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case config.DBEngineMySQL:
		return mysql.Open(dsn.MySQL(cfg)), nil
	case config.DBEngineSQLite, "":
		return sqlite.Open(dsn.SQLite(cfg)), nil
	default:
		return nil, errors.Wrap(ErrUnknownEngine, cfg.GormEngine)
	}
}

// Open connects to the database, retrying up to cfg.RetryCount times with an
// exponential backoff capped at cfg.RetryMaxDelay.
func Open(ctx context.Context, cfg *config.DB) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB

	err = Retry(ctx, cfg.RetryCount, cfg.RetryMaxDelay, func() error {
		var openErr error

		db, openErr = gorm.Open(dialector, &gorm.Config{
			Logger:         gormlogger.New(cfg.LogSQL),
			TranslateError: true,
		})
		if openErr != nil {
			return openErr //nolint:wrapcheck
		}

		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr //nolint:wrapcheck
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second) //nolint:mnd
		defer cancel()

		return sqlDB.PingContext(pingCtx) //nolint:wrapcheck
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.GormEngine)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql handle")
	}

	switch {
	case (cfg.GormEngine == config.DBEngineSQLite || cfg.GormEngine == "") && cfg.Path == "":
		// every connection to :memory: is a new database
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the tables of every module.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}

// Retry calls fn until it succeeds, attempts is exhausted or ctx is done.
// attempts < 1 means a single call.
func Retry(ctx context.Context, attempts int, maxDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	delay := retryBaseDelay

	var err error

	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if attempt >= attempts {
			return err
		}

		if maxDelay > 0 && delay > maxDelay {
			delay = maxDelay
		}

		log.Warn().Err(err).Int("attempt", attempt).Dur("retryIn", delay).Msg("database not reachable")

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), err.Error())
		case <-time.After(delay):
		}

		delay *= 2
	}
}
