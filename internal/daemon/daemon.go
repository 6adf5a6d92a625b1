// Package daemon wires the configured DMS services onto one database and
// runs them until SIGINT or SIGTERM.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db"
	"github.com/apota/mydms-sub010/internal/scheduler"
	"github.com/apota/mydms-sub010/internal/web"
)

// ErrUnknownService is returned for a service name without a builder.
var ErrUnknownService = errors.New("unknown service")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg *config.Config
	db  *gorm.DB
	rdb *redis.Client

	roles  *auth.Service
	tokens *auth.TokenService
	store  auth.TokenStore

	services  []*web.Service
	scheduler *scheduler.Scheduler
	closers   []func() error
}

// New opens the shared resources and builds the named services, every
// service of cfg.Services when names is empty.
func New(ctx context.Context, cfg *config.Config, names ...string) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if len(names) == 0 {
		for name := range cfg.Services {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	d := &Daemon{cfg: cfg}

	if err := d.open(ctx, names); err != nil {
		d.Close()

		return nil, err
	}

	for _, name := range names {
		build, ok := builders[name]
		if !ok {
			d.Close()

			return nil, fmt.Errorf("%w: %s", ErrUnknownService, name)
		}

		s, err := build(ctx, d)
		if err != nil {
			d.Close()

			return nil, fmt.Errorf("build %s: %w", name, err)
		}

		d.services = append(d.services, s)
	}

	return d, nil
}

// open connects the database and redis and seeds the roles.
func (d *Daemon) open(ctx context.Context, names []string) error {
	if d.cfg.Redis.Addr != "" {
		rdb, err := db.OpenRedis(ctx, &d.cfg.Redis)
		if err != nil {
			return err
		}

		d.rdb = rdb
		d.closers = append(d.closers, rdb.Close)
		d.store = auth.NewRedisStore(rdb)
	} else {
		log.Warn().Msg("redis not configured, refresh tokens are kept in memory")

		d.store = auth.NewMemoryStore()
	}

	d.tokens = auth.NewTokenService(d.cfg.Auth.JWT, d.store)

	if !needsDB(names) {
		return nil
	}

	gdb, err := db.Open(ctx, &d.cfg.DB)
	if err != nil {
		return err
	}

	d.db = gdb

	if sqlDB, err := gdb.DB(); err == nil {
		d.closers = append(d.closers, sqlDB.Close)
	}

	if err := db.Migrate(gdb); err != nil {
		return err
	}

	d.roles = auth.NewService(gdb)

	return seed(ctx, d.cfg, gdb, d.roles)
}

// needsDB reports whether a service other than the gateway and the demo is
// requested.
func needsDB(names []string) bool {
	for _, name := range names {
		if name != "gateway" && name != "demo" {
			return true
		}
	}

	return false
}

// verifier enables bearer authentication when JWT is configured.
func (d *Daemon) verifier() auth.Verifier {
	if !d.cfg.Auth.JWT.Enabled {
		return nil
	}

	return d.tokens
}

// Services returns the built services.
func (d *Daemon) Services() []*web.Service {
	return d.services
}

// Start runs every service and the scheduler until a signal arrives or a
// listener fails.
func (d *Daemon) Start() error {
	var eg errgroup.Group

	for _, s := range d.services {
		addr, err := s.Addr()
		if err != nil {
			return err
		}

		eg.Go(func() error {
			return s.Start(addr)
		})
	}

	if d.scheduler != nil {
		d.scheduler.Start()
	}

	go func() {
		web.WaitShutdown(d.services...)
		d.Close()
	}()

	return eg.Wait()
}

// Close stops the scheduler and releases the shared resources.
func (d *Daemon) Close() {
	if d.scheduler != nil {
		d.scheduler.Stop()
		d.scheduler = nil
	}

	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}

	d.closers = nil
}
