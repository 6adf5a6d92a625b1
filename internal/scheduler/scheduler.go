// Package scheduler runs the periodic reporting jobs on robfig/cron.
//
// Overlapping runs of a job are skipped in process. With a Locker, such as
// RedisLocker, a job also runs on only one instance at a time.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/logger/adapter/stdlogger"
	"github.com/apota/mydms-sub010/internal/metrics"
	"github.com/apota/mydms-sub010/internal/service/reporting"
)

// DefaultLockTTL bounds how long a crashed instance blocks a job.
const DefaultLockTTL = 10 * time.Minute

// Job is a named function run on a cron spec.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Locker grants a job to one instance. release is nil unless ok.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Options of New.
type Options struct {
	// Locker is optional.
	Locker  Locker
	LockTTL time.Duration
}

// Scheduler wraps a cron.Cron.
type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	lockTTL time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler. Specs take an optional leading seconds
// field.
func New(opts Options) *Scheduler {
	logger := cron.PrintfLogger(stdlogger.New("scheduler"))

	ttl := opts.LockTTL
	if ttl == 0 {
		ttl = DefaultLockTTL
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(reporting.CronParser),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		locker:  opts.Locker,
		lockTTL: ttl,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add schedules job.
func (s *Scheduler) Add(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		_ = s.Run(s.ctx, job)
	})
	if err != nil {
		return err
	}

	log.Info().Str("job", job.Name).Str("spec", job.Spec).Msg("job scheduled")

	return nil
}

// Entries returns the scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs and cancels their context afterwards.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
}

// Run runs job once, holding the lock when a Locker is set.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	l := log.With().Str("job", job.Name).Logger()

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, job.Name, s.lockTTL)
		if err != nil {
			l.Error().Err(err).Msg("job lock failed")
			metrics.JobRuns.WithLabelValues(job.Name, metrics.OutcomeError).Inc()

			return err
		}

		if !ok {
			l.Debug().Msg("job runs elsewhere, skipped")
			metrics.JobRuns.WithLabelValues(job.Name, metrics.OutcomeSkipped).Inc()

			return nil
		}

		defer release()
	}

	start := time.Now()

	if err := job.Run(l.WithContext(ctx)); err != nil {
		l.Error().Err(err).Dur("took", time.Since(start)).Msg("job failed")
		metrics.JobRuns.WithLabelValues(job.Name, metrics.OutcomeError).Inc()

		return err
	}

	l.Info().Dur("took", time.Since(start)).Msg("job finished")
	metrics.JobRuns.WithLabelValues(job.Name, metrics.OutcomeSuccess).Inc()

	return nil
}
