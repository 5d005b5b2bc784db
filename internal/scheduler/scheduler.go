// Package scheduler runs the periodic goal digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ddj1226/SpendSense/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const runTimeout = 10 * time.Minute

// DigestRunner sends one round of goal digests
type DigestRunner interface {
	SendGoalDigests(ctx context.Context) (service.DigestReport, error)
}

// Scheduler triggers goal digests on a cron schedule
type Scheduler struct {
	cron   *cron.Cron
	runner DigestRunner
	log    *logrus.Logger
}

// New registers the digest job on schedule (standard five-field cron syntax)
func New(runner DigestRunner, schedule string, log *logrus.Logger) (*Scheduler, error) {
	cronLog := cron.PrintfLogger(log)
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		runner: runner,
		log:    log,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.log.Info("Goal digest scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done when a running digest finishes
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the time of the next scheduled run
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.runner.SendGoalDigests(ctx); err != nil {
		s.log.WithError(err).Error("Goal digest run failed")
	}
}
