// Package scheduler reloads dashboard snapshots on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrNeverFires is returned for expressions with no upcoming activation,
// such as "0 0 30 2 *".
var ErrNeverFires = errors.New("schedule never fires")

// Reloader refreshes every dashboard snapshot.
type Reloader interface {
	ReloadAll(ctx context.Context) error
}

// ParseSchedule parses a standard 5-field cron expression
// (minute hour day-of-month month day-of-week) or a descriptor such as
// "@hourly" or "@every 15m".
// Examples: "*/10 * * * *" (every 10 minutes), "0 7-19 * * 1-5" (weekday office hours).
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", expr, err)
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", expr, ErrNeverFires)
	}
	return sched, nil
}

// ReloadScheduler calls ReloadAll whenever the schedule fires.
type ReloadScheduler struct {
	schedule cron.Schedule
	reloader Reloader
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a scheduler from a cron expression.
func New(expr string, reloader Reloader, logger *slog.Logger) (*ReloadScheduler, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	return NewWithSchedule(sched, reloader, logger), nil
}

// NewWithSchedule creates a scheduler from a parsed schedule.
func NewWithSchedule(schedule cron.Schedule, reloader Reloader, logger *slog.Logger) *ReloadScheduler {
	return &ReloadScheduler{
		schedule: schedule,
		reloader: reloader,
		timeout:  2 * time.Minute,
		logger:   logger.With("component", "reload_scheduler"),
	}
}

// Next returns the first activation after now.
func (s *ReloadScheduler) Next(now time.Time) time.Time {
	return s.schedule.Next(now)
}

// Run blocks until ctx is cancelled or the schedule runs out, reloading at
// every activation. A failed reload is logged and the previous snapshots
// stay in place.
func (s *ReloadScheduler) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.Warn("reload schedule has no further activations, stopping")
			return
		}
		wait := next.Sub(now)
		s.logger.Debug("next scheduled reload", "at", next.Format(time.RFC3339), "in", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("reload scheduler stopped")
			return
		case <-timer.C:
		}

		s.reload(ctx)
	}
}

func (s *ReloadScheduler) reload(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.reloader.ReloadAll(ctx); err != nil {
		s.logger.Error("scheduled reload failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("scheduled reload complete", "duration", time.Since(start))
}
