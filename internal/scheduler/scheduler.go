// Package scheduler drives the twice-daily update loop. It polls a coarse
// ticker and fires the runner whenever the wall clock enters one of the
// configured HH:MM slots, at most once per slot per day.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eiareport/internal/config"
)

// Runner is the update pipeline the scheduler triggers.
type Runner interface {
	RunUpdate(ctx context.Context) bool
}

// Clock supplies the current time, injected for deterministic tests.
type Clock func() time.Time

// Scheduler fires a Runner at fixed local times of day.
type Scheduler struct {
	runner   Runner
	runTimes []string
	interval time.Duration
	clock    Clock
	logger   *slog.Logger

	// lastSlot is the day+slot most recently fired, guarding against a
	// check interval shorter than a minute re-firing within the slot.
	lastSlot string
}

// New creates a Scheduler from the schedule configuration. Run times must
// already be validated as HH:MM strings.
func New(runner Runner, cfg config.ScheduleConfig, clock Clock, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner:   runner,
		runTimes: cfg.RunTimes,
		interval: cfg.CheckInterval,
		clock:    clock,
		logger:   logger,
	}
}

// Run executes an immediate update, then loops until ctx is cancelled,
// firing the runner whenever the clock enters a configured slot.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.InfoContext(ctx, "scheduler started",
		slog.Any("run_times", s.runTimes),
		slog.Duration("check_interval", s.interval))

	// Startup run so a fresh deployment produces a report right away
	// instead of waiting for the next slot.
	s.runner.RunUpdate(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick checks the clock against the configured slots and fires the runner
// if a slot is due. Exposed separately so the loop body is testable without
// real time.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.clock()
	slot, due := DueSlot(now, s.runTimes)
	if !due {
		return
	}
	key := fmt.Sprintf("%s %s", now.Format("2006-01-02"), slot)
	if key == s.lastSlot {
		return
	}
	s.lastSlot = key

	s.logger.InfoContext(ctx, "scheduled run due", slog.String("slot", slot))
	s.runner.RunUpdate(ctx)
}

// DueSlot reports which configured HH:MM slot, if any, matches now's hour
// and minute.
func DueSlot(now time.Time, runTimes []string) (string, bool) {
	for _, rt := range runTimes {
		t, err := time.Parse("15:04", rt)
		if err != nil {
			continue
		}
		if now.Hour() == t.Hour() && now.Minute() == t.Minute() {
			return rt, true
		}
	}
	return "", false
}
