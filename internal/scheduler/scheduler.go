// Package scheduler запускает задачу раз в день в заданное время.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
)

// Job задача, которую запускает планировщик.
type Job func(ctx context.Context) error

// Daily запускает Job каждый день в hour:minute в поясе loc.
type Daily struct {
	hour, minute int
	loc          *time.Location
	job          Job
	runOnStart   bool
	log          *slog.Logger
	now          func() time.Time
}

// ParseClock разбирает время вида HH:MM.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("scheduler.ParseClock: invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// NewDaily создаёт планировщик. runAt задаётся как HH:MM.
func NewDaily(log *slog.Logger, runAt string, loc *time.Location, runOnStart bool, job Job) (*Daily, error) {
	hour, minute, err := ParseClock(runAt)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Daily{
		hour:       hour,
		minute:     minute,
		loc:        loc,
		job:        job,
		runOnStart: runOnStart,
		log:        log,
		now:        time.Now,
	}, nil
}

// NextRun ближайший момент запуска строго после now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// Run блокируется до отмены ctx.
func (d *Daily) Run(ctx context.Context) {
	const op = "scheduler.Daily.Run"
	log := d.log.With(sl.Op(op))

	if d.runOnStart {
		d.execute(ctx, log)
	}

	for {
		next := NextRun(d.now(), d.hour, d.minute, d.loc)
		log.Info("next run scheduled", slog.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("scheduler stopped")
			return
		case <-timer.C:
			d.execute(ctx, log)
		}
	}
}

func (d *Daily) execute(ctx context.Context, log *slog.Logger) {
	if err := d.job(ctx); err != nil {
		log.Error("scheduled job failed", sl.Err(err))
	}
}
