package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const dailyTriggerName = "daily-checklist"

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func ParseClock(raw string) (Clock, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return Clock{}, fmt.Errorf("scheduler: invalid clock %q: %w", raw, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// FireFunc runs the daily job. at is the scheduled trigger time.
type FireFunc func(ctx context.Context, at time.Time) error

// Daily runs a job once per day at a fixed time of day in zone.
type Daily struct {
	engine *Engine
	at     Clock
	zone   *time.Location
	logger *slog.Logger
	now    func() time.Time
	next   func(time.Time) time.Time
}

func NewDaily(engine *Engine, at Clock, zone *time.Location, logger *slog.Logger) *Daily {
	if zone == nil {
		zone = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Daily{engine: engine, at: at, zone: zone, logger: logger, now: time.Now}
	d.next = d.NextAfter
	return d
}

// NextAfter returns the first occurrence of the configured time of day that
// is strictly after now.
func (d *Daily) NextAfter(now time.Time) time.Time {
	local := now.In(d.zone)
	y, m, day := local.Date()
	next := time.Date(y, m, day, d.at.Hour, d.at.Minute, 0, 0, d.zone)
	if !next.After(local) {
		next = time.Date(y, m, day+1, d.at.Hour, d.at.Minute, 0, 0, d.zone)
	}
	return next
}

// Run fires fn every day until ctx is done. A failed run is logged and the
// next day is scheduled regardless.
func (d *Daily) Run(ctx context.Context, fn FireFunc) error {
	d.engine.Start()
	defer d.engine.Stop()

	if err := d.scheduleAfter(d.now()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case tr, ok := <-d.engine.C():
			if !ok {
				return nil
			}
			if tr.Name != dailyTriggerName {
				continue
			}
			if err := fn(ctx, tr.At); err != nil {
				d.logger.Error("daily run failed", "trigger", tr.ID, "error", err)
			}
			if err := d.scheduleAfter(tr.At); err != nil {
				if errors.Is(err, ErrEngineStopped) {
					return nil
				}
				return err
			}
		}
	}
}

func (d *Daily) scheduleAfter(after time.Time) error {
	next := d.next(after)
	d.logger.Info("daily run scheduled", "at", next.Format(time.RFC3339))
	return d.engine.Schedule(Trigger{
		ID:   dailyTriggerName,
		Name: dailyTriggerName,
		At:   next,
	})
}
