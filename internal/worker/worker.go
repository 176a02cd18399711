// Package worker decides when the board is rendered again.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// RenderFunc renders the board for today. trigger is one of config.Trigger*.
type RenderFunc func(ctx context.Context, today engine.CalendarDate, trigger string)

// Timing is the part of the settings that drives the schedule.
type Timing struct {
	Interval   time.Duration // <= 0 disables periodic renders.
	AtMidnight bool
}

// Scheduler renders once at start, then on every interval tick, shortly after
// each local midnight and on every reload signal.
type Scheduler struct {
	Clock  engine.Clock
	Render RenderFunc

	// Timing is re-read on every reload so that a configuration change can
	// move the interval or toggle the midnight render.
	Timing func() Timing

	// RolloverDelay is waited after midnight; zero means config.MidnightRolloverDelay.
	RolloverDelay time.Duration
}

// NextRollover returns the instant the next calendar day starts in now's
// location, plus the default rollover delay.
func NextRollover(now time.Time) time.Time {
	return nextRollover(now, config.MidnightRolloverDelay)
}

func nextRollover(now time.Time, delay time.Duration) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(delay)
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, reload <-chan struct{}) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	s.fire(ctx, config.TriggerStartup)

	timing := s.timing()
	ticker := newTicker(timing.Interval)
	midnight := s.armMidnight(timing.AtMidnight)
	defer func() {
		ticker.stop()
		midnight.stop()
	}()

	log.Info(config.MsgWorkerStart,
		config.LogKeyInterval, timing.Interval,
		config.LogKeyNext, midnight.at)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-reload:
			next := s.timing()
			if next.Interval != timing.Interval {
				ticker.stop()
				ticker = newTicker(next.Interval)
			}
			if next.AtMidnight != timing.AtMidnight {
				midnight.stop()
				midnight = s.armMidnight(next.AtMidnight)
			}
			timing = next
			log.Info(config.MsgWorkerReload, config.LogKeyInterval, timing.Interval)
			s.fire(ctx, config.TriggerReload)

		case <-ticker.c:
			log.Debug(config.MsgWorkerTick)
			s.fire(ctx, config.TriggerInterval)

		case <-midnight.c:
			log.Info(config.MsgWorkerMidnight)
			s.fire(ctx, config.TriggerMidnight)
			midnight = s.armMidnight(true)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	slog.Debug(config.MsgRenderStarted,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyTrigger, trigger)
	s.Render(ctx, engine.Today(s.Clock), trigger)
}

func (s *Scheduler) timing() Timing {
	if s.Timing == nil {
		return Timing{}
	}
	return s.Timing()
}

// The midnight timer is re-armed from the clock each time instead of using a
// 24h ticker, so DST changes and clock adjustments are followed.
func (s *Scheduler) armMidnight(enabled bool) alarm {
	if !enabled {
		return alarm{stop: func() {}}
	}
	delay := s.RolloverDelay
	if delay <= 0 {
		delay = config.MidnightRolloverDelay
	}
	now := s.Clock.Now()
	at := nextRollover(now, delay)
	t := time.NewTimer(at.Sub(now))
	return alarm{c: t.C, at: at, stop: func() { t.Stop() }}
}

// alarm and tick wrap optional timers; a disabled one has a nil channel,
// which never fires in a select.
type alarm struct {
	c    <-chan time.Time
	at   time.Time
	stop func()
}

type tick struct {
	c    <-chan time.Time
	stop func()
}

func newTicker(interval time.Duration) tick {
	if interval <= config.DisabledInterval {
		return tick{stop: func() {}}
	}
	t := time.NewTicker(interval)
	return tick{c: t.C, stop: t.Stop}
}
