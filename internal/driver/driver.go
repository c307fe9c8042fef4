// Package driver closes the loop between the generation scheduler and the
// overlay compositor.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iburimskiy/overlay-it/internal/batch"
	"github.com/iburimskiy/overlay-it/internal/compositor"
	"github.com/iburimskiy/overlay-it/internal/logging"
	"github.com/iburimskiy/overlay-it/internal/scheduler"
)

// Stats are cumulative counters since Start.
type Stats struct {
	Batches      int
	Failures     int
	Skips        int
	LastErr      error
	LastSeq      uint64
	MeanDuration time.Duration
	Uptime       time.Duration
}

// Config wires a Loop.
type Config struct {
	Generator *batch.Generator
	Count     int
	Interval  time.Duration
	Fade      time.Duration
	Floor     float64 // layer opacity at the bottom of a fade; 0 fades to transparent
	Logger    *slog.Logger

	// OnBatch and OnFailure are extra observers for the host UI; they run
	// after the loop has handled the event.
	OnBatch   func(batch.Batch)
	OnFailure func(error)
}

// Loop must be driven from one goroutine, typically the UI event loop.
type Loop struct {
	sched *scheduler.Scheduler
	comp  *compositor.Compositor
	log   *slog.Logger
	cfg   Config

	stats   Stats
	started time.Time
	last    time.Time
	stopped bool
}

func New(cfg Config) (*Loop, error) {
	if cfg.Generator == nil {
		return nil, errors.New("driver: nil generator")
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("driver: shape count %d must be positive", cfg.Count)
	}
	l := &Loop{
		log: logging.OrNop(cfg.Logger),
		cfg: cfg,
	}
	l.comp = compositor.New(cfg.Fade,
		compositor.WithFloor(cfg.Floor),
		compositor.WithTransitionHook(func(from, to compositor.Phase) {
			l.log.Debug("fade", "from", from, "to", to)
		}),
	)

	gen := cfg.Generator
	count := cfg.Count
	sched, err := scheduler.New(cfg.Interval,
		func(ctx context.Context) (batch.Batch, error) {
			return gen.Generate(ctx, count)
		},
		scheduler.WithLogger(l.log),
		scheduler.WithHooks(scheduler.Hooks{
			OnBatch:   l.onBatch,
			OnFailure: l.onFailure,
			OnSkip:    l.onSkip,
		}),
	)
	if err != nil {
		return nil, err
	}
	l.sched = sched
	return l, nil
}

func (l *Loop) Compositor() *compositor.Compositor { return l.comp }

func (l *Loop) Scheduler() *scheduler.Scheduler { return l.sched }

// Start begins the perpetual cycle.
func (l *Loop) Start(now time.Time) {
	l.started = now
	l.last = now
	l.sched.Start(now)
	l.log.Info("overlay started", "count", l.cfg.Count, "interval", l.cfg.Interval, "fade", l.cfg.Fade)
}

// Update runs one event loop step.
func (l *Loop) Update(now time.Time) {
	if l.stopped {
		return
	}
	l.sched.Update(now)
	if !l.last.IsZero() {
		l.comp.Advance(now.Sub(l.last))
	}
	l.last = now
	l.stats.Uptime = now.Sub(l.started)
}

// Stop tears the cycle down. Batches finishing afterwards are never shown.
func (l *Loop) Stop() {
	if l.stopped {
		return
	}
	l.stopped = true
	l.sched.Stop()
	l.log.Info("overlay stopped", "batches", l.stats.Batches, "failures", l.stats.Failures, "skips", l.stats.Skips)
}

func (l *Loop) Stats() Stats {
	s := l.stats
	s.MeanDuration = l.sched.History().MeanDuration()
	return s
}

func (l *Loop) onBatch(b batch.Batch) {
	if l.stopped {
		return
	}
	l.stats.Batches++
	l.stats.LastSeq = b.Seq
	if l.log.Enabled(context.Background(), slog.LevelDebug) {
		l.log.Debug("swap", "seq", b.Seq, "summary", batch.Summarize(b))
	}
	l.comp.Swap(b)
	if l.cfg.OnBatch != nil {
		l.cfg.OnBatch(b)
	}
}

func (l *Loop) onFailure(err error) {
	l.stats.Failures++
	l.stats.LastErr = err
	if l.cfg.OnFailure != nil {
		l.cfg.OnFailure(err)
	}
}

func (l *Loop) onSkip(int) {
	l.stats.Skips++
}
