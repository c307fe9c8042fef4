// Package scheduler triggers batch generation on a fixed cadence without ever
// running two generations at once.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iburimskiy/overlay-it/internal/batch"
	"github.com/iburimskiy/overlay-it/internal/logging"
)

// State is Idle or Running.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

const historySize = 32

// GenerateFunc produces one batch. It runs on its own goroutine and should
// return promptly once ctx is cancelled.
type GenerateFunc func(ctx context.Context) (batch.Batch, error)

// Hooks are invoked from Update, on the caller's goroutine.
type Hooks struct {
	OnBatch   func(batch.Batch)
	OnFailure func(error)
	// OnSkip receives the number of ticks skipped so far in the running cycle.
	OnSkip func(skipped int)
}

type Option func(*Scheduler)

func WithHooks(h Hooks) Option {
	return func(s *Scheduler) { s.hooks = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = logging.OrNop(l) }
}

type result struct {
	batch batch.Batch
	err   error
}

// Scheduler is a two-state machine polled by a single-threaded event loop.
// Apart from History, none of its methods are safe for concurrent use; the
// generation goroutine only communicates through a per-cycle channel.
type Scheduler struct {
	interval time.Duration
	generate GenerateFunc
	hooks    Hooks
	log      *slog.Logger
	history  *History

	state   State
	armed   bool
	stopped bool
	next    time.Time

	cancel  context.CancelFunc
	done    chan result
	started time.Time
	skipped int
}

func New(interval time.Duration, generate GenerateFunc, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval %v must be positive", interval)
	}
	if generate == nil {
		return nil, errors.New("scheduler: nil generate func")
	}
	s := &Scheduler{
		interval: interval,
		generate: generate,
		log:      logging.Nop(),
		history:  NewHistory(historySize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scheduler) State() State { return s.state }

// History exposes recent cycle timings; safe to read from any goroutine.
func (s *Scheduler) History() *History { return s.history }

// NextTick is the time the timer fires next.
func (s *Scheduler) NextTick() time.Time { return s.next }

// Start arms the timer; the first tick fires one interval after now.
func (s *Scheduler) Start(now time.Time) {
	if s.stopped || s.armed {
		return
	}
	s.armed = true
	s.next = now.Add(s.interval)
	s.log.Debug("scheduler started", "interval", s.interval, "first_tick", s.next)
}

// Update processes a finished generation, then fires the timer if due.
func (s *Scheduler) Update(now time.Time) {
	if !s.armed || s.stopped {
		return
	}

	if s.state == Running {
		select {
		case r := <-s.done:
			s.finish(now, r)
		default:
		}
	}

	// A hook may have stopped the scheduler.
	if s.stopped || now.Before(s.next) {
		return
	}
	s.tick(now)
	s.next = s.next.Add(s.interval)
	if !now.Before(s.next) {
		s.next = now.Add(s.interval)
	}
}

// Stop disarms the timer and cancels any in-flight generation. A result that
// arrives later is dropped.
func (s *Scheduler) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.armed = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.done = nil
	s.state = Idle
	s.log.Debug("scheduler stopped")
}

func (s *Scheduler) tick(now time.Time) {
	if s.state == Running {
		s.skipped++
		s.log.Info("tick skipped", "skipped", s.skipped, "running_for", now.Sub(s.started))
		if s.hooks.OnSkip != nil {
			s.hooks.OnSkip(s.skipped)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan result, 1)
	s.cancel = cancel
	s.done = done
	s.state = Running
	s.started = now
	s.skipped = 0

	go run(ctx, s.generate, done)
}

func (s *Scheduler) finish(now time.Time, r result) {
	s.cancel()
	s.cancel = nil
	s.done = nil
	s.state = Idle

	elapsed := now.Sub(s.started)
	s.history.record(Cycle{Started: s.started, Duration: elapsed, Skipped: s.skipped, Failed: r.err != nil})

	if r.err != nil {
		s.log.Warn("generation failed", "err", r.err, "elapsed", elapsed)
		if s.hooks.OnFailure != nil {
			s.hooks.OnFailure(r.err)
		}
	} else {
		s.log.Debug("batch ready", "seq", r.batch.Seq, "shapes", r.batch.Len(), "elapsed", elapsed)
		if s.hooks.OnBatch != nil {
			s.hooks.OnBatch(r.batch)
		}
	}

	// Re-arm only after the cycle's hook has run.
	s.next = now.Add(s.interval)
}

func run(ctx context.Context, generate GenerateFunc, done chan<- result) {
	defer func() {
		if p := recover(); p != nil {
			done <- result{err: fmt.Errorf("%w: panic: %v", batch.ErrGeneration, p)}
		}
	}()
	b, err := generate(ctx)
	done <- result{batch: b, err: err}
}
