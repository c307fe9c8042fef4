package driver

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/overlay-it/internal/batch"
	"github.com/iburimskiy/overlay-it/internal/compositor"
	"github.com/iburimskiy/overlay-it/internal/logging"
	"github.com/iburimskiy/overlay-it/internal/scheduler"
	"github.com/iburimskiy/overlay-it/internal/shape"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newGenerator(t *testing.T, seed uint64) *batch.Generator {
	t.Helper()
	c, err := shape.NewCanvas(800, 600)
	if err != nil {
		t.Fatal(err)
	}
	f, err := shape.NewFactory(c, shape.NewRand(seed))
	if err != nil {
		t.Fatal(err)
	}
	g, err := batch.NewGenerator(f)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// settle steps the loop until the in-flight generation has been delivered.
func settle(t *testing.T, l *Loop, now time.Time) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.Scheduler().State() == scheduler.Running {
		if time.Now().After(deadline) {
			t.Fatal("generation did not complete")
		}
		time.Sleep(time.Millisecond)
		l.Update(now)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Config{Count: 5, Interval: time.Second}); err == nil {
		t.Error("New() without generator error = nil")
	}
	if _, err := New(Config{Generator: newGenerator(t, 1), Interval: time.Second}); err == nil {
		t.Error("New() with zero count error = nil")
	}
	if _, err := New(Config{Generator: newGenerator(t, 1), Count: 5}); err == nil {
		t.Error("New() with zero interval error = nil")
	}
}

func TestLoopDeliversBatchesToCompositor(t *testing.T) {
	var delivered []batch.Batch
	var buf bytes.Buffer
	l, err := New(Config{
		Generator: newGenerator(t, 3),
		Count:     5,
		Interval:  time.Second,
		Logger:    logging.New(&buf, slog.LevelDebug),
		OnBatch:   func(b batch.Batch) { delivered = append(delivered, b) },
	})
	if err != nil {
		t.Fatal(err)
	}

	l.Start(t0)
	now := t0.Add(time.Second)
	l.Update(now)
	settle(t, l, now)

	visible, ok := l.Compositor().Visible()
	if !ok || visible.Len() != 5 {
		t.Fatalf("visible batch = %+v, want 5 shapes", visible)
	}
	if len(delivered) != 1 || delivered[0].Seq != visible.Seq {
		t.Errorf("OnBatch observed %d batches, want the visible one", len(delivered))
	}

	now = now.Add(time.Second)
	l.Update(now)
	settle(t, l, now)

	st := l.Stats()
	if st.Batches != 2 || st.Failures != 0 || st.LastSeq != 2 {
		t.Errorf("Stats() = %+v, want 2 batches, last seq 2", st)
	}
	if st.Uptime < 2*time.Second {
		t.Errorf("Stats().Uptime = %v, want at least 2s", st.Uptime)
	}
	if !strings.Contains(buf.String(), "summary.count=5") {
		t.Errorf("debug log missing batch summary: %s", buf.String())
	}
}

func TestLoopFadesBetweenBatches(t *testing.T) {
	l, err := New(Config{
		Generator: newGenerator(t, 4),
		Count:     3,
		Interval:  time.Second,
		Fade:      500 * time.Millisecond,
		Floor:     compositor.DefaultFloor,
	})
	if err != nil {
		t.Fatal(err)
	}

	l.Start(t0)
	now := t0.Add(time.Second)
	l.Update(now)
	settle(t, l, now)

	if l.Compositor().Phase() != compositor.FadingOut {
		t.Fatalf("Phase() = %v after batch, want fading-out", l.Compositor().Phase())
	}
	l.Update(now.Add(600 * time.Millisecond))
	if _, ok := l.Compositor().Visible(); !ok {
		t.Error("batch not visible after fade-out elapsed")
	}
}

func TestLoopCountsFailures(t *testing.T) {
	var failures []error
	l, err := New(Config{
		Generator: batchGeneratorFailing(t),
		Count:     3,
		Interval:  time.Second,
		OnFailure: func(err error) { failures = append(failures, err) },
	})
	if err != nil {
		t.Fatal(err)
	}

	l.Start(t0)
	now := t0.Add(time.Second)
	l.Update(now)
	settle(t, l, now)

	if len(failures) != 1 || !errors.Is(failures[0], batch.ErrGeneration) {
		t.Fatalf("failures = %v, want one ErrGeneration", failures)
	}
	st := l.Stats()
	if st.Failures != 1 || st.Batches != 0 || st.LastErr == nil {
		t.Errorf("Stats() = %+v, want one failure", st)
	}
	if _, ok := l.Compositor().Visible(); ok {
		t.Error("failed cycle changed the visible layer")
	}
}

func TestStopPreventsLateSwap(t *testing.T) {
	l, err := New(Config{Generator: newGenerator(t, 5), Count: 2000, Interval: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	l.Start(t0)
	l.Update(t0.Add(time.Second))
	l.Stop()
	l.Stop()

	time.Sleep(20 * time.Millisecond)
	l.Update(t0.Add(5 * time.Second))
	if _, ok := l.Compositor().Visible(); ok {
		t.Error("batch swapped in after Stop")
	}
}

// invalidProducer yields shapes that never validate.
type invalidProducer struct{}

func (invalidProducer) Produce() shape.Spec {
	return shape.Spec{Kind: shape.Circle, Size: -1}
}

func batchGeneratorFailing(t *testing.T) *batch.Generator {
	t.Helper()
	g, err := batch.NewGenerator(invalidProducer{})
	if err != nil {
		t.Fatal(err)
	}
	return g
}
