package scheduler

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Cycle records the outcome of one generation.
type Cycle struct {
	Started  time.Time
	Duration time.Duration
	Skipped  int
	Failed   bool
}

// History keeps the last N cycles in a ring buffer so the HUD can read
// recent timings while the event loop keeps recording.
type History struct {
	buffer    []Cycle
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func NewHistory(ringSize int) *History {
	if ringSize < 1 {
		ringSize = 1
	}
	return &History{buffer: make([]Cycle, ringSize)}
}

func (h *History) record(c Cycle) {
	h.mu.Lock()
	h.buffer[h.nextIndex] = c
	h.nextIndex++
	if h.nextIndex >= len(h.buffer) {
		h.nextIndex = 0
	}
	if h.filled < len(h.buffer) {
		h.filled++
	}
	h.mu.Unlock()
}

// Snapshot returns up to the last n cycles, oldest first.
func (h *History) Snapshot(n int) []Cycle {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > h.filled {
		n = h.filled
	}
	if n < 0 {
		n = 0
	}
	out := make([]Cycle, n)
	// Walk backwards from nextIndex - 1
	idx := h.nextIndex
	for i := n - 1; i >= 0; i-- {
		idx--
		if idx < 0 {
			idx = len(h.buffer) - 1
		}
		out[i] = h.buffer[idx]
	}
	return out
}

// MeanDuration averages the successful cycles currently held.
func (h *History) MeanDuration() time.Duration {
	cycles := h.Snapshot(len(h.buffer))
	durations := make([]float64, 0, len(cycles))
	for _, c := range cycles {
		if !c.Failed {
			durations = append(durations, float64(c.Duration))
		}
	}
	if len(durations) == 0 {
		return 0
	}
	return time.Duration(stat.Mean(durations, nil))
}
