// Package compositor holds the visible shape layer and cross-fades between
// batches.
package compositor

import (
	"time"

	"github.com/iburimskiy/overlay-it/internal/batch"
)

// DefaultFloor is the layer opacity at the bottom of a fade.
const DefaultFloor = 0.4

// Phase of the fade transition.
type Phase int

const (
	Idle Phase = iota
	FadingOut
	FadingIn
)

func (p Phase) String() string {
	switch p {
	case FadingOut:
		return "fading-out"
	case FadingIn:
		return "fading-in"
	default:
		return "idle"
	}
}

type Option func(*Compositor)

// WithFloor sets the opacity reached at the end of a fade-out. Values outside
// [0, 1) are ignored.
func WithFloor(floor float64) Option {
	return func(c *Compositor) {
		if floor >= 0 && floor < 1 {
			c.floor = floor
		}
	}
}

// WithTransitionHook observes phase changes.
func WithTransitionHook(fn func(from, to Phase)) Option {
	return func(c *Compositor) { c.onTransition = fn }
}

// Compositor owns the visible layer. It is driven from a single goroutine.
type Compositor struct {
	fade         time.Duration
	floor        float64
	onTransition func(from, to Phase)

	visible    batch.Batch
	hasVisible bool
	pending    batch.Batch
	hasPending bool

	opacity float64
	phase   Phase
	version uint64
}

// New returns a compositor with an empty layer. A zero fade swaps instantly.
func New(fade time.Duration, opts ...Option) *Compositor {
	c := &Compositor{
		fade:    fade,
		floor:   DefaultFloor,
		opacity: 1,
	}
	if c.fade < 0 {
		c.fade = 0
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Visible returns the batch currently on screen.
func (c *Compositor) Visible() (batch.Batch, bool) { return c.visible, c.hasVisible }

func (c *Compositor) Opacity() float64 { return c.opacity }

func (c *Compositor) Phase() Phase { return c.phase }

// Version increases every time the visible batch changes.
func (c *Compositor) Version() uint64 { return c.version }

// Swap replaces the visible layer with b. With fading enabled the swap takes
// effect once the layer has faded out; a later Swap before then supersedes b.
func (c *Compositor) Swap(b batch.Batch) {
	if c.fade == 0 {
		c.show(b)
		return
	}

	c.pending = b
	c.hasPending = true
	// A running fade-out keeps going toward the floor; anything else stops
	// and fades out from the current opacity.
	if c.phase != FadingOut {
		c.setPhase(FadingOut)
	}
}

// Advance moves the fade forward by dt.
func (c *Compositor) Advance(dt time.Duration) {
	if c.phase == Idle || dt <= 0 {
		return
	}
	step := (1 - c.floor) * dt.Seconds() / c.fade.Seconds()

	switch c.phase {
	case FadingOut:
		c.opacity -= step
		if c.opacity > c.floor {
			return
		}
		c.opacity = c.floor
		if c.hasPending {
			c.show(c.pending)
			c.pending = batch.Batch{}
			c.hasPending = false
		}
		c.setPhase(FadingIn)
	case FadingIn:
		c.opacity += step
		if c.opacity < 1 {
			return
		}
		c.opacity = 1
		c.setPhase(Idle)
	}
}

func (c *Compositor) show(b batch.Batch) {
	c.visible = b
	c.hasVisible = true
	c.version++
}

func (c *Compositor) setPhase(p Phase) {
	from := c.phase
	c.phase = p
	if c.onTransition != nil {
		c.onTransition(from, p)
	}
}
