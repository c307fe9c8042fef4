package shape

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// maxSizeDivisor relates the largest shape to the canvas width.
const maxSizeDivisor = 8

// ErrInvalidCanvas reports canvas bounds no shape can be generated for.
var ErrInvalidCanvas = errors.New("invalid canvas")

// Rand is the random source consumed by the factory.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// NewRand returns a PCG-backed source. A zero seed draws one from the
// runtime's entropy.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Canvas holds the drawing bounds and the size range of generated shapes.
type Canvas struct {
	Width, Height    float64
	MinSize, MaxSize float64
}

// NewCanvas derives the size range from the background dimensions: the
// largest shape is an eighth of the width, the smallest half of that.
func NewCanvas(width, height float64) (Canvas, error) {
	c := Canvas{Width: width, Height: height}
	c.MaxSize = width / maxSizeDivisor
	c.MinSize = c.MaxSize / 2
	if err := c.Validate(); err != nil {
		return Canvas{}, err
	}
	return c, nil
}

// Validate rejects empty, non-finite or inverted bounds.
func (c Canvas) Validate() error {
	for _, v := range []float64{c.Width, c.Height, c.MinSize, c.MaxSize} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: %gx%g, sizes [%g, %g)", ErrInvalidCanvas, c.Width, c.Height, c.MinSize, c.MaxSize)
		}
	}
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("%w: min size %g exceeds max size %g", ErrInvalidCanvas, c.MinSize, c.MaxSize)
	}
	return nil
}

// Factory binds a canvas to a random source.
// It is not safe for concurrent use; the source is mutated on every call.
type Factory struct {
	canvas Canvas
	rng    Rand
}

func NewFactory(c Canvas, rng Rand) (*Factory, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.New("shape: nil random source")
	}
	return &Factory{canvas: c, rng: rng}, nil
}

func (f *Factory) Canvas() Canvas { return f.canvas }

func (f *Factory) Produce() Spec {
	return Produce(f.canvas, f.rng)
}

// Produce draws one shape. Values are consumed from rng in a fixed order:
// kind, geometry, fill red, green, blue, alpha, then x and y.
func Produce(c Canvas, rng Rand) Spec {
	s := Spec{Kind: Kind(rng.IntN(kindCount))}

	switch s.Kind {
	case Circle:
		s.Size = randomSize(c, rng)
		s.Radius = s.Size / 2
	case Rectangle:
		s.Size = randomSize(c, rng)
		s.Width, s.Height = s.Size, s.Size
	case Line:
		// Offsets run along one axis. When x is zero, y may be zero too and
		// the line collapses to a dot.
		xZero := randomBool(rng)
		yZero := randomBool(rng) || !xZero
		xSign := randomSign(rng)
		ySign := randomSign(rng)
		s.Size = randomSize(c, rng)
		if !xZero {
			s.DX = xSign * s.Size
		}
		if !yZero {
			s.DY = ySign * s.Size
		}
	}

	s.Fill = randomColor(rng)
	s.Stroke = s.Fill.Desaturate()
	w, h := s.Extent()
	s.StrokeWidth = math.Max(w, h) / 10

	s.X = rng.Float64()*(c.Width+c.MaxSize) - c.MaxSize/2
	s.Y = rng.Float64()*(c.Height+c.MaxSize) - c.MaxSize/2
	return s
}

func randomSize(c Canvas, rng Rand) float64 {
	return rng.Float64()*(c.MaxSize-c.MinSize) + c.MinSize
}

func randomColor(rng Rand) Color {
	return Color{
		R: uint8(rng.IntN(256)),
		G: uint8(rng.IntN(256)),
		B: uint8(rng.IntN(256)),
		A: 0.1 + rng.Float64()*0.9,
	}
}

func randomBool(rng Rand) bool {
	return rng.IntN(2) == 1
}

func randomSign(rng Rand) float64 {
	if randomBool(rng) {
		return 1
	}
	return -1
}
