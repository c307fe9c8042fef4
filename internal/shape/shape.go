// Package shape produces randomly parameterized circles, squares and
// axis-aligned lines for the overlay.
package shape

import (
	"errors"
	"fmt"
	"math"
)

// Kind discriminates the geometry carried by a Spec.
type Kind int

const (
	Circle Kind = iota
	Rectangle
	Line

	kindCount = 3
)

func (k Kind) String() string {
	switch k {
	case Circle:
		return "circle"
	case Rectangle:
		return "rectangle"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrMalformed reports a spec whose parameters cannot be rendered.
var ErrMalformed = errors.New("malformed shape")

// Spec is one generated shape. Specs are values; nothing mutates them after
// Produce returns.
type Spec struct {
	Kind Kind
	// Size is the scalar draw every geometry is derived from: the circle
	// diameter, the square side or the line length.
	Size float64

	Radius        float64 // Circle
	Width, Height float64 // Rectangle
	DX, DY        float64 // Line, second endpoint relative to the first

	// X, Y locate the top-left corner of the geometric bounding box.
	X, Y float64

	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// Extent returns the width and height of the shape's geometric bounding box,
// stroke excluded.
func (s Spec) Extent() (w, h float64) {
	switch s.Kind {
	case Circle:
		return 2 * s.Radius, 2 * s.Radius
	case Rectangle:
		return s.Width, s.Height
	case Line:
		return math.Abs(s.DX), math.Abs(s.DY)
	}
	return 0, 0
}

// Center returns the circle center in canvas coordinates.
func (s Spec) Center() (cx, cy float64) {
	return s.X + s.Radius, s.Y + s.Radius
}

// Endpoints returns the line endpoints in canvas coordinates. A negative
// offset places the first endpoint on the far side of the bounding box.
func (s Spec) Endpoints() (x1, y1, x2, y2 float64) {
	x1 = s.X + math.Max(0, -s.DX)
	y1 = s.Y + math.Max(0, -s.DY)
	return x1, y1, x1 + s.DX, y1 + s.DY
}

// IsDot reports whether a line degenerated to a zero-length segment.
func (s Spec) IsDot() bool {
	return s.Kind == Line && s.DX == 0 && s.DY == 0
}

// Validate checks that every parameter is finite and in range.
func (s Spec) Validate() error {
	if s.Kind < 0 || s.Kind >= kindCount {
		return fmt.Errorf("%w: unknown %v", ErrMalformed, s.Kind)
	}
	for _, v := range []float64{s.Size, s.Radius, s.Width, s.Height, s.DX, s.DY, s.X, s.Y, s.StrokeWidth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite parameter in %v", ErrMalformed, s.Kind)
		}
	}
	if s.Size < 0 || s.Radius < 0 || s.Width < 0 || s.Height < 0 || s.StrokeWidth < 0 {
		return fmt.Errorf("%w: negative extent in %v", ErrMalformed, s.Kind)
	}
	if err := s.Fill.validate(); err != nil {
		return fmt.Errorf("%w: fill: %v", ErrMalformed, err)
	}
	if err := s.Stroke.validate(); err != nil {
		return fmt.Errorf("%w: stroke: %v", ErrMalformed, err)
	}
	return nil
}
