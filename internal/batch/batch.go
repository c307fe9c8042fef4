// Package batch generates fixed-size collections of shapes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/iburimskiy/overlay-it/internal/shape"
)

// ErrGeneration wraps every failure of a generation cycle.
var ErrGeneration = errors.New("batch generation failed")

// cancelCheckEvery bounds how many shapes are produced between context checks.
const cancelCheckEvery = 64

// Batch is the output of one generation cycle. Once handed to a consumer the
// producer never touches it again.
type Batch struct {
	Seq    uint64
	Shapes []shape.Spec
}

func (b Batch) Len() int { return len(b.Shapes) }

// Producer yields one shape per call. *shape.Factory satisfies it.
type Producer interface {
	Produce() shape.Spec
}

// Generator drives a Producer. Generate must not be called concurrently; the
// scheduler guarantees at most one generation in flight.
type Generator struct {
	producer Producer
	seq      atomic.Uint64
}

func NewGenerator(p Producer) (*Generator, error) {
	if p == nil {
		return nil, errors.New("batch: nil producer")
	}
	return &Generator{producer: p}, nil
}

// Generate produces exactly count shapes in call order. On any failure no
// partial batch is returned.
func (g *Generator) Generate(ctx context.Context, count int) (Batch, error) {
	if count <= 0 {
		return Batch{}, fmt.Errorf("%w: count %d must be positive", ErrGeneration, count)
	}

	shapes := make([]shape.Spec, 0, count)
	for i := 0; i < count; i++ {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Batch{}, fmt.Errorf("%w: %w", ErrGeneration, err)
			}
		}
		s := g.producer.Produce()
		if err := s.Validate(); err != nil {
			return Batch{}, fmt.Errorf("%w: shape %d: %w", ErrGeneration, i, err)
		}
		shapes = append(shapes, s)
	}

	return Batch{Seq: g.seq.Add(1), Shapes: shapes}, nil
}
