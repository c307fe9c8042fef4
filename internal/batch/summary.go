package batch

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/overlay-it/internal/shape"
)

// Summary describes a batch for diagnostics.
type Summary struct {
	Count     int
	Circles   int
	Squares   int
	Lines     int
	Dots      int
	MeanSize  float64
	StdSize   float64
	MeanAlpha float64
}

// Summarize computes per-kind counts and size/alpha moments.
func Summarize(b Batch) Summary {
	sum := Summary{Count: b.Len()}
	if sum.Count == 0 {
		return sum
	}

	sizes := make([]float64, 0, sum.Count)
	alphas := make([]float64, 0, sum.Count)
	for _, s := range b.Shapes {
		switch s.Kind {
		case shape.Circle:
			sum.Circles++
		case shape.Rectangle:
			sum.Squares++
		case shape.Line:
			sum.Lines++
			if s.IsDot() {
				sum.Dots++
			}
		}
		sizes = append(sizes, s.Size)
		alphas = append(alphas, s.Fill.A)
	}

	sum.MeanSize, sum.StdSize = stat.MeanStdDev(sizes, nil)
	sum.MeanAlpha = stat.Mean(alphas, nil)
	return sum
}

// LogValue renders the summary as a slog group.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Int("circles", s.Circles),
		slog.Int("squares", s.Squares),
		slog.Int("lines", s.Lines),
		slog.Int("dots", s.Dots),
		slog.Float64("mean_size", s.MeanSize),
		slog.Float64("std_size", s.StdSize),
		slog.Float64("mean_alpha", s.MeanAlpha),
	)
}
