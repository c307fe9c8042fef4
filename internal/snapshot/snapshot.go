// Package snapshot renders a batch over its background without a window.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/iburimskiy/overlay-it/internal/batch"
	"github.com/iburimskiy/overlay-it/internal/shape"
)

// Layer rasterizes b on a transparent canvas of the given size.
func Layer(width, height int, b batch.Batch) (image.Image, error) {
	dc := gg.NewContext(width, height)
	defer dc.Close()

	dc.SetLineCap(gg.LineCapRound)
	for i, s := range b.Shapes {
		if err := drawShape(dc, s); err != nil {
			return nil, fmt.Errorf("snapshot: shape %d: %w", i, err)
		}
	}
	return dc.Image(), nil
}

// Render composites b over bg with the whole layer at the given opacity.
// The result is clipped to the background bounds.
func Render(bg image.Image, b batch.Batch, opacity float64) (*image.RGBA, error) {
	bounds := bg.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), bg, bounds.Min, draw.Src)

	layer, err := Layer(bounds.Dx(), bounds.Dy(), b)
	if err != nil {
		return nil, err
	}
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(opacity)*255 + 0.5)})
	draw.DrawMask(out, out.Bounds(), layer, layer.Bounds().Min, mask, image.Point{}, draw.Over)
	return out, nil
}

// Save writes img to path as PNG.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func drawShape(dc *gg.Context, s shape.Spec) error {
	switch s.Kind {
	case shape.Circle:
		cx, cy := s.Center()
		dc.DrawCircle(cx, cy, s.Radius)
		setColor(dc, s.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	case shape.Rectangle:
		dc.DrawRectangle(s.X, s.Y, s.Width, s.Height)
		setColor(dc, s.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	case shape.Line:
		if s.StrokeWidth == 0 {
			return nil
		}
		x1, y1, x2, y2 := s.Endpoints()
		dc.DrawLine(x1, y1, x2, y2)
	}

	if s.StrokeWidth == 0 {
		dc.ClearPath()
		return nil
	}
	setColor(dc, s.Stroke)
	dc.SetLineWidth(s.StrokeWidth)
	return dc.Stroke()
}

func setColor(dc *gg.Context, c shape.Color) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, c.A)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
