package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/overlay-it/internal/shape"
)

// rasterize redraws the cached layer from scratch.
func (g *Game) rasterize(shapes []shape.Spec) {
	if g.layer == nil {
		g.layer = ebiten.NewImage(g.width, g.height)
	}
	g.layer.Clear()
	for _, s := range shapes {
		drawShape(g.layer, s)
	}
}

func drawShape(dst *ebiten.Image, s shape.Spec) {
	fill := s.Fill.NRGBA()
	stroke := s.Stroke.NRGBA()
	sw := float32(s.StrokeWidth)

	switch s.Kind {
	case shape.Circle:
		cx, cy := s.Center()
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(s.Radius), fill, true)
		vector.StrokeCircle(dst, float32(cx), float32(cy), float32(s.Radius), sw, stroke, true)
	case shape.Rectangle:
		vector.DrawFilledRect(dst, float32(s.X), float32(s.Y), float32(s.Width), float32(s.Height), fill, true)
		vector.StrokeRect(dst, float32(s.X), float32(s.Y), float32(s.Width), float32(s.Height), sw, stroke, true)
	case shape.Line:
		if sw == 0 {
			return
		}
		x1, y1, x2, y2 := s.Endpoints()
		vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), sw, stroke, true)
		// Round caps.
		vector.DrawFilledCircle(dst, float32(x1), float32(y1), sw/2, stroke, true)
		vector.DrawFilledCircle(dst, float32(x2), float32(y2), sw/2, stroke, true)
	}
}
