package shape

import (
	"math"
	"testing"
)

func TestDesaturateKeepsGray(t *testing.T) {
	gray := Color{R: 128, G: 128, B: 128, A: 0.3}
	if got := gray.Desaturate(); got != gray {
		t.Errorf("Desaturate(%+v) = %+v, want unchanged", gray, got)
	}
}

func TestDesaturateReducesSaturation(t *testing.T) {
	colors := []Color{
		{R: 255, G: 0, B: 0, A: 1},
		{R: 12, G: 200, B: 90, A: 0.4},
		{R: 30, G: 60, B: 240, A: 0.75},
		{R: 250, G: 240, B: 10, A: 0.1},
	}
	for _, c := range colors {
		h0, s0, v0 := rgbToHsv(c.R, c.G, c.B)
		d := c.Desaturate()
		h1, s1, v1 := rgbToHsv(d.R, d.G, d.B)

		if math.Abs(s1-s0*desaturateFactor) > 0.02 {
			t.Errorf("Desaturate(%+v) saturation = %.3f, want %.3f", c, s1, s0*desaturateFactor)
		}
		if math.Abs(h1-h0) > 2 {
			t.Errorf("Desaturate(%+v) hue = %.1f, want %.1f", c, h1, h0)
		}
		if math.Abs(v1-v0) > 0.01 {
			t.Errorf("Desaturate(%+v) value = %.3f, want %.3f", c, v1, v0)
		}
		if d.A != c.A {
			t.Errorf("Desaturate(%+v) alpha = %v, want %v", c, d.A, c.A)
		}
	}
}

func TestHsvRoundTrip(t *testing.T) {
	for _, c := range []Color{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}, {R: 200, G: 100, B: 50}, {R: 7, G: 99, B: 201}} {
		r, g, b := hsvToRgb(rgbToHsv(c.R, c.G, c.B))
		if r != c.R || g != c.G || b != c.B {
			t.Errorf("round trip of %+v = (%d, %d, %d)", c, r, g, b)
		}
	}
}

func TestNRGBA(t *testing.T) {
	got := Color{R: 1, G: 2, B: 3, A: 0.5}.NRGBA()
	if got.R != 1 || got.G != 2 || got.B != 3 || got.A != 128 {
		t.Errorf("NRGBA() = %+v, want {1 2 3 128}", got)
	}
}
