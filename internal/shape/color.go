package shape

import (
	"fmt"
	"image/color"
	"math"
)

// desaturateFactor scales HSB saturation when deriving a stroke from a fill.
const desaturateFactor = 0.7

// Color is a straight (non-premultiplied) RGB color with a fractional alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

// NRGBA converts c for use with image/color based APIs.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// Desaturate returns c with its saturation reduced, hue, brightness and
// alpha unchanged.
func (c Color) Desaturate() Color {
	h, s, v := rgbToHsv(c.R, c.G, c.B)
	r, g, b := hsvToRgb(h, s*desaturateFactor, v)
	return Color{R: r, G: g, B: b, A: c.A}
}

func (c Color) validate() error {
	if math.IsNaN(c.A) || c.A < 0 || c.A > 1 {
		return fmt.Errorf("alpha %v out of [0,1]", c.A)
	}
	return nil
}

// rgbToHsv converts RGB to HSV (hue: 0-360, saturation: 0-1, value: 0-1)
func rgbToHsv(r8, g8, b8 uint8) (h, s, v float64) {
	r, g, b := float64(r8)/255, float64(g8)/255, float64(b8)/255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	delta := hi - lo

	v = hi
	if hi > 0 {
		s = delta / hi
	}
	if delta == 0 {
		return 0, s, v
	}

	switch hi {
	case r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return to255(r + m), to255(g + m), to255(b + m)
}

func to255(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
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
