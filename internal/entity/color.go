package entity

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Predefined colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	alpha := 1.0
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// Bytes encodes the color as normalized unsigned bytes.
func (c Color) Bytes() [4]uint8 {
	return [4]uint8{floatToByte(c.R), floatToByte(c.G), floatToByte(c.B), floatToByte(c.A)}
}

// LerpColor blends two colors component-wise.
func LerpColor(a, b Color, f float64) Color {
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	m := ca.BlendRgb(cb, f)
	return Color{R: m.R, G: m.G, B: m.B, A: a.A + (b.A-a.A)*f}
}

func floatToByte(v float64) uint8 {
	if v >= 1 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v * 256)
}
