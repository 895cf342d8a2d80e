package body

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple with components in [0,1].
type Color struct {
	R, G, B float64
}

var DefaultColor = Color{R: 0.78, G: 0.78, B: 1.0}

// ParseHex reads "#rrggbb".
func ParseHex(hex string) (Color, error) {
	if len(hex) != 7 {
		return Color{}, fmt.Errorf("body: invalid colour %q", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("body: invalid colour %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// Hex formats c as "#rrggbb", clamping out-of-range components.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
