package core

import "fmt"

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for HUD and chrome elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// RGB is an opaque 24-bit color value. Pieces and effects carry RGB colors
// so the presentation layer can pick true-color or palette output.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color in #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes c over bg with the given alpha (0 = bg, 1 = c).
// Alpha is clamped to [0, 1].
func (c RGB) Blend(bg RGB, alpha float64) RGB {
	a := ClampF(alpha, 0, 1)
	mix := func(fg, back uint8) uint8 {
		return uint8(float64(back) + (float64(fg)-float64(back))*a + 0.5)
	}
	return RGB{
		R: mix(c.R, bg.R),
		G: mix(c.G, bg.G),
		B: mix(c.B, bg.B),
	}
}

// Black is the board background.
var Black = RGB{}

// White is used for flashes and borders.
var White = RGB{R: 255, G: 255, B: 255}
