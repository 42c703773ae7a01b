package color

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a color with 8-bit RGBA components.
type RGBA struct {
	R, G, B, A uint8
}

// White is the die-cut background color.
var White = RGBA{255, 255, 255, 255}

// FromStdColor converts a standard library color to RGBA.
// The result is non-premultiplied.
func FromStdColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ToStdColor converts RGBA to a standard library color.
func (c RGBA) ToStdColor() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex formats the color as #rrggbb.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a hex color string like "#000", "#000000", "#FF00FF".
// The leading '#' is optional.
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return RGBA{}, fmt.Errorf("invalid hex color %q: must be 3 or 6 hex digits", s)
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return RGBA{}, fmt.Errorf("invalid hex color %q: non-hex character %q", s, r)
		}
	}
	c, err := colorful.Hex("#" + strings.ToLower(s))
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: 255}, nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Matches reports whether every RGB channel of c lies strictly within
// tolerance of target. Alpha is ignored.
func Matches(c, target RGBA, tolerance int) bool {
	return ChebyshevRGB(c, target) < tolerance
}

// ChebyshevRGB returns the largest per-channel RGB difference between a and b.
func ChebyshevRGB(a, b RGBA) int {
	return max(absDiff(a.R, b.R), absDiff(a.G, b.G), absDiff(a.B, b.B))
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
