package renderer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/srwiley/oksvg"
)

// DefaultPaint is used for rasterising when neither the descriptor nor the
// caller names a concrete color.
const DefaultPaint = "#000000"

// ParsePaint parses a concrete SVG color: a named color, #rgb, #rrggbb or
// rgb(r,g,b). "none" and CSS-only values such as currentColor or var() are
// rejected.
func ParsePaint(s string) (c color.NRGBA, err error) {
	defer func() {
		if p := recover(); p != nil {
			c, err = color.NRGBA{}, fmt.Errorf("invalid paint %q", s)
		}
	}()

	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty paint")
	}
	if strings.HasPrefix(strings.ToLower(s), "url") {
		return color.NRGBA{}, fmt.Errorf("unsupported paint %q", s)
	}
	if strings.HasPrefix(s, "#") && len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid paint %q", s)
	}
	parsed, err := oksvg.ParseSVGColor(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid paint %q: %w", s, err)
	}
	if parsed == nil {
		return color.NRGBA{}, fmt.Errorf("paint %q is not a color", s)
	}
	return color.NRGBAModel.Convert(parsed).(color.NRGBA), nil
}

// rasterPaint picks the concrete paint for a descriptor: a parseable custom
// color first, then the caller's paint, then DefaultPaint.
func rasterPaint(d Descriptor, paint string) color.NRGBA {
	if d.Color.Kind == ColorCustom {
		if c, err := ParsePaint(d.Color.Value); err == nil {
			return c
		}
	}
	if c, err := ParsePaint(paint); err == nil {
		return c
	}
	c, _ := ParsePaint(DefaultPaint)
	return c
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// lighten mixes c towards white by percent.
func lighten(c color.NRGBA, percent int) color.NRGBA {
	f := float64(percent) / 100.0
	mix := func(v uint8) uint8 {
		n := float64(v) + (255-float64(v))*f
		if n > 255 {
			n = 255
		}
		return uint8(n)
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
