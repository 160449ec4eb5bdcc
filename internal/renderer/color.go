package renderer

import "strings"

// DefaultVariant is the token variant used when none is given.
const DefaultVariant = "default"

// ColorKind is the active color resolution path.
type ColorKind string

const (
	ColorTokenVariant ColorKind = "token-variant"
	ColorCustom       ColorKind = "custom"
	ColorInherit      ColorKind = "inherit"
)

// ColorMode is the resolved color of a render. Value holds the variant for
// ColorTokenVariant and the color string for ColorCustom.
type ColorMode struct {
	Kind  ColorKind
	Value string
}

// ResolveColor picks exactly one color path: a non-empty custom color wins,
// then inherit when adaptive colors are off, then the variant token.
func ResolveColor(variant, custom string, adaptive bool) ColorMode {
	if c := strings.TrimSpace(custom); c != "" {
		return ColorMode{Kind: ColorCustom, Value: c}
	}
	if !adaptive {
		return ColorMode{Kind: ColorInherit}
	}
	if variant == "" {
		variant = DefaultVariant
	}
	return ColorMode{Kind: ColorTokenVariant, Value: variant}
}

// String returns "custom:<color>", "token-variant:<variant>" or "inherit".
func (c ColorMode) String() string {
	if c.Kind == ColorInherit || c.Kind == "" {
		return string(ColorInherit)
	}
	return string(c.Kind) + ":" + c.Value
}

// CSSValue returns the value for a CSS color property.
func (c ColorMode) CSSValue() string {
	switch c.Kind {
	case ColorCustom:
		return c.Value
	case ColorTokenVariant:
		return "var(--icon-color-" + c.Value + ")"
	default:
		return "inherit"
	}
}
