package renderer

import (
	"fmt"
	"math"
)

// Size is the closed set of named icon sizes.
type Size string

const (
	SizeXS  Size = "xs"
	SizeSM  Size = "sm"
	SizeMD  Size = "md"
	SizeLG  Size = "lg"
	SizeXL  Size = "xl"
	Size2XL Size = "2xl"
)

var sizeTable = map[Size]float64{
	SizeXS:  12,
	SizeSM:  16,
	SizeMD:  20,
	SizeLG:  24,
	SizeXL:  32,
	Size2XL: 48,
}

// Sizes lists the named sizes from smallest to largest.
func Sizes() []Size {
	return []Size{SizeXS, SizeSM, SizeMD, SizeLG, SizeXL, Size2XL}
}

// SizeNames lists the named sizes as strings, for schema validators and flags.
func SizeNames() []string {
	out := make([]string, 0, len(sizeTable))
	for _, s := range Sizes() {
		out = append(out, string(s))
	}
	return out
}

// ParseSize converts user input into a Size. An empty string is SizeMD.
func ParseSize(s string) (Size, error) {
	if s == "" {
		return SizeMD, nil
	}
	size := Size(s)
	if _, ok := sizeTable[size]; !ok {
		return "", fmt.Errorf("unknown icon size %q (want one of %v)", s, SizeNames())
	}
	return size, nil
}

// ResolveSize returns the pixel size for a render. A positive finite override
// wins; otherwise size is mapped through the size table. Sizes outside the
// table are a programming error and panic.
func ResolveSize(size Size, override float64) float64 {
	if override > 0 && !math.IsInf(override, 0) && !math.IsNaN(override) {
		return override
	}
	px, ok := sizeTable[size]
	if !ok {
		panic(fmt.Sprintf("renderer: unknown icon size %q", string(size)))
	}
	return px
}
