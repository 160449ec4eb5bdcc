package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"regexp"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MaxRasterPx bounds the edge of rasterised previews.
const MaxRasterPx = 1024

var currentColorPattern = regexp.MustCompile(`(?i)currentcolor`)

// RasterizePNG renders d to a square PNG of SizePx pixels. currentColor is
// replaced by a concrete paint first (see rasterPaint). Markup the vector
// rasteriser cannot handle is reported as a fault and drawn as the
// placeholder glyph.
func (r *Renderer) RasterizePNG(d Descriptor, paint string) ([]byte, error) {
	px := rasterSize(d.SizePx)
	col := rasterPaint(d, paint)

	var img *image.RGBA
	if !d.Fallback {
		var err error
		img, err = rasterizeMarkup(d.Markup, px, col)
		if err != nil {
			r.fault(Fault{Icon: d.Label, Reason: "rasterisation failed", Err: err})
		}
	}
	if img == nil {
		img = drawPlaceholder(px, col)
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func rasterSize(sizePx float64) int {
	px := int(math.Ceil(sizePx))
	if px < 1 {
		px = 1
	}
	if px > MaxRasterPx {
		px = MaxRasterPx
	}
	return px
}

func rasterizeMarkup(markup string, px int, col color.NRGBA) (img *image.RGBA, err error) {
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("panic while rasterising: %v", p)
		}
	}()

	markup = currentColorPattern.ReplaceAllString(markup, hexColor(col))
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to decode SVG: %w", err)
	}

	icon.SetTarget(0, 0, float64(px), float64(px))
	img = image.NewRGBA(image.Rect(0, 0, px, px))
	scanner := rasterx.NewScannerGV(px, px, img, img.Bounds())
	dasher := rasterx.NewDasher(px, px, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

// placeholder draws the "?" box used for fallback descriptors.
type placeholder struct {
	img *image.RGBA
}

func drawPlaceholder(px int, col color.NRGBA) *image.RGBA {
	p := &placeholder{img: image.NewRGBA(image.Rect(0, 0, px, px))}

	inset := px / 12
	radius := px / 8
	stroke := px / 12
	if stroke < 1 {
		stroke = 1
	}
	p.drawRoundedRect(inset, inset, px-2*inset, px-2*inset, radius, stroke, lighten(col, 85), col)
	p.drawText("?", px/2, px/2+basicfont.Face7x13.Ascent/2, col)
	return p.img
}

// drawRoundedRect fills a rounded rectangle and outlines it with a border
// of the given thickness.
func (p *placeholder) drawRoundedRect(x, y, w, h, radius, thickness int, fillColor, strokeColor color.Color) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if !insideRounded(dx, dy, w, h, radius) {
				continue
			}
			border := !insideRounded(dx-thickness, dy-thickness, w-2*thickness, h-2*thickness, radius-thickness)
			if border {
				p.setPixel(x+dx, y+dy, strokeColor)
			} else {
				p.setPixel(x+dx, y+dy, fillColor)
			}
		}
	}
}

// insideRounded reports whether (dx, dy) lies within a w by h rectangle
// whose corners are rounded by radius.
func insideRounded(dx, dy, w, h, radius int) bool {
	if dx < 0 || dy < 0 || dx >= w || dy >= h {
		return false
	}
	if radius <= 0 {
		return true
	}
	cx, cy := dx, dy
	switch {
	case dx < radius:
		cx = radius
	case dx >= w-radius:
		cx = w - radius - 1
	}
	switch {
	case dy < radius:
		cy = radius
	case dy >= h-radius:
		cy = h - radius - 1
	}
	ddx, ddy := dx-cx, dy-cy
	return ddx*ddx+ddy*ddy <= radius*radius
}

// drawText draws text horizontally centred on x with its baseline at y.
func (p *placeholder) drawText(text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  p.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.Dot.X -= d.MeasureString(text) / 2
	d.DrawString(text)
}

func (p *placeholder) setPixel(x, y int, col color.Color) {
	if x >= 0 && x < p.img.Bounds().Dx() && y >= 0 && y < p.img.Bounds().Dy() {
		p.img.Set(x, y, col)
	}
}
