package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ankek/terraform-provider-iconset/internal/validation"
)

// Export formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats returns the supported export formats.
func Formats() []string {
	return []string{FormatSVG, FormatPNG}
}

// Encode returns d in the given format: inline markup for svg, a raster
// preview painted with paint for png.
func (r *Renderer) Encode(d Descriptor, format, paint string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatSVG, "":
		return []byte(d.Inline()), nil
	case FormatPNG:
		return r.RasterizePNG(d, paint)
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats(), ", "))
	}
}

// Export writes d to outputPath in the given format.
func (r *Renderer) Export(ctx context.Context, d Descriptor, outputPath, format, paint string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := validation.ValidateOutputPath(outputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	data, err := r.Encode(d, format, paint)
	if err != nil {
		return err
	}
	return writeFile(outputPath, data)
}
