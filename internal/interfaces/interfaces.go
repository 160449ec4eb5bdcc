// Package interfaces defines interfaces for dependency injection and testing
package interfaces

import (
	"context"

	"github.com/ankek/terraform-provider-iconset/internal/ingest"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
	"github.com/ankek/terraform-provider-iconset/internal/renderer"
	"github.com/ankek/terraform-provider-iconset/internal/validation"
)

// Ingestor defines the icon ingestion operations
type Ingestor interface {
	// AddIcon validates, canonicalises and registers an uploaded file
	AddIcon(ctx context.Context, f ingest.File, name string) (registry.Record, error)

	// RemoveIcon deletes a record by id; unknown ids are not an error
	RemoveIcon(ctx context.Context, id string) error

	// ClearAll deletes every record
	ClearAll(ctx context.Context) error

	Icons(ctx context.Context) ([]registry.Record, error)
	Lookup(ctx context.Context, name string) (registry.Record, bool, error)
	Get(ctx context.Context, id string) (registry.Record, bool, error)
}

// IconRenderer defines the interface for producing render descriptors and
// their encodings
type IconRenderer interface {
	RenderNamed(ctx context.Context, name string, opts renderer.Options) renderer.Descriptor
	RasterizePNG(d renderer.Descriptor, paint string) ([]byte, error)
	Export(ctx context.Context, d renderer.Descriptor, outputPath, format, paint string) error
}

// SourceOpener resolves a source reference (path or URL) into a file
type SourceOpener interface {
	Open(ctx context.Context, ref string) (ingest.File, error)
}

// PathValidator defines the interface for validating file paths
type PathValidator interface {
	// ValidateOutputPath validates an output path for security and accessibility
	ValidateOutputPath(path string) error

	// ValidateInputPath validates an input path (icon file or manifest directory)
	ValidateInputPath(path string, mustBeDir bool) error
}

// FSValidator is the PathValidator backed by the validation package
type FSValidator struct{}

func (FSValidator) ValidateOutputPath(path string) error {
	return validation.ValidateOutputPath(path)
}

func (FSValidator) ValidateInputPath(path string, mustBeDir bool) error {
	return validation.ValidateInputPath(path, mustBeDir)
}
