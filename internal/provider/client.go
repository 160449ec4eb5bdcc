// Package provider implements the Terraform provider for the iconset icon
// registry: an icon resource for uploads and data sources for rendering and
// listing registered icons.
package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-iconset/internal/config"
	"github.com/ankek/terraform-provider-iconset/internal/ingest"
	"github.com/ankek/terraform-provider-iconset/internal/interfaces"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
	"github.com/ankek/terraform-provider-iconset/internal/renderer"
	"github.com/ankek/terraform-provider-iconset/internal/source"
)

// Client holds the services shared by the resource and data source
// implementations. It is handed out through the provider's Configure.
type Client struct {
	Config   config.Config
	Store    registry.Store
	Icons    interfaces.Ingestor
	Renderer interfaces.IconRenderer
	Sources  interfaces.SourceOpener
}

// NewClient opens the configured registry and wires the services around it.
func NewClient(cfg config.Config, logger hclog.Logger) (*Client, error) {
	store, err := registry.Open(cfg.StoreBackend, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon registry: %w", err)
	}

	svc := ingest.NewService(store, ingest.Config{MaxBytes: cfg.MaxBytes}, ingest.WithLogger(logger))
	return &Client{
		Config:   cfg,
		Store:    store,
		Icons:    svc,
		Renderer: renderer.New(store, renderer.WithLogger(logger)),
		Sources:  source.NewOpener(source.NewHTTPClient(cfg.HTTPRetryMax, cfg.HTTPTimeout, logger), cfg.MaxBytes),
	}, nil
}

// Close releases the registry.
func (c *Client) Close() error {
	return c.Store.Close()
}

// AddFromSource opens ref and registers it under name (derived from the
// file name when empty).
func (c *Client) AddFromSource(ctx context.Context, ref, name string) (registry.Record, error) {
	f, err := c.Sources.Open(ctx, ref)
	if err != nil {
		return registry.Record{}, err
	}
	return c.Icons.AddIcon(ctx, f, name)
}

// RenderRequest is the input of the render data source.
type RenderRequest struct {
	Name    string
	Options renderer.Options
	Preview bool
	Paint   string
}

// RenderResult is the output of the render data source.
type RenderResult struct {
	Descriptor renderer.Descriptor
	Inline     string
	DataURI    string
	PreviewPNG string // base64, empty unless requested
}

// Render resolves a named icon. Unknown or corrupted icons produce a
// fallback descriptor rather than an error.
func (c *Client) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	d := c.Renderer.RenderNamed(ctx, req.Name, req.Options)
	res := RenderResult{
		Descriptor: d,
		Inline:     d.Inline(),
		DataURI:    d.DataURI(),
	}
	if req.Preview {
		png, err := c.Renderer.RasterizePNG(d, req.Paint)
		if err != nil {
			return res, fmt.Errorf("failed to render preview: %w", err)
		}
		res.PreviewPNG = base64.StdEncoding.EncodeToString(png)
	}
	return res, nil
}

// errorSummary maps ingestion errors to a diagnostic summary.
func errorSummary(err error) string {
	switch {
	case errors.Is(err, ingest.ErrNotSvg):
		return "Icon source is not an SVG file"
	case errors.Is(err, ingest.ErrTooLarge):
		return "Icon source exceeds the size limit"
	case errors.Is(err, ingest.ErrUnreadableFile):
		return "Icon source could not be read"
	case ingest.IsMalformed(err):
		return "Icon source is not well-formed SVG"
	case errors.Is(err, ingest.ErrDuplicateName):
		return "Icon name already registered"
	case errors.Is(err, ingest.ErrInvalidName):
		return "Invalid icon name"
	case errors.Is(err, ingest.ErrProcessing):
		return "Icon processing failed"
	default:
		return "Icon registry error"
	}
}
