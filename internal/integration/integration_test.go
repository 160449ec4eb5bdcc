package integration

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ankek/terraform-provider-iconset/internal/config"
	"github.com/ankek/terraform-provider-iconset/internal/ingest"
	"github.com/ankek/terraform-provider-iconset/internal/manifest"
	"github.com/ankek/terraform-provider-iconset/internal/provider"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
	"github.com/ankek/terraform-provider-iconset/internal/renderer"
	"github.com/ankek/terraform-provider-iconset/internal/source"
)

const arrowSVG = `<svg width="24" height="24"><path fill="#000" d="M0 0"/></svg>`

// TestFullPipeline uploads, renders and removes an icon on every persistent
// backend, then reopens the registry to check durability.
func TestFullPipeline(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		file    string
	}{
		{name: "file backend", backend: registry.BackendFile, file: "icons.json"},
		{name: "sqlite backend", backend: registry.BackendSQLite, file: "icons.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			ctx := context.Background()

			// Step 1: Write a 500 byte upload
			content := arrowSVG + strings.Repeat(" ", 500-len(arrowSVG))
			src := filepath.Join(tmpDir, "arrow.svg")
			if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
				t.Fatalf("Failed to create icon file: %v", err)
			}

			cfg := config.Default()
			cfg.StoreBackend = tt.backend
			cfg.StorePath = filepath.Join(tmpDir, tt.file)

			// Step 2: Upload
			client, err := provider.NewClient(cfg, nil)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			rec, err := client.AddFromSource(ctx, src, "")
			if err != nil {
				t.Fatalf("AddFromSource() error = %v", err)
			}
			if rec.Name != "arrow" {
				t.Errorf("Name = %q, want arrow", rec.Name)
			}
			want := `<svg viewBox="0 0 24 24"><path fill="currentColor" d="M0 0"/></svg>`
			if rec.Markup != want {
				t.Errorf("Markup = %s, want %s", rec.Markup, want)
			}

			// Step 3: Render with a preview
			opts := renderer.DefaultOptions()
			opts.Size = renderer.SizeLG
			res, err := client.Render(ctx, provider.RenderRequest{Name: "arrow", Options: opts, Preview: true, Paint: "#336699"})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if res.Descriptor.Fallback || res.Descriptor.SizePx != 24 {
				t.Errorf("Descriptor = %+v", res.Descriptor)
			}
			if !strings.Contains(res.Inline, `width="24"`) || res.PreviewPNG == "" {
				t.Errorf("Render() inline = %s, preview empty = %v", res.Inline, res.PreviewPNG == "")
			}
			if err := client.Store.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			// Step 4: Reopen and verify durability
			client, err = provider.NewClient(cfg, nil)
			if err != nil {
				t.Fatalf("NewClient() reopen error = %v", err)
			}
			defer client.Store.Close()

			got, ok, err := client.Icons.Get(ctx, rec.ID)
			if err != nil || !ok {
				t.Fatalf("Get() after reopen = %v, %v", ok, err)
			}
			if got.Markup != rec.Markup || !got.UploadedAt.Equal(rec.UploadedAt) {
				t.Errorf("reopened record = %+v, want %+v", got, rec)
			}

			// Step 5: Remove
			if err := client.Icons.RemoveIcon(ctx, rec.ID); err != nil {
				t.Fatalf("RemoveIcon() error = %v", err)
			}
			list, err := client.Icons.Icons(ctx)
			if err != nil || len(list) != 0 {
				t.Errorf("Icons() after remove = %v, %v", list, err)
			}
		})
	}
}

// TestManifestImportEndToEnd imports local and remote icons from a manifest
// and exports each one to disk.
func TestManifestImportEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/star.svg":
			w.Header().Set("Content-Type", ingest.SVGMediaType)
			w.Write([]byte(`<svg viewBox="0 0 10 10"><path stroke="red" d="M0 0"/></svg>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tmpDir := t.TempDir()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(tmpDir, "arrow.svg"), []byte(arrowSVG), 0o644); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(tmpDir, "icons.hcl")
	body := `
icon "arrow" {
  source = "${manifest_dir}/arrow.svg"
}

icon "star" {
  source = "` + srv.URL + `/star.svg"
}

icon "gone" {
  source = "` + srv.URL + `/gone.svg"
}
`
	if err := os.WriteFile(manifestPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := registry.OpenSQLiteStore(filepath.Join(tmpDir, "icons.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	svc := ingest.NewService(store, ingest.Config{})
	opener := source.NewOpener(source.NewHTTPClient(0, config.Default().HTTPTimeout, nil), config.DefaultMaxBytes)
	rend := renderer.New(store)

	entries, err := manifest.ParseFile(manifestPath)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	report := manifest.Import(ctx, svc, opener, entries)
	if len(report.Added) != 2 || len(report.Failed) != 1 {
		t.Fatalf("Import() added %d failed %d, want 2 and 1", len(report.Added), len(report.Failed))
	}
	if report.Failed[0].Entry.Name != "gone" || !errors.Is(report.Failed[0].Err, ingest.ErrUnreadableFile) {
		t.Errorf("Failed = %+v", report.Failed[0])
	}

	for _, rec := range report.Added {
		if !strings.Contains(rec.Markup, "currentColor") {
			t.Errorf("%s markup not recolored: %s", rec.Name, rec.Markup)
		}

		d := rend.RenderNamed(ctx, rec.Name, renderer.DefaultOptions())
		if d.Fallback {
			t.Errorf("%s rendered as fallback", rec.Name)
		}
		for _, format := range renderer.Formats() {
			out := filepath.Join(tmpDir, rec.Name+"."+format)
			if err := rend.Export(ctx, d, out, format, "#ff0000"); err != nil {
				t.Fatalf("Export(%s, %s) error = %v", rec.Name, format, err)
			}
			data, err := os.ReadFile(out)
			if err != nil || len(data) == 0 {
				t.Fatalf("export %s empty or unreadable: %v", out, err)
			}
			if format == renderer.FormatPNG && !bytes.HasPrefix(data, []byte("\x89PNG")) {
				t.Errorf("%s is not a PNG", out)
			}
		}
	}
}

// TestCorruptedRecordRendersPlaceholder stores markup that bypassed ingestion
// and expects a same-sized placeholder from every surface.
func TestCorruptedRecordRendersPlaceholder(t *testing.T) {
	ctx := context.Background()
	store := registry.NewMemoryStore()
	if err := store.Append(ctx, registry.Record{ID: "icon_1_broken", Name: "broken", Markup: "<svg><g>"}); err != nil {
		t.Fatal(err)
	}

	var faults []renderer.Fault
	rend := renderer.New(store, renderer.WithFaultHook(func(f renderer.Fault) { faults = append(faults, f) }))

	opts := renderer.DefaultOptions()
	opts.Size = renderer.Size2XL
	d := rend.RenderNamed(ctx, "broken", opts)
	if !d.Fallback || d.SizePx != 48 {
		t.Fatalf("Descriptor = %+v, want 48px fallback", d)
	}
	if len(faults) != 1 || faults[0].Icon != "broken" {
		t.Errorf("faults = %+v", faults)
	}
	if !strings.Contains(d.Inline(), `data-fallback="true"`) {
		t.Errorf("Inline() = %s", d.Inline())
	}
	png, err := rend.RasterizePNG(d, "")
	if err != nil || len(png) == 0 {
		t.Errorf("RasterizePNG() = %d bytes, %v", len(png), err)
	}
}
