package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ankek/terraform-provider-iconset/internal/ingest"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

const arrowSVG = `<svg width="24" height="24"><path fill="#000" d="M0 0"/></svg>`

func TestFromBytes(t *testing.T) {
	f := FromBytes("arrow.svg", ingest.SVGMediaType, []byte(arrowSVG))
	if f.Name() != "arrow.svg" || f.MediaType() != ingest.SVGMediaType || f.Size() != int64(len(arrowSVG)) {
		t.Errorf("FromBytes() = %+v", f)
	}
	data, err := f.ReadAll(context.Background())
	if err != nil || string(data) != arrowSVG {
		t.Errorf("ReadAll() = %q, %v", data, err)
	}
}

func TestLocal(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "arrow.svg")
	if err := os.WriteFile(p, []byte(arrowSVG), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Local(p)
	if err != nil {
		t.Fatalf("Local() error = %v", err)
	}
	if f.Name() != "arrow.svg" {
		t.Errorf("Name() = %q", f.Name())
	}
	if f.Size() != int64(len(arrowSVG)) {
		t.Errorf("Size() = %d", f.Size())
	}
	if !strings.HasPrefix(f.MediaType(), ingest.SVGMediaType) {
		t.Errorf("MediaType() = %q", f.MediaType())
	}
	data, err := f.ReadAll(context.Background())
	if err != nil || string(data) != arrowSVG {
		t.Errorf("ReadAll() = %q, %v", data, err)
	}
}

func TestLocalMissing(t *testing.T) {
	_, err := Local(filepath.Join(t.TempDir(), "missing.svg"))
	if !errors.Is(err, ingest.ErrUnreadableFile) {
		t.Errorf("Local() error = %v, want ErrUnreadableFile", err)
	}

	_, err = Local(t.TempDir())
	if !errors.Is(err, ingest.ErrUnreadableFile) {
		t.Errorf("Local(dir) error = %v, want ErrUnreadableFile", err)
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/icons/arrow.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, arrowSVG)
	})
	mux.HandleFunc("/icons/big.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		// Flushing forces chunked encoding, so no Content-Length is sent.
		fmt.Fprint(w, "<svg>")
		w.(http.Flusher).Flush()
		fmt.Fprint(w, strings.Repeat(" ", 4096)+"</svg>")
	})
	mux.HandleFunc("/icons/gone.svg", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemote(t *testing.T) {
	srv := newServer(t)
	client := NewHTTPClient(0, 5*time.Second, nil)
	ctx := context.Background()

	f, err := Remote(ctx, client, srv.URL+"/icons/arrow.svg", 1024)
	if err != nil {
		t.Fatalf("Remote() error = %v", err)
	}
	if f.Name() != "arrow.svg" {
		t.Errorf("Name() = %q", f.Name())
	}
	if f.MediaType() != "image/svg+xml" {
		t.Errorf("MediaType() = %q", f.MediaType())
	}
	if f.Size() != int64(len(arrowSVG)) {
		t.Errorf("Size() = %d, want %d", f.Size(), len(arrowSVG))
	}
	data, _ := f.ReadAll(ctx)
	if string(data) != arrowSVG {
		t.Errorf("ReadAll() = %q", data)
	}
}

func TestRemoteBodyIsLimited(t *testing.T) {
	srv := newServer(t)
	client := NewHTTPClient(0, 5*time.Second, nil)

	f, err := Remote(context.Background(), client, srv.URL+"/icons/big.svg", 100)
	if err != nil {
		t.Fatalf("Remote() error = %v", err)
	}
	if f.Size() != -1 {
		t.Errorf("Size() = %d, want -1 for a chunked response", f.Size())
	}
	data, _ := f.ReadAll(context.Background())
	if len(data) != 101 {
		t.Errorf("read %d bytes, want limit+1 = 101", len(data))
	}

	svc := ingest.NewService(registry.NewMemoryStore(), ingest.Config{MaxBytes: 100})
	if _, err := svc.AddIcon(context.Background(), f, ""); !errors.Is(err, ingest.ErrTooLarge) {
		t.Errorf("AddIcon() error = %v, want ErrTooLarge", err)
	}
}

func TestRemoteFailures(t *testing.T) {
	srv := newServer(t)
	client := NewHTTPClient(0, 5*time.Second, nil)

	tests := []struct {
		name string
		url  string
	}{
		{"not found", srv.URL + "/icons/gone.svg"},
		{"bad scheme", "ftp://example.com/a.svg"},
		{"unreachable", "http://127.0.0.1:1/a.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Remote(context.Background(), client, tt.url, 1024)
			if !errors.Is(err, ingest.ErrUnreadableFile) {
				t.Errorf("Remote() error = %v, want ErrUnreadableFile", err)
			}
		})
	}
}

func TestOpenerDispatch(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "local.svg"), []byte(arrowSVG), 0644); err != nil {
		t.Fatal(err)
	}
	o := NewOpener(NewHTTPClient(0, 5*time.Second, nil), 1024).WithBaseDir(dir)
	ctx := context.Background()

	remote, err := o.Open(ctx, srv.URL+"/icons/arrow.svg")
	if err != nil {
		t.Fatalf("Open(remote) error = %v", err)
	}
	if _, ok := remote.(*RemoteFile); !ok {
		t.Errorf("Open(remote) = %T, want *RemoteFile", remote)
	}

	local, err := o.Open(ctx, "local.svg")
	if err != nil {
		t.Fatalf("Open(local) error = %v", err)
	}
	if lf, ok := local.(*LocalFile); !ok || lf.Path() != filepath.Join(dir, "local.svg") {
		t.Errorf("Open(local) = %#v", local)
	}

	if f, err := o.Open(ctx, "missing.svg"); err == nil || f != nil {
		t.Errorf("Open(missing) = %v, %v", f, err)
	}
}

func TestLocalReadIsBounded(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "growing.svg")
	if err := os.WriteFile(p, []byte(arrowSVG), 0644); err != nil {
		t.Fatal(err)
	}

	o := NewOpener(nil, 100)
	f, err := o.Open(context.Background(), p)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// Grow the file after it was opened.
	if err := os.WriteFile(p, []byte(arrowSVG+strings.Repeat(" ", 500)), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := f.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(data) != 101 {
		t.Errorf("ReadAll() read %d bytes, want 101", len(data))
	}

	svc := ingest.NewService(registry.NewMemoryStore(), ingest.Config{MaxBytes: 100})
	if _, err := svc.AddIcon(context.Background(), f, ""); !errors.Is(err, ingest.ErrTooLarge) {
		t.Errorf("AddIcon() error = %v, want ErrTooLarge", err)
	}
}

type denyPaths struct {
	checked []string
}

func (d *denyPaths) ValidateOutputPath(string) error { return nil }

func (d *denyPaths) ValidateInputPath(p string, mustBeDir bool) error {
	d.checked = append(d.checked, p)
	return fmt.Errorf("path %s not allowed", p)
}

func TestOpenerUsesPathValidator(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "local.svg"), []byte(arrowSVG), 0644); err != nil {
		t.Fatal(err)
	}
	paths := &denyPaths{}
	o := NewOpener(nil, 1024).WithBaseDir(dir)
	o.Paths = paths

	_, err := o.Open(context.Background(), "local.svg")
	if !errors.Is(err, ingest.ErrUnreadableFile) {
		t.Errorf("Open() error = %v, want ErrUnreadableFile", err)
	}
	if len(paths.checked) != 1 || paths.checked[0] != filepath.Join(dir, "local.svg") {
		t.Errorf("validator saw %v", paths.checked)
	}
}
