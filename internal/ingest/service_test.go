package ingest

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

type memFile struct {
	name      string
	mediaType string
	data      []byte
	size      int64
	readErr   error
}

func newMemFile(name, mediaType, data string) *memFile {
	return &memFile{name: name, mediaType: mediaType, data: []byte(data), size: int64(len(data))}
}

func (f *memFile) Name() string      { return f.name }
func (f *memFile) MediaType() string { return f.mediaType }
func (f *memFile) Size() int64       { return f.size }

func (f *memFile) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.data, nil
}

const arrowSVG = `<svg width="24" height="24"><path fill="#000" d="M0 0"/></svg>`

func newTestService(t *testing.T, maxBytes int64) (*Service, registry.Store) {
	t.Helper()
	store := registry.NewMemoryStore()
	clock := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	seq := 0
	svc := NewService(store, Config{MaxBytes: maxBytes},
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(func(time.Time) string {
			seq++
			return "icon_test_" + string(rune('a'+seq-1))
		}),
	)
	return svc, store
}

func TestValidate(t *testing.T) {
	svc, _ := newTestService(t, 100)
	ctx := context.Background()

	exact := strings.Repeat("a", 100)
	over := strings.Repeat("a", 101)

	tests := []struct {
		name    string
		file    *memFile
		wantErr error
	}{
		{name: "svg suffix", file: newMemFile("icon.svg", "", "<svg/>")},
		{name: "upper-case suffix", file: newMemFile("ICON.SVG", "application/octet-stream", "<svg/>")},
		{name: "svg media type", file: newMemFile("blob", "image/svg+xml; charset=utf-8", "<svg/>")},
		{name: "png rejected", file: newMemFile("icon.png", "image/png", "<svg/>"), wantErr: ErrNotSvg},
		{name: "no type or suffix", file: newMemFile("icon", "", "<svg/>"), wantErr: ErrNotSvg},
		{name: "exactly at ceiling", file: newMemFile("big.svg", SVGMediaType, exact)},
		{name: "one byte over", file: newMemFile("big.svg", SVGMediaType, over), wantErr: ErrTooLarge},
		{
			name:    "unknown size, too many bytes",
			file:    &memFile{name: "big.svg", data: []byte(over), size: -1},
			wantErr: ErrTooLarge,
		},
		{
			name:    "read failure",
			file:    &memFile{name: "icon.svg", size: 10, readErr: io.ErrUnexpectedEOF},
			wantErr: ErrUnreadableFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := svc.Validate(ctx, tt.file)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				if string(data) != string(tt.file.data) {
					t.Errorf("Validate() = %q, want %q", data, tt.file.data)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Validate() error type = %T, want *ValidationError", err)
			}
		})
	}
}

func TestValidateReadErrorKeepsCause(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Validate(ctx, newMemFile("icon.svg", "", arrowSVG))
	if !errors.Is(err, ErrUnreadableFile) || !errors.Is(err, context.Canceled) {
		t.Errorf("Validate() error = %v, want UnreadableFile wrapping context.Canceled", err)
	}
}

func TestAddIconScenario(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()

	// Pad to a 500 byte file with trailing whitespace.
	content := arrowSVG + strings.Repeat(" ", 500-len(arrowSVG))
	rec, err := svc.AddIcon(ctx, newMemFile("arrow.svg", SVGMediaType, content), "")
	if err != nil {
		t.Fatalf("AddIcon() error = %v", err)
	}

	if rec.Name != "arrow" {
		t.Errorf("Name = %q, want arrow", rec.Name)
	}
	if rec.ID == "" {
		t.Error("ID should be set")
	}
	if !rec.UploadedAt.Equal(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("UploadedAt = %s", rec.UploadedAt)
	}
	want := `<svg viewBox="0 0 24 24"><path fill="currentColor" d="M0 0"/></svg>`
	if rec.Markup != want {
		t.Errorf("Markup = %s, want %s", rec.Markup, want)
	}

	if err := svc.RemoveIcon(ctx, rec.ID); err != nil {
		t.Fatalf("RemoveIcon() error = %v", err)
	}
	list, _ := store.List(ctx)
	if len(list) != 0 {
		t.Errorf("registry has %d records after remove, want 0", len(list))
	}
}

func TestAddIconDuplicateName(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()

	if _, err := svc.AddIcon(ctx, newMemFile("arrow.svg", "", arrowSVG), ""); err != nil {
		t.Fatalf("first AddIcon() error = %v", err)
	}
	before, _ := store.List(ctx)

	_, err := svc.AddIcon(ctx, newMemFile("other.svg", "", `<svg/>`), "arrow")
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("AddIcon() error = %v, want ErrDuplicateName", err)
	}

	after, _ := store.List(ctx)
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("registry changed after rejected add: before %+v after %+v", before, after)
	}
}

func TestAddIconFailuresLeaveRegistryUnchanged(t *testing.T) {
	svc, store := newTestService(t, 64)
	ctx := context.Background()

	tests := []struct {
		name    string
		file    *memFile
		iconNm  string
		wantErr error
	}{
		{name: "not svg", file: newMemFile("a.txt", "text/plain", arrowSVG), wantErr: ErrNotSvg},
		{name: "too large", file: newMemFile("a.svg", "", strings.Repeat(" ", 65)), wantErr: ErrTooLarge},
		{name: "malformed", file: newMemFile("a.svg", "", "<svg><g></svg>"), wantErr: ErrMalformedSvg},
		{name: "empty derived name", file: newMemFile(".svg", "", "<svg/>"), wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddIcon(ctx, tt.file, tt.iconNm)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddIcon() error = %v, want %v", err, tt.wantErr)
			}
			list, _ := store.List(ctx)
			if len(list) != 0 {
				t.Errorf("registry has %d records, want 0", len(list))
			}
		})
	}
}

func TestNamesStayUnique(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()

	names := []string{"a", "b", "a", "c", "b", "a"}
	for _, n := range names {
		_, _ = svc.AddIcon(ctx, newMemFile(n+".svg", "", "<svg/>"), "")
	}

	list, _ := store.List(ctx)
	seen := map[string]bool{}
	for _, rec := range list {
		if seen[rec.Name] {
			t.Errorf("duplicate live name %q", rec.Name)
		}
		seen[rec.Name] = true
	}
	if len(list) != 3 {
		t.Errorf("registry has %d records, want 3", len(list))
	}
}

func TestRemoveIconUnknownIsNoop(t *testing.T) {
	svc, _ := newTestService(t, 0)
	if err := svc.RemoveIcon(context.Background(), "icon_missing"); err != nil {
		t.Errorf("RemoveIcon() error = %v", err)
	}
}

func TestClearAll(t *testing.T) {
	svc, store := newTestService(t, 0)
	ctx := context.Background()

	for _, n := range []string{"a", "b"} {
		if _, err := svc.AddIcon(ctx, newMemFile(n+".svg", "", "<svg/>"), ""); err != nil {
			t.Fatalf("AddIcon(%s) error = %v", n, err)
		}
	}
	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	list, _ := store.List(ctx)
	if len(list) != 0 {
		t.Errorf("registry has %d records after ClearAll", len(list))
	}
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"arrow.svg", "arrow"},
		{"Arrow Left.SVG", "Arrow_Left"},
		{"my-icon_2.svg", "my-icon_2"},
		{"icons/nested/logo.svg", "logo"},
		{"weird@name!.svg", "weird_name_"},
		{"plain", "plain"},
		{"été.svg", "_t_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DeriveName(tt.in); got != tt.want {
				t.Errorf("DeriveName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1760443200000)
	pattern := regexp.MustCompile(`^icon_1760443200000_[0-9a-z]{9}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID(now)
		if !pattern.MatchString(id) {
			t.Fatalf("NewID() = %q, does not match %s", id, pattern)
		}
		if seen[id] {
			t.Fatalf("NewID() repeated %q", id)
		}
		seen[id] = true
	}
}
