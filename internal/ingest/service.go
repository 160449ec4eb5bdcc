// Package ingest implements the custom icon ingestion pipeline: it validates
// an untrusted file, canonicalises its SVG content and appends the resulting
// record to the registry.
package ingest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"mime"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-iconset/internal/logging"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

// DefaultMaxBytes is the default upload ceiling (100 KiB).
const DefaultMaxBytes int64 = 100 * 1024

// SVGMediaType is the media type accepted without an .svg name suffix.
const SVGMediaType = "image/svg+xml"

// File is an uploaded file. Size returns -1 when the size is not known before
// reading. ReadAll is the only blocking step of ingestion.
type File interface {
	Name() string
	MediaType() string
	Size() int64
	ReadAll(ctx context.Context) ([]byte, error)
}

// Config controls ingestion limits.
type Config struct {
	MaxBytes int64
}

// Service validates, canonicalises and persists custom icons.
type Service struct {
	store  registry.Store
	cfg    Config
	logger hclog.Logger
	now    func() time.Time
	newID  func(time.Time) string

	// mu serialises the duplicate-name check with the append.
	mu sync.Mutex
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNull(l) }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService creates an ingestion service backed by store.
func NewService(store registry.Store, cfg Config, opts ...Option) *Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	s := &Service{
		store:  store,
		cfg:    cfg,
		logger: hclog.NewNullLogger(),
		now:    time.Now,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxBytes returns the configured size ceiling.
func (s *Service) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// Store returns the backing registry.
func (s *Service) Store() registry.Store {
	return s.store
}

// Validate checks the file type and size and returns its contents.
func (s *Service) Validate(ctx context.Context, f File) ([]byte, error) {
	if !isSVGFile(f) {
		return nil, &ValidationError{Kind: NotSvg, File: f.Name()}
	}
	if size := f.Size(); size > s.cfg.MaxBytes {
		return nil, &ValidationError{Kind: TooLarge, File: f.Name(), Size: size, Limit: s.cfg.MaxBytes}
	}

	data, err := f.ReadAll(ctx)
	if err != nil {
		return nil, &ValidationError{Kind: UnreadableFile, File: f.Name(), Err: err}
	}
	// The declared size may be unknown or wrong; the bytes decide.
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, &ValidationError{Kind: TooLarge, File: f.Name(), Size: int64(len(data)), Limit: s.cfg.MaxBytes}
	}
	return data, nil
}

func isSVGFile(f File) bool {
	if strings.HasSuffix(strings.ToLower(f.Name()), ".svg") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(f.MediaType())
	return err == nil && mediaType == SVGMediaType
}

// Process canonicalises raw SVG text. See the package-level Process.
func (s *Service) Process(raw []byte) (string, error) {
	return Process(raw)
}

// AddIcon validates and processes f, then appends a new record named name,
// or a name derived from the filename when name is empty. The registry is
// left untouched when any step fails.
func (s *Service) AddIcon(ctx context.Context, f File, name string) (registry.Record, error) {
	raw, err := s.Validate(ctx, f)
	if err != nil {
		s.logger.Debug("icon rejected", "file", f.Name(), "error", err)
		return registry.Record{}, err
	}

	markup, err := s.Process(raw)
	if err != nil {
		s.logger.Debug("icon content rejected", "file", f.Name(), "error", err)
		return registry.Record{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DeriveName(f.Name())
	}
	if name == "" {
		return registry.Record{}, &IngestionError{Kind: InvalidName, Name: f.Name()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists, err := s.store.FindByName(ctx, name); err != nil {
		return registry.Record{}, fmt.Errorf("check icon name %q: %w", name, err)
	} else if exists {
		return registry.Record{}, &IngestionError{Kind: DuplicateName, Name: name}
	}

	now := s.now().UTC()
	rec := registry.Record{
		ID:         s.newID(now),
		Name:       name,
		Markup:     markup,
		UploadedAt: now,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return registry.Record{}, fmt.Errorf("store icon %q: %w", name, err)
	}

	s.logger.Info("icon added", "id", rec.ID, "name", rec.Name, "bytes", len(markup))
	return rec, nil
}

// RemoveIcon deletes the record with the given id. Unknown ids are a no-op.
func (s *Service) RemoveIcon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove icon %s: %w", id, err)
	}
	s.logger.Info("icon removed", "id", id)
	return nil
}

// ClearAll removes every record. Callers are responsible for confirming the
// operation with the user.
func (s *Service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear icons: %w", err)
	}
	s.logger.Warn("all custom icons cleared")
	return nil
}

// Icons lists every record in insertion order.
func (s *Service) Icons(ctx context.Context) ([]registry.Record, error) {
	return s.store.List(ctx)
}

// Lookup finds a record by name.
func (s *Service) Lookup(ctx context.Context, name string) (registry.Record, bool, error) {
	return s.store.FindByName(ctx, name)
}

// Get finds a record by id.
func (s *Service) Get(ctx context.Context, id string) (registry.Record, bool, error) {
	return s.store.Get(ctx, id)
}

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// DeriveName builds an icon name from a filename: the .svg suffix is dropped
// and every character outside [A-Za-z0-9_-] becomes an underscore.
func DeriveName(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	if strings.HasSuffix(strings.ToLower(filename), ".svg") {
		filename = filename[:len(filename)-len(".svg")]
	}
	return invalidNameChars.ReplaceAllString(filename, "_")
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns "icon_<unix millis>_<9 random base36 chars>".
func NewID(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("icon_")
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	sb.WriteString("_")
	base := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < 9; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			sb.WriteString(strconv.FormatInt(now.UnixNano(), 36))
			break
		}
		sb.WriteByte(idAlphabet[n.Int64()])
	}
	return sb.String()
}
