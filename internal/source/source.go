// Package source acquires icon files from memory, the local filesystem or
// http(s) URLs and exposes them as ingest.File values.
package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/ankek/terraform-provider-iconset/internal/ingest"
	"github.com/ankek/terraform-provider-iconset/internal/interfaces"
	"github.com/ankek/terraform-provider-iconset/internal/logging"
	"github.com/ankek/terraform-provider-iconset/internal/validation"
)

// Memory is an in-memory file.
type Memory struct {
	name      string
	mediaType string
	data      []byte
}

// FromBytes wraps data as a file called name.
func FromBytes(name, mediaType string, data []byte) *Memory {
	return &Memory{name: name, mediaType: mediaType, data: data}
}

func (m *Memory) Name() string      { return m.name }
func (m *Memory) MediaType() string { return m.mediaType }
func (m *Memory) Size() int64       { return int64(len(m.data)) }

func (m *Memory) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.data, nil
}

// LocalFile is a file on disk. Its size is taken when it is opened.
type LocalFile struct {
	path  string
	size  int64
	limit int64
}

// Local opens the regular file at p. Reads are bounded by the larger of its
// size and ingest.DefaultMaxBytes.
func Local(p string) (*LocalFile, error) {
	return openLocal(interfaces.FSValidator{}, p, 0)
}

func openLocal(v interfaces.PathValidator, p string, limit int64) (*LocalFile, error) {
	if err := v.ValidateInputPath(p, false); err != nil {
		return nil, unreadable(filepath.Base(p), err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, unreadable(filepath.Base(p), err)
	}
	if limit <= 0 {
		limit = ingest.DefaultMaxBytes
	}
	return &LocalFile{path: p, size: info.Size(), limit: limit}, nil
}

func (f *LocalFile) Name() string { return filepath.Base(f.path) }
func (f *LocalFile) Path() string { return f.path }
func (f *LocalFile) Size() int64  { return f.size }

func (f *LocalFile) MediaType() string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(f.path)))
}

// ReadAll reads at most one byte past the bound, so a file that grew after
// it was opened still fails the size ceiling without being buffered whole.
func (f *LocalFile) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	bound := max(f.limit, f.size)
	return io.ReadAll(io.LimitReader(fh, bound+1))
}

// RemoteFile is the downloaded body of an http(s) source. Size is the
// declared Content-Length, or -1 when the server sent none.
type RemoteFile struct {
	url       string
	name      string
	mediaType string
	size      int64
	data      []byte
}

func (f *RemoteFile) Name() string      { return f.name }
func (f *RemoteFile) URL() string       { return f.url }
func (f *RemoteFile) MediaType() string { return f.mediaType }
func (f *RemoteFile) Size() int64       { return f.size }

func (f *RemoteFile) ReadAll(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.data, nil
}

// NewHTTPClient returns a retrying client that logs through logger.
func NewHTTPClient(retryMax int, timeout time.Duration, logger hclog.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = timeout
	client.Logger = logging.OrNull(logger).Named("http")
	return client
}

// Remote downloads rawURL. At most limit+1 bytes of the body are read so
// the size ceiling is still enforced when Content-Length is absent or wrong.
// Transport failures and non-2xx responses are UnreadableFile errors.
func Remote(ctx context.Context, client *retryablehttp.Client, rawURL string, limit int64) (*RemoteFile, error) {
	name := remoteName(rawURL)
	if err := validation.ValidateSourceURL(rawURL); err != nil {
		return nil, unreadable(name, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, unreadable(name, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", ingest.SVGMediaType+", */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, unreadable(name, fmt.Errorf("failed to fetch %s: %w", rawURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, unreadable(name, fmt.Errorf("failed to fetch %s (status %d)", rawURL, resp.StatusCode))
	}

	if limit <= 0 {
		limit = ingest.DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, unreadable(name, fmt.Errorf("failed to read body of %s: %w", rawURL, err))
	}

	return &RemoteFile{
		url:       rawURL,
		name:      name,
		mediaType: resp.Header.Get("Content-Type"),
		size:      resp.ContentLength,
		data:      data,
	}, nil
}

// remoteName is the last path segment of rawURL, or its host.
func remoteName(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
		return base
	}
	return u.Host
}

func unreadable(name string, err error) error {
	return &ingest.ValidationError{Kind: ingest.UnreadableFile, File: name, Err: err}
}

// Opener resolves source references: http(s) URLs are downloaded, anything
// else is a local path, relative to BaseDir when set. Paths checks local
// paths and defaults to interfaces.FSValidator.
type Opener struct {
	Client   *retryablehttp.Client
	MaxBytes int64
	BaseDir  string
	Paths    interfaces.PathValidator
}

// NewOpener returns an Opener downloading through client.
func NewOpener(client *retryablehttp.Client, maxBytes int64) *Opener {
	return &Opener{Client: client, MaxBytes: maxBytes}
}

// WithBaseDir returns a copy of o resolving relative paths against dir.
func (o *Opener) WithBaseDir(dir string) *Opener {
	c := *o
	c.BaseDir = dir
	return &c
}

// Open dispatches ref to Remote or Local.
func (o *Opener) Open(ctx context.Context, ref string) (ingest.File, error) {
	ref = strings.TrimSpace(ref)
	if validation.IsRemoteRef(ref) {
		client := o.Client
		if client == nil {
			client = NewHTTPClient(0, 30*time.Second, nil)
		}
		f, err := Remote(ctx, client, ref, o.MaxBytes)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	p := ref
	if o.BaseDir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(o.BaseDir, p)
	}
	paths := o.Paths
	if paths == nil {
		paths = interfaces.FSValidator{}
	}
	f, err := openLocal(paths, p, o.MaxBytes)
	if err != nil {
		return nil, err
	}
	return f, nil
}
