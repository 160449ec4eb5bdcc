// Package renderer turns custom icon records and built-in icon references
// into render descriptors: resolved pixel size, color mode and markup ready
// for a host UI to mount. Corrupted markup never fails a render; it resolves
// to a same-sized placeholder glyph and is reported to subscribed hooks.
package renderer

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ankek/terraform-provider-iconset/internal/logging"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
	"github.com/ankek/terraform-provider-iconset/internal/svgdoc"
)

// Lookup finds custom icon records by name.
type Lookup interface {
	FindByName(ctx context.Context, name string) (registry.Record, bool, error)
}

// Fault describes an icon that could not be rendered.
type Fault struct {
	Icon   string
	Reason string
	Err    error
}

// FaultHook receives render faults.
type FaultHook func(Fault)

// Renderer produces descriptors for custom and built-in icons.
type Renderer struct {
	lookup Lookup
	logger hclog.Logger
	hooks  []FaultHook
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for fault diagnostics.
func WithLogger(l hclog.Logger) Option {
	return func(r *Renderer) { r.logger = logging.OrNull(l) }
}

// WithFaultHook subscribes h to render faults.
func WithFaultHook(h FaultHook) Option {
	return func(r *Renderer) { r.hooks = append(r.hooks, h) }
}

// New creates a renderer. lookup may be nil when only built-in icons and
// explicit records are rendered.
func New(lookup Lookup, opts ...Option) *Renderer {
	r := &Renderer{lookup: lookup, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target is what to render: a custom record or a built-in icon.
type Target struct {
	record  *registry.Record
	builtin string
}

// Custom targets a custom icon record.
func Custom(rec registry.Record) Target {
	return Target{record: &rec}
}

// Builtin targets a built-in icon by name.
func Builtin(name string) Target {
	return Target{builtin: name}
}

func (t Target) label() string {
	if t.record != nil {
		return t.record.Name
	}
	return t.builtin
}

// Options are the presentation options of one render.
type Options struct {
	Size           Size
	SizePx         float64 // explicit override; ignored unless positive and finite
	Variant        string
	CustomColor    string
	AdaptiveColors bool
	Label          string
	OnActivate     func()
}

// DefaultOptions returns medium size with adaptive token colors.
func DefaultOptions() Options {
	return Options{Size: SizeMD, Variant: DefaultVariant, AdaptiveColors: true}
}

// Render resolves t with opts. Size and color are resolved first; an unknown
// Size panics as a programming error. Any failure with the markup itself
// produces a fallback descriptor instead.
func (r *Renderer) Render(t Target, opts Options) Descriptor {
	d := Descriptor{
		SizePx: ResolveSize(opts.Size, opts.SizePx),
		Color:  ResolveColor(opts.Variant, opts.CustomColor, opts.AdaptiveColors),
		Label:  opts.Label,
	}
	if d.Label == "" {
		d.Label = t.label()
	}
	if opts.OnActivate != nil {
		d.Interaction = newInteraction(opts.OnActivate)
	}

	markup, err := r.resolveMarkup(t)
	if err != nil {
		r.fault(Fault{Icon: t.label(), Reason: "unrenderable markup", Err: err})
		return d.asFallback()
	}
	d.Markup = markup
	if t.record == nil {
		d.Builtin = t.builtin
	}
	return d
}

// RenderNamed renders the custom icon called name, falling back to the
// built-in set and then to the placeholder glyph.
func (r *Renderer) RenderNamed(ctx context.Context, name string, opts Options) Descriptor {
	if r.lookup != nil {
		rec, ok, err := r.lookup.FindByName(ctx, name)
		if err != nil {
			r.logger.Warn("icon lookup failed", "icon", name, "error", err)
		} else if ok {
			return r.Render(Custom(rec), opts)
		}
	}
	return r.Render(Builtin(name), opts)
}

func (r *Renderer) resolveMarkup(t Target) (markup string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while parsing markup: %v", p)
		}
	}()

	if t.record == nil {
		m, ok := BuiltinMarkup(t.builtin)
		if !ok {
			return "", fmt.Errorf("unknown icon %q", t.builtin)
		}
		return m, nil
	}

	root, err := svgdoc.ParseString(t.record.Markup)
	if err != nil {
		return "", err
	}
	if root.LocalName() != "svg" {
		return "", fmt.Errorf("root element is <%s>, want <svg>", root.Name)
	}
	return t.record.Markup, nil
}

func (r *Renderer) fault(f Fault) {
	r.logger.Warn("icon rendered as placeholder", "icon", f.Icon, "reason", f.Reason, "error", f.Err)
	for _, h := range r.hooks {
		h(f)
	}
}
