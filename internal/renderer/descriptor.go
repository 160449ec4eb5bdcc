package renderer

// Activation keys for focusable elements that are not native buttons.
const (
	KeyEnter = "Enter"
	KeySpace = " "
)

// Descriptor is a resolved, ready-to-mount icon.
type Descriptor struct {
	SizePx float64
	Color  ColorMode

	// Markup is the canonical SVG for custom icons, the embedded SVG for
	// built-ins, or the placeholder glyph when Fallback is set.
	Markup string

	// Builtin names the built-in icon this descriptor refers to, if any.
	Builtin string

	Fallback    bool
	Label       string
	Interaction *Interaction
}

// IsBuiltin reports whether the descriptor references a built-in icon.
func (d Descriptor) IsBuiltin() bool {
	return d.Builtin != ""
}

func (d Descriptor) asFallback() Descriptor {
	d.Fallback = true
	d.Builtin = ""
	d.Markup = placeholderMarkup
	return d
}

// placeholderMarkup is the "?" box drawn in place of unrenderable icons.
const placeholderMarkup = `<svg viewBox="0 0 24 24"><rect x="2" y="2" width="20" height="20" rx="3" fill="none" stroke="currentColor" stroke-width="2"/><text x="12" y="17" text-anchor="middle" font-family="sans-serif" font-size="14" fill="currentColor">?</text></svg>`

// Interaction is the keyboard and pointer contract of an activatable icon:
// reachable by sequential keyboard navigation and activated by Enter, Space
// or a click.
type Interaction struct {
	Role     string
	TabIndex int
	Keys     []string

	onActivate func()
}

func newInteraction(fn func()) *Interaction {
	return &Interaction{
		Role:       "button",
		TabIndex:   0,
		Keys:       []string{KeyEnter, KeySpace},
		onActivate: fn,
	}
}

// HandleKey invokes the activation callback when key is an activation key
// and reports whether it did.
func (i *Interaction) HandleKey(key string) bool {
	if i == nil || i.onActivate == nil {
		return false
	}
	for _, k := range i.Keys {
		if k == key {
			i.onActivate()
			return true
		}
	}
	return false
}

// HandleClick invokes the activation callback.
func (i *Interaction) HandleClick() {
	if i == nil || i.onActivate == nil {
		return
	}
	i.onActivate()
}
