package renderer

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/ankek/terraform-provider-iconset/internal/svgdoc"
)

// Inline returns markup ready to splice into a page: the descriptor size as
// width/height, the resolved color as an inline style, and either the
// activation attributes or aria-hidden for decorative icons.
func (d Descriptor) Inline() string {
	root, err := svgdoc.ParseString(d.Markup)
	if err != nil {
		root, _ = svgdoc.ParseString(placeholderMarkup)
	}

	size := formatPx(d.SizePx)
	root.SetAttr("width", size)
	root.SetAttr("height", size)

	if css, ok := safeCSSColor(d.Color); ok {
		existing, _ := root.Attr("style")
		root.SetAttr("style", mergeColorStyle(css, existing))
	}

	if d.Interaction != nil {
		root.SetAttr("role", d.Interaction.Role)
		root.SetAttr("tabindex", strconv.Itoa(d.Interaction.TabIndex))
		if d.Label != "" {
			root.SetAttr("aria-label", d.Label)
		}
	} else {
		root.SetAttr("aria-hidden", "true")
	}
	if d.Fallback {
		root.SetAttr("data-fallback", "true")
	}
	return root.String()
}

// DataURI returns the inline markup as a base64 data URI.
func (d Descriptor) DataURI() string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(d.Inline()))
}

// safeCSSColor returns the CSS color for an inline style. Inherit needs no
// style, and custom values that could escape the declaration are dropped.
func safeCSSColor(c ColorMode) (string, bool) {
	if c.Kind != ColorCustom && c.Kind != ColorTokenVariant {
		return "", false
	}
	if strings.ContainsAny(c.Value, ";{}<>\"'\\") {
		return "", false
	}
	return c.CSSValue(), true
}

// mergeColorStyle puts the resolved color in front of the icon's own
// declarations. A color declared by the icon itself is dropped so the
// resolved one applies.
func mergeColorStyle(css, existing string) string {
	decls := []string{"color:" + css}
	for _, decl := range strings.Split(existing, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		prop, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(prop), "color") {
			continue
		}
		decls = append(decls, decl)
	}
	return strings.Join(decls, ";")
}

func formatPx(px float64) string {
	return strconv.FormatFloat(px, 'f', -1, 64)
}
