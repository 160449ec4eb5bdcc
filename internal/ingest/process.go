package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ankek/terraform-provider-iconset/internal/svgdoc"
)

// AdaptiveColor is the paint value that makes an icon follow the ambient
// text color.
const AdaptiveColor = "currentColor"

// defaultDimension is used for a missing or non-numeric width/height when a
// viewBox has to be synthesised.
const defaultDimension = "24"

// Process turns raw SVG text into canonical markup: sanitised, with a
// viewBox, without root width/height, and with colorable paint rewritten to
// AdaptiveColor. Running Process on canonical markup returns it unchanged.
func Process(raw []byte) (markup string, err error) {
	defer func() {
		if r := recover(); r != nil {
			markup = ""
			err = &ProcessingError{Kind: ProcessingFailed, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	root, err := svgdoc.ParseBytes(raw)
	if err != nil {
		return "", &ProcessingError{Kind: MalformedSvg, Err: err}
	}
	if root.LocalName() != "svg" {
		return "", &ProcessingError{
			Kind: MalformedSvg,
			Err:  fmt.Errorf("root element is <%s>, want <svg>", root.Name),
		}
	}

	sanitize(root)
	ensureViewBox(root)
	stripSize(root)
	recolor(root)

	var sb strings.Builder
	if _, err := root.WriteTo(&sb); err != nil {
		return "", &ProcessingError{Kind: ProcessingFailed, Err: err}
	}
	return sb.String(), nil
}

// sanitize removes scriptable content: script and foreignObject elements,
// animations that can rewrite a link, event handler attributes and
// javascript: links.
func sanitize(root *svgdoc.Element) {
	root.RemoveChildren(func(e *svgdoc.Element) bool {
		name := e.LocalName()
		if strings.EqualFold(name, "script") || strings.EqualFold(name, "foreignObject") {
			return true
		}
		return isAnimation(name) && animatesScript(e)
	})
	root.Walk(func(e *svgdoc.Element) bool {
		e.RemoveAttrFunc(func(a svgdoc.Attr) bool {
			local := strings.ToLower(attrLocalName(a.Name))
			if strings.HasPrefix(local, "on") {
				return true
			}
			return local == "href" && isScriptURL(a.Value)
		})
		return true
	})
}

// isAnimation matches set and the animate* family.
func isAnimation(name string) bool {
	name = strings.ToLower(name)
	return name == "set" || strings.HasPrefix(name, "animate")
}

// animatesScript reports whether an animation targets a link attribute or
// animates to a javascript: URL.
func animatesScript(e *svgdoc.Element) bool {
	if target, ok := e.Attr("attributeName"); ok {
		if strings.ToLower(attrLocalName(strings.TrimSpace(target))) == "href" {
			return true
		}
	}
	for _, name := range []string{"to", "from", "by", "values"} {
		v, ok := e.Attr(name)
		if !ok {
			continue
		}
		for _, part := range strings.Split(v, ";") {
			if isScriptURL(part) {
				return true
			}
		}
	}
	return false
}

func isScriptURL(v string) bool {
	v = strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, v)
	return strings.HasPrefix(strings.ToLower(v), "javascript:")
}

// ensureViewBox synthesises "0 0 <w> <h>" from the root dimensions when no
// viewBox is present. An existing viewBox is kept as-is.
func ensureViewBox(root *svgdoc.Element) {
	if root.HasAttr("viewBox") {
		return
	}
	w, _ := root.Attr("width")
	h, _ := root.Attr("height")
	root.SetAttr("viewBox", "0 0 "+dimension(w)+" "+dimension(h))
}

// dimension normalises a width/height attribute for use in a viewBox.
func dimension(v string) string {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return defaultDimension
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stripSize removes the intrinsic size so the requested render size governs.
func stripSize(root *svgdoc.Element) {
	root.RemoveAttr("width")
	root.RemoveAttr("height")
}

// recolor rewrites colorable fill/stroke paint on every element, including
// values set through the inline style attribute.
func recolor(root *svgdoc.Element) {
	root.Walk(func(e *svgdoc.Element) bool {
		for _, name := range []string{"fill", "stroke"} {
			if v, ok := e.Attr(name); ok && isColorable(v) {
				e.SetAttr(name, AdaptiveColor)
			}
		}
		if style, ok := e.Attr("style"); ok {
			if rewritten, changed := recolorStyle(style); changed {
				e.SetAttr("style", rewritten)
			}
		}
		return true
	})
}

// isColorable reports whether a paint value should follow the adaptive
// color. none/transparent are intentional and already-adaptive values are
// left alone so the rewrite is idempotent.
func isColorable(v string) bool {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "none", "transparent":
		return false
	}
	return v != AdaptiveColor
}

func recolorStyle(style string) (string, bool) {
	decls := strings.Split(style, ";")
	changed := false
	for i, decl := range decls {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		p := strings.ToLower(strings.TrimSpace(prop))
		if p != "fill" && p != "stroke" {
			continue
		}
		if isColorable(val) {
			decls[i] = strings.TrimSpace(prop) + ":" + AdaptiveColor
			changed = true
		}
	}
	return strings.Join(decls, ";"), changed
}

func attrLocalName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// IsMalformed reports whether err means the content is not usable SVG.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedSvg)
}
