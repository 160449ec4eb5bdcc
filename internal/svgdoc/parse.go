package svgdoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// MaxDepth bounds element nesting so hostile input cannot exhaust the stack.
const MaxDepth = 256

// SyntaxError reports markup that is not a well-formed single-root document.
type SyntaxError struct {
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("svg syntax error on line %d: %s", e.Line, e.Msg)
	}
	return "svg syntax error: " + e.Msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ParseString parses markup held in a string.
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses markup held in a byte slice.
func ParseBytes(b []byte) (*Element, error) {
	return Parse(bytes.NewReader(b))
}

// Parse reads a strict XML document and returns its root element. The prolog,
// doctype, comments and processing instructions are discarded.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Element
		stack []*Element
	)

	for {
		// RawToken keeps prefixes untouched so they can be written back
		// verbatim; element matching is checked against our own stack.
		tok, err := dec.RawToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var xerr *xml.SyntaxError
			if errors.As(err, &xerr) {
				return nil, &SyntaxError{Line: xerr.Line, Msg: xerr.Msg, Err: err}
			}
			return nil, &SyntaxError{Msg: err.Error(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, syntaxErrorf(dec, "multiple root elements")
			}
			if len(stack) >= MaxDepth {
				return nil, syntaxErrorf(dec, "elements nested deeper than %d", MaxDepth)
			}
			el := &Element{Name: qualified(t.Name)}
			for _, a := range t.Attr {
				name := qualified(a.Name)
				if el.HasAttr(name) {
					return nil, syntaxErrorf(dec, "attribute %s repeated on <%s>", name, el.Name)
				}
				el.Attrs = append(el.Attrs, Attr{Name: name, Value: a.Value})
			}
			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			name := qualified(t.Name)
			if len(stack) == 0 {
				return nil, syntaxErrorf(dec, "unexpected end element </%s>", name)
			}
			top := stack[len(stack)-1]
			if top.Name != name {
				return nil, syntaxErrorf(dec, "element <%s> closed by </%s>", top.Name, name)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, syntaxErrorf(dec, "text outside the root element")
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, Text(string(t)))
		}
	}

	if len(stack) > 0 {
		return nil, syntaxErrorf(dec, "unclosed element <%s>", stack[len(stack)-1].Name)
	}
	if root == nil {
		return nil, &SyntaxError{Msg: "no root element"}
	}
	return root, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func syntaxErrorf(dec *xml.Decoder, format string, args ...any) error {
	line, _ := dec.InputPos()
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
