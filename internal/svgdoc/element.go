package svgdoc

import "strings"

// Node is either an *Element or a Text node.
type Node interface {
	isNode()
}

// Text is character data inside an element.
type Text string

func (Text) isNode() {}

// Attr is a single attribute. Name keeps its namespace prefix, e.g. "xlink:href".
type Attr struct {
	Name  string
	Value string
}

// Element is an XML element with ordered attributes and children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

func (*Element) isNode() {}

// LocalName returns the element name without its namespace prefix.
func (e *Element) LocalName() string {
	return localName(e.Name)
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets an attribute, keeping its position if it already exists and
// appending it otherwise.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes every attribute with the given name.
func (e *Element) RemoveAttr(name string) {
	e.RemoveAttrFunc(func(a Attr) bool { return a.Name == name })
}

// RemoveAttrFunc deletes the attributes for which drop returns true.
func (e *Element) RemoveAttrFunc(drop func(Attr) bool) {
	kept := e.Attrs[:0]
	for _, a := range e.Attrs {
		if !drop(a) {
			kept = append(kept, a)
		}
	}
	e.Attrs = kept
}

// RemoveChildren deletes child elements (at any depth) matching drop.
// Matching elements are removed together with their subtrees.
func (e *Element) RemoveChildren(drop func(*Element) bool) {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			if drop(el) {
				continue
			}
			el.RemoveChildren(drop)
		}
		kept = append(kept, c)
	}
	e.Children = kept
}

// Walk visits e and every descendant element in document order. Returning
// false from fn skips the subtree of that element.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			el.Walk(fn)
		}
	}
}

func localName(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
