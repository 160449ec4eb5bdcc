package svgdoc

import (
	"bufio"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// String serialises the element tree. Output is stable: parsing the result
// and serialising again yields identical bytes.
func (e *Element) String() string {
	var sb strings.Builder
	writeElement(&sb, e)
	return sb.String()
}

// WriteTo writes the serialised tree to w.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	writeElement(cw, e)
	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type stringWriter interface {
	WriteString(string) (int, error)
}

func writeElement(w stringWriter, e *Element) {
	w.WriteString("<")
	w.WriteString(e.Name)
	for _, a := range e.Attrs {
		w.WriteString(" ")
		w.WriteString(a.Name)
		w.WriteString(`="`)
		w.WriteString(attrEscaper.Replace(a.Value))
		w.WriteString(`"`)
	}
	if len(e.Children) == 0 {
		w.WriteString("/>")
		return
	}
	w.WriteString(">")
	for _, c := range e.Children {
		switch n := c.(type) {
		case *Element:
			writeElement(w, n)
		case Text:
			w.WriteString(textEscaper.Replace(string(n)))
		}
	}
	w.WriteString("</")
	w.WriteString(e.Name)
	w.WriteString(">")
}

type countingWriter struct {
	w *bufio.Writer
	n int64
}

func (c *countingWriter) WriteString(s string) (int, error) {
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	return n, err
}
