package export

import (
	"bufio"
	"encoding/xml"
	"io"
)

// attr is one attribute of an output element. The target schema dictates
// attribute order, so attributes travel as an ordered slice, never a map.
type attr struct {
	key string
	val string
}

// docWriter streams the export document. It hand-writes the markup
// because xml.Marshal cannot guarantee the attribute and child ordering
// the target schema requires.
type docWriter struct {
	w     *bufio.Writer
	depth int
}

func newDocWriter(w io.Writer) *docWriter {
	return &docWriter{w: bufio.NewWriter(w)}
}

func (d *docWriter) head() {
	d.w.WriteString(xml.Header)
}

func (d *docWriter) open(tag string, attrs ...attr) {
	d.indent()
	d.startTag(tag, attrs)
	d.w.WriteString(">\n")
	d.depth++
}

func (d *docWriter) close(tag string) {
	d.depth--
	d.indent()
	d.w.WriteString("</")
	d.w.WriteString(tag)
	d.w.WriteString(">\n")
}

// selfClose writes an element with no children.
func (d *docWriter) selfClose(tag string, attrs ...attr) {
	d.indent()
	d.startTag(tag, attrs)
	d.w.WriteString(" />\n")
}

// textElem writes an element whose only child is escaped text.
func (d *docWriter) textElem(tag, text string, attrs ...attr) {
	d.indent()
	d.startTag(tag, attrs)
	d.w.WriteByte('>')
	d.escape(text)
	d.w.WriteString("</")
	d.w.WriteString(tag)
	d.w.WriteString(">\n")
}

// raw copies pre-serialized markup through untouched. Used for the
// verbatim structure section.
func (d *docWriter) raw(s string) {
	d.w.WriteString(s)
}

func (d *docWriter) startTag(tag string, attrs []attr) {
	d.w.WriteByte('<')
	d.w.WriteString(tag)
	for _, a := range attrs {
		d.w.WriteByte(' ')
		d.w.WriteString(a.key)
		d.w.WriteString(`="`)
		d.escape(a.val)
		d.w.WriteByte('"')
	}
}

func (d *docWriter) escape(s string) {
	_ = xml.EscapeText(d.w, []byte(s)) // only fails on a failing writer
}

func (d *docWriter) indent() {
	for i := 0; i < d.depth; i++ {
		d.w.WriteString("  ")
	}
}

func (d *docWriter) flush() error {
	return d.w.Flush()
}
