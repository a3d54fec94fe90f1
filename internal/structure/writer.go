package structure

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

// WriteTo re-serializes the loaded tree. Element names and attributes are
// emitted exactly as parsed, in document order, so everything the user
// never touched round-trips unchanged into the export document.
func (t *Tree) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, t.Root, 0)
	return bw.Flush()
}

// Serialize renders the tree to a string. Used by the fidelity check in
// tests and by the export writer's structure section.
func (t *Tree) Serialize() string {
	var sb strings.Builder
	_ = t.WriteTo(&sb)
	return sb.String()
}

func writeNode(w *bufio.Writer, n *Node, depth int) {
	indent(w, depth)
	w.WriteByte('<')
	w.WriteString(n.XMLTag)
	for _, a := range n.Attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name.Local)
		w.WriteString(`="`)
		escape(w, a.Value)
		w.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		w.WriteString(" />\n")
		return
	}
	w.WriteByte('>')
	if n.Text != "" {
		escape(w, n.Text)
	}
	if len(n.Children) > 0 {
		w.WriteByte('\n')
		for _, c := range n.Children {
			writeNode(w, c, depth+1)
		}
		indent(w, depth)
	}
	w.WriteString("</")
	w.WriteString(n.XMLTag)
	w.WriteString(">\n")
}

func indent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString("  ")
	}
}

func escape(w *bufio.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s)) // only fails on a failing writer
}
