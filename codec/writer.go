package codec

import (
	"bytes"
	"encoding/xml"

	"github.com/wippyai/polyxml/autoformat"
	"github.com/wippyai/polyxml/namespace"
)

const (
	itemName = "Item"

	typeAttr = "type"
	nilAttr  = "nil"
)

// writer renders a node tree. The namespace table is complete before the
// first byte is written, so every declaration lands on the root element.
type writer struct {
	table  *namespace.Table
	format autoformat.Formatter
	indent string
	buf    bytes.Buffer
}

func (w *writer) element(name string, n *ValueNode, depth int, root bool) {
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	if root {
		for _, e := range w.table.Entries() {
			w.attr("xmlns:"+e.Alias, e.Namespace)
		}
	}
	if n.Hint != nil {
		q, _ := w.table.Qualify(n.Hint.ID)
		if n.HintPointer {
			q = "*" + q
		}
		w.attr(namespace.SystemAlias+":"+typeAttr, q)
	}

	switch n.Kind {
	case NodeNull:
		w.attr(namespace.SystemAlias+":"+nilAttr, "true")
		w.buf.WriteString("/>")

	case NodeScalar:
		w.buf.WriteByte('>')
		w.text(n.Text)
		w.close(name)

	case NodeObject:
		var children []PropertyNode
		for _, p := range n.Object.Props {
			v := p.Value
			if w.format.Classify(v.Shape.Kind, v.Hint != nil, p.Property.Prefer) == autoformat.Attribute {
				w.attr(p.Property.Name, v.Text)
				continue
			}
			children = append(children, p)
		}
		if len(children) == 0 {
			w.buf.WriteString("/>")
			return
		}
		w.buf.WriteByte('>')
		for _, p := range children {
			w.newline(depth + 1)
			w.element(p.Property.Name, p.Value, depth+1, false)
		}
		w.newline(depth)
		w.close(name)

	case NodeSequence:
		if len(n.Items) == 0 {
			w.buf.WriteString("/>")
			return
		}
		w.buf.WriteByte('>')
		for _, item := range n.Items {
			w.newline(depth + 1)
			w.element(sequenceItemName(item), item, depth+1, false)
		}
		w.newline(depth)
		w.close(name)
	}
}

// sequenceItemName names sequence children after their type when the
// element type is a named composite. Decoding is positional, so the name
// only aids reading.
func sequenceItemName(n *ValueNode) string {
	if n.Kind == NodeObject && n.Hint == nil && !n.Object.Descriptor.ID.IsZero() {
		return n.Object.Descriptor.ID.Name
	}
	return itemName
}

func (w *writer) attr(name, value string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	w.text(value)
	w.buf.WriteByte('"')
}

func (w *writer) text(s string) {
	// writes to a bytes.Buffer cannot fail
	_ = xml.EscapeText(&w.buf, []byte(s))
}

func (w *writer) close(name string) {
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
}

func (w *writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	for range depth {
		w.buf.WriteString(w.indent)
	}
}
