package main

import (
	"strings"

	"github.com/wippyai/polyxml/codec"
	"github.com/wippyai/polyxml/namespace"
)

// docNode is a parsed element prepared for display: reserved attributes are
// resolved and the rest kept as name=value pairs.
type docNode struct {
	name     string
	hint     string
	attrs    []string
	text     string
	children []*docNode
	line     int
	null     bool
	pointer  bool
}

func buildTree(e *codec.Element) *docNode {
	n := &docNode{name: e.Name.Local, line: e.Line}
	for _, a := range e.Attrs {
		if a.Name.Space == namespace.SystemNamespace {
			switch a.Name.Local {
			case "type":
				n.hint, n.pointer = resolveHint(e.Scope, a.Value)
			case "nil":
				n.null = a.Value == "true"
			}
			continue
		}
		n.attrs = append(n.attrs, a.Name.Local+"="+a.Value)
	}
	for _, c := range e.Children {
		n.children = append(n.children, buildTree(c))
	}
	if len(n.children) == 0 {
		n.text = e.Text
	} else {
		n.text = strings.TrimSpace(e.Text)
	}
	return n
}

// resolveHint returns the hint as a {namespace}Name identifier, or the
// qualified name marked unresolved. The pointer marker is reported apart.
func resolveHint(scope *namespace.Scope, v string) (string, bool) {
	qname, pointer := strings.CutPrefix(v, "*")
	id, err := scope.Resolve(qname)
	if err != nil {
		return qname + " (unresolved)", pointer
	}
	return id.String(), pointer
}

// summary is the single-line form of a node without its children.
func (n *docNode) summary() string {
	var b strings.Builder
	b.WriteString(n.name)
	if n.hint != "" {
		b.WriteString(" : ")
		if n.pointer {
			b.WriteByte('*')
		}
		b.WriteString(n.hint)
	}
	if n.null {
		b.WriteString(" nil")
	}
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	if n.text != "" {
		b.WriteString(" = ")
		b.WriteString(n.text)
	}
	return b.String()
}

// count returns the number of nodes in the subtree.
func (n *docNode) count() int {
	c := 1
	for _, ch := range n.children {
		c += ch.count()
	}
	return c
}
