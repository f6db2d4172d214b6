package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/polyxml"
	"github.com/wippyai/polyxml/codec"
	"github.com/wippyai/polyxml/examples/sample"
	"github.com/wippyai/polyxml/registry"
	"github.com/wippyai/polyxml/schema"
)

// printer writes styled output, falling back to plain text when stdout is
// not a terminal.
type printer struct {
	out   io.Writer
	plain bool
}

func newPrinter() printer {
	return printer{
		out:   os.Stdout,
		plain: !term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (p printer) style(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p printer) title(text string) {
	fmt.Fprintln(p.out, p.style(titleStyle, text))
}

func runSample(p printer, s *polyxml.Serializer) error {
	data, err := polyxml.Marshal(s, sample.GenerateSample1())
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	_, err = p.out.Write(data)
	return err
}

func runInspect(p printer, data []byte) error {
	root, err := codec.Parse(data)
	if err != nil {
		return err
	}
	tree := buildTree(root)

	p.title("Namespaces")
	for _, e := range root.Scope.Declared() {
		fmt.Fprintf(p.out, "  %s  %s\n", p.style(typeStyle, e.Alias), e.Namespace)
	}
	fmt.Fprintln(p.out)

	p.title("Document")
	printNode(p, tree, 1)
	fmt.Fprintf(p.out, "\n%s\n", p.style(helpStyle, fmt.Sprintf("%d elements", tree.count())))
	return nil
}

func printNode(p printer, n *docNode, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(p.style(funcStyle, n.name))
	if n.hint != "" {
		hint := n.hint
		if n.pointer {
			hint = "*" + hint
		}
		b.WriteString(" ")
		b.WriteString(p.style(typeStyle, hint))
	}
	if n.null {
		b.WriteString(" ")
		b.WriteString(p.style(helpStyle, "nil"))
	}
	for _, a := range n.attrs {
		b.WriteString(" ")
		b.WriteString(a)
	}
	if n.text != "" {
		b.WriteString(" = ")
		b.WriteString(p.style(resultStyle, n.text))
	}
	fmt.Fprintln(p.out, b.String())

	for _, c := range n.children {
		printNode(p, c, depth+1)
	}
}

// runRoundTrip decodes data as a list of classes and encodes it again.
func runRoundTrip(p printer, s *polyxml.Serializer, data []byte) error {
	classes, err := polyxml.Unmarshal[[]sample.Class](s, data, sample.Types()...)
	if err != nil {
		return fmt.Errorf("deserialize: %w", err)
	}

	p.title("Decoded")
	for i, c := range classes {
		fmt.Fprintf(p.out, "  [%d] %s\n", i, describeClass(p, c))
	}
	fmt.Fprintln(p.out)

	out, err := polyxml.Marshal(s, classes)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	p.title("Re-encoded")
	if bytes.Equal(bytes.TrimSpace(data), bytes.TrimSpace(out)) {
		fmt.Fprintln(p.out, p.style(resultStyle, "  identical to input"))
	} else {
		fmt.Fprintln(p.out, p.style(errorStyle, "  differs from input"))
	}
	fmt.Fprintln(p.out)
	_, err = p.out.Write(out)
	return err
}

func describeClass(p printer, c sample.Class) string {
	switch v := c.(type) {
	case *sample.MyClassOfInts:
		return fmt.Sprintf("%s items=%s one-of-them=%d",
			p.style(typeStyle, "MyClassOfInts"), itemNames(v.Items()), v.OneOfThem)
	case *sample.MyClassOfDoubles:
		return fmt.Sprintf("%s items=%s sample=%g",
			p.style(typeStyle, "MyClassOfDoubles"), itemNames(v.Items()), v.Sample)
	case nil:
		return p.style(helpStyle, "nil")
	default:
		return p.style(typeStyle, fmt.Sprintf("%T", c))
	}
}

func itemNames[T sample.Item](items []T) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.ItemName()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// runSchema prints the WIT description of the sample types.
func runSchema(p printer, s *polyxml.Serializer) error {
	var descs []*registry.Descriptor
	for _, t := range append([]reflect.Type{reflect.TypeFor[sampleDocument]()}, sample.Types()...) {
		d, err := s.Registry().Resolve(t)
		if err != nil {
			return err
		}
		descs = append(descs, d)
	}
	defs, err := schema.Export(s.Registry(), descs...)
	if err != nil {
		return err
	}
	fmt.Fprint(p.out, schema.Render(defs))
	return nil
}

// sampleDocument gives the schema a record holding the polymorphic list,
// so the class variant is exported alongside the concrete records.
type sampleDocument struct {
	Classes []sample.Class
}
