package codec

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/namespace"
)

const xmlnsPrefix = "xmlns"

// Element is a parsed document element. Attribute and element names carry
// the namespace URI their prefix was bound to.
type Element struct {
	Scope    *namespace.Scope
	Name     xml.Name
	Text     string
	Attrs    []xml.Attr
	Children []*Element
	Line     int
}

// Attr returns the value of the attribute with the given namespace URI and
// local name. space is empty for unqualified attributes.
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Parse reads a document into an element tree. Exactly one root element is
// allowed; anything else is a parse error.
func Parse(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		root  *Element
		stack []*Element
		text  []*strings.Builder
	)
	scopeOf := func() *namespace.Scope {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1].Scope
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		line, _ := dec.InputPos()
		if err != nil {
			if se, ok := err.(*xml.SyntaxError); ok {
				line = se.Line
			}
			return nil, errors.ParseFailed(line, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, errors.ParseFailed(line, errMultipleRoots)
			}
			el := &Element{Name: t.Name, Line: line}

			scope := namespace.NewScope(scopeOf())
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == xmlnsPrefix:
					scope.Declare(a.Name.Local, a.Value)
				case a.Name.Space == "" && a.Name.Local == xmlnsPrefix:
					// default namespace does not apply to type hints
				default:
					el.Attrs = append(el.Attrs, a)
				}
			}
			if scope.Empty() && len(stack) > 0 {
				el.Scope = scopeOf()
			} else {
				el.Scope = scope
			}

			if len(stack) == 0 {
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			el := stack[len(stack)-1]
			el.Text = text[len(text)-1].String()
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.ParseFailed(line, errTextOutsideRoot)
				}
				continue
			}
			text[len(text)-1].Write(t)
		}
	}

	if root == nil {
		return nil, errors.ParseFailed(0, errEmptyDocument)
	}
	return root, nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

const (
	errMultipleRoots   parseError = "document has more than one root element"
	errTextOutsideRoot parseError = "text outside the root element"
	errEmptyDocument   parseError = "document has no root element"
)
