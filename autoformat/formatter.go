package autoformat

import (
	"github.com/wippyai/polyxml/registry"
)

// Rendering is the markup form chosen for a value.
type Rendering uint8

const (
	Element Rendering = iota
	Attribute
)

func (r Rendering) String() string {
	if r == Attribute {
		return "attribute"
	}
	return "element"
}

// Formatter picks attribute or element rendering for property values.
// The zero value renders everything as elements.
type Formatter struct {
	Enabled bool
}

// Classify decides how a property value of the given kind is rendered.
// Only scalars without a type hint can be attributes: an attribute holds
// neither a hint nor children.
func (f Formatter) Classify(kind registry.Kind, hinted bool, pref registry.Preference) Rendering {
	if kind != registry.KindScalar || hinted {
		return Element
	}
	switch pref {
	case registry.PreferAttribute:
		return Attribute
	case registry.PreferElement:
		return Element
	}
	if f.Enabled {
		return Attribute
	}
	return Element
}
