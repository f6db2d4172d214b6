package codec

import (
	"github.com/wippyai/polyxml/registry"
)

// NodeKind tags a ValueNode.
type NodeKind uint8

const (
	NodeNull NodeKind = iota
	NodeScalar
	NodeObject
	NodeSequence
)

func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeObject:
		return "object"
	case NodeSequence:
		return "sequence"
	default:
		return "null"
	}
}

// ValueNode is one value of the graph being encoded.
type ValueNode struct {
	// Shape is the shape of the value itself: the dynamic type for values
	// taken out of an interface slot, the declared type otherwise.
	Shape *registry.Shape
	// Hint is set for values in interface slots.
	Hint *registry.Descriptor
	// HintPointer asks the decoder to rebuild *T although T also fits.
	HintPointer bool
	Kind        NodeKind
	Text        string
	Object      *ObjectNode
	Items       []*ValueNode
}

// ObjectNode is an encoded composite: its descriptor and non-null properties
// in declaration order.
type ObjectNode struct {
	Descriptor *registry.Descriptor
	Props      []PropertyNode
}

// PropertyNode pairs a property with its value.
type PropertyNode struct {
	Property *registry.Property
	Value    *ValueNode
}
