package registry

import (
	"reflect"
)

const (
	// BuiltinNamespace holds the predeclared Go types (int, string, ...).
	BuiltinNamespace = "go:builtin"
	// GoNamespacePrefix is prepended to a package path to form its namespace.
	GoNamespacePrefix = "go:"
)

// TypeID is the stable, document-level identifier of a concrete type.
type TypeID struct {
	Namespace string
	Name      string
}

// String renders the identifier in Clark notation: {namespace}Name.
func (id TypeID) String() string {
	return "{" + id.Namespace + "}" + id.Name
}

// IsZero reports whether the identifier is unset (anonymous types).
func (id TypeID) IsZero() bool {
	return id.Namespace == "" && id.Name == ""
}

// Kind classifies a declared type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindComposite
	KindInterface
	KindSequence
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindScalar:    "scalar",
	KindComposite: "composite",
	KindInterface: "interface",
	KindSequence:  "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ScalarKind is the semantic kind of a scalar value.
type ScalarKind uint8

const (
	ScalarNone ScalarKind = iota
	ScalarBool
	ScalarInt
	ScalarUint
	ScalarFloat
	ScalarString
	ScalarBytes
	ScalarText // encoding.TextMarshaler / TextUnmarshaler
)

var scalarNames = [...]string{
	ScalarNone:   "none",
	ScalarBool:   "bool",
	ScalarInt:    "int",
	ScalarUint:   "uint",
	ScalarFloat:  "float",
	ScalarString: "string",
	ScalarBytes:  "bytes",
	ScalarText:   "text",
}

func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return "unknown"
}

// Shape describes a declared Go type as the codec sees it.
// Shapes are immutable once published by the registry.
type Shape struct {
	// Type is the declared type, including a leading pointer.
	Type reflect.Type
	// Base is Type with the pointer stripped.
	Base   reflect.Type
	Elem   *Shape
	Kind   Kind
	Scalar ScalarKind
	// Pointer is set for *T declarations; nil decodes to an absent value.
	Pointer bool
	// Len is the fixed length of array sequences, -1 for slices.
	Len int
}

// IsPolymorphic reports whether values of this shape need a type hint.
func (s *Shape) IsPolymorphic() bool {
	return s.Kind == KindInterface
}

// Rendering preference declared with the polyxml struct tag.
type Preference uint8

const (
	PreferAuto Preference = iota
	PreferAttribute
	PreferElement
)

// Property is a serializable field of a composite type.
type Property struct {
	Shape  *Shape
	Name   string
	Field  string
	Index  []int
	Prefer Preference
}

// Interface is a known interface type, optionally a generic instantiation
// such as ClassOf[MyItemWithInt] with TypeArgs [MyItemWithInt].
type Interface struct {
	Type     reflect.Type
	TypeArgs []reflect.Type
}

// InterfaceRef records that a descriptor satisfies an Interface.
type InterfaceRef struct {
	Interface
	// ViaPointer is set when only *T, not T, implements the interface.
	ViaPointer bool
}

// DescriptorKind separates descriptors for structs from named scalars.
type DescriptorKind uint8

const (
	DescriptorComposite DescriptorKind = iota
	DescriptorScalar
)

// Descriptor identifies a concrete type and its serializable shape.
type Descriptor struct {
	Type       reflect.Type
	Self       *Shape
	ID         TypeID
	Properties []Property
	Interfaces []InterfaceRef
	Kind       DescriptorKind
	byName     map[string]int
}

// Property returns the property with the given document name.
func (d *Descriptor) Property(name string) (*Property, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return &d.Properties[i], true
}

// Implements reports whether T or *T satisfies iface.
func (d *Descriptor) Implements(iface reflect.Type) bool {
	return d.Type.Implements(iface) || reflect.PointerTo(d.Type).Implements(iface)
}

// TypeArgs returns the generic type arguments recorded for a registered
// interface this descriptor satisfies.
func (d *Descriptor) TypeArgs(iface reflect.Type) ([]reflect.Type, bool) {
	for _, ref := range d.Interfaces {
		if ref.Type == iface {
			return ref.TypeArgs, true
		}
	}
	return nil, false
}
