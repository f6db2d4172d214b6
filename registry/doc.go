// Package registry maps concrete Go types to stable type identifiers and back.
//
// A Descriptor records everything the codec needs about a concrete type: its
// TypeID, the ordered serializable properties with their declared Shape, and
// the known interfaces (including generic instantiations) it satisfies.
//
//	┌──────────────┐  Resolve(reflect.Type)  ┌────────────┐
//	│ Go value     │ ──────────────────────→ │ Descriptor │
//	└──────────────┘                         └────────────┘
//	┌──────────────┐  Lookup(TypeID, cands)  ┌────────────┐
//	│ type hint    │ ──────────────────────→ │ Descriptor │
//	└──────────────┘                         └────────────┘
//
// # Identifiers
//
// A type declared in package p is identified as {go:p}Name; predeclared types
// live in {go:builtin}. Generic instantiation names are escaped into XML
// names (Box[int] becomes Box_oint_c). Options.Names pins identifiers so
// documents survive package moves.
//
// # Shapes
//
// Every declared property type is classified as a scalar, a composite
// (struct), an interface (a polymorphic slot, whose values need a type hint)
// or a sequence (slice or array) of one of those. Maps, channels, functions
// and complex numbers are rejected.
//
// # Struct Tags
//
//	Name  string `polyxml:"name"`        // rename
//	Code  string `polyxml:",attr"`       // always an attribute
//	Notes string `polyxml:",elem"`       // always an element
//	Cache []byte `polyxml:"-"`           // skip
//
// # Thread Safety
//
// Registry is safe for concurrent use. Descriptors and shapes are published
// through sync.Map and never mutated afterwards; a mutex serializes only the
// building of new descriptors.
package registry
