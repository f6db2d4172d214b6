// Package polyxml serializes polymorphic Go object graphs to XML and reads
// them back into the exact concrete types they were written from.
//
// A typical input is a slice typed by a marker interface whose elements are
// different concrete types, each also satisfying a generic interface over
// its own item type. No schema is needed at read time: values held by
// interface slots carry a type hint naming their concrete type, and
// everything else is typed by the static type of the target.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	polyxml/             Root package with Serializer, Options and generic helpers
//	├── registry/        Concrete types to stable identifiers and back
//	├── namespace/       Alias tables for the identifiers used in a document
//	├── autoformat/      Attribute or element layout and scalar text forms
//	├── codec/           Two-pass encoder, element tree reader and decoder
//	├── schema/          Registered types rendered as WIT definitions
//	├── errors/          Structured error types for diagnosing mismatches
//	└── cmd/polyxml/     Command line inspector and interactive browser
//
// # Quick Start
//
//	s, err := polyxml.New(polyxml.Options{
//	    AutoFormat:         true,
//	    OptimizeNamespaces: true,
//	    Interfaces:         sample.Interfaces(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := s.Serialize(sample.GenerateSample1())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	classes, err := polyxml.Unmarshal[[]sample.Class](s, data, sample.Types()...)
//
// The document for two classes holding different item types:
//
//	<List xmlns:px="https://wippy.ai/polyxml" xmlns:ns1="go:github.com/wippyai/polyxml/examples/sample">
//	  <Item px:type="ns1:MyClassOfInts" OneOfThem="3">
//	    <MyItems>
//	      <MyItemWithInt Name="uno" Integer="1"/>
//	    </MyItems>
//	  </Item>
//	  <Item px:type="ns1:MyClassOfDoubles" Sample="1">
//	    <MyItems>
//	      <MyItemWithDouble Name="1" Double="1"/>
//	    </MyItems>
//	  </Item>
//	</List>
//
// # Type Identifiers
//
// A Go type named T in package p is identified as {go:p}T; predeclared types
// live in go:builtin. Generic instantiations are escaped into valid XML
// names. Options.Names pins identifiers when types move between packages.
//
// # Errors
//
// Every failure is an *Error carrying the phase, the property path and, for
// decoding, the document line. Match categories with errors.Is against
// ErrUnknownType, ErrTypeMismatch, ErrUnserializable and ErrParse. A failed
// call never returns a partial result.
//
// # Thread Safety
//
// Serializer is safe for concurrent use. Type descriptors are built once and
// cached for the life of the serializer; each call keeps its own state.
package polyxml
