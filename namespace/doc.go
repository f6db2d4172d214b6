// Package namespace assigns compact aliases to the type identifiers used in a
// document and resolves qualified type hints on the way back.
//
// The encoder observes every referenced identifier during its pre-pass; Build
// then produces a Table declared once on the document root. With optimization
// enabled identifiers are grouped by namespace, so a document with any number
// of types from one Go package declares a single alias:
//
//	<List xmlns:px="https://wippy.ai/polyxml" xmlns:ns1="go:example.com/sample">
//
// Aliases are assigned in first-seen order, which makes repeated encodes of
// the same graph shape byte-identical.
package namespace
