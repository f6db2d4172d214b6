// Package codec encodes Go object graphs to XML documents and decodes them
// back into the exact concrete types they were written from.
//
// # Encoding
//
// Encode walks the value once to build a tree of ValueNode and collect the
// identifiers of every concrete type that needs a hint. The namespace table
// is then fixed and the document is written with all declarations on the
// root element:
//
//	<List xmlns:px="https://wippy.ai/polyxml" xmlns:ns1="go:example.com/shapes">
//	  <Item px:type="ns1:Square" Side="2"/>
//	  <Item px:type="*ns1:Circle" Radius="1"/>
//	</List>
//
// Hints appear only on values held by interface slots. A leading '*' asks for
// a pointer when the value type would satisfy the slot as well. Nil sequence
// elements are written as px:nil="true"; nil properties are left out.
//
// # Decoding
//
// Parse builds an Element tree keeping the prefix bindings in scope for each
// element. Decode descends it once, guided by the static type of the target:
//   - interface slots require a hint, resolved through the registry and the
//     caller's candidate types
//   - properties are accepted from attributes or child elements, whichever
//     the document uses; unknown names are ignored
//   - sequence children are decoded positionally, so order is kept
//
// The target is assigned only after the whole document decoded.
package codec
