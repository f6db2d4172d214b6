// Package autoformat decides how values are laid out in a document and holds
// the canonical text form of every scalar kind.
//
// An unhinted scalar property becomes a compact attribute when automatic
// formatting is enabled; composites, sequences and hinted values are always
// nested elements. The polyxml struct tag (attr, elem) overrides the default
// for scalars.
package autoformat
