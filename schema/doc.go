// Package schema describes registered types as WebAssembly Interface Type
// definitions, giving a language neutral view of what a document may hold.
//
//	variant class {
//	    my-class-of-ints(my-class-of-ints),
//	    my-class-of-doubles(my-class-of-doubles),
//	}
//
// Interface slots map to variants over the implementors known to the
// registry at export time, so register candidate types first.
package schema
