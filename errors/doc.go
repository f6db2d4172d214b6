// Package errors provides structured error types for the polyxml serializer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the property path, Go type, type identifier, source line
// and cause chain, enough to diagnose a schema mismatch between writer and reader.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("[0]", "MyItems").
//		GoType("sample.MyItemWithInt").
//		TypeID("{go:example.com/sample}MyItemWithDouble").
//		Detail("hinted type is not assignable to the slot").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownType(errors.PhaseDecode, path, id)
//	err := errors.ParseFailed(line, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match any error of the same Kind regardless of Phase.
package errors
