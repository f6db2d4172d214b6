package polyxml

import (
	"github.com/wippyai/polyxml/errors"
)

// Error is the structured error returned by every operation.
type Error = errors.Error

// Sentinels for errors.Is.
var (
	// ErrUnknownType: a type hint names a type that is neither registered
	// nor among the candidate types.
	ErrUnknownType = errors.ErrUnknownType
	// ErrTypeMismatch: a type hint names a type the slot cannot hold.
	ErrTypeMismatch = errors.ErrTypeMismatch
	// ErrUnserializable: a value has no derivable descriptor.
	ErrUnserializable = errors.ErrUnserializable
	// ErrParse: the document is malformed.
	ErrParse = errors.ErrParse
	// ErrInvalidInput: bad arguments, such as a nil target.
	ErrInvalidInput = errors.ErrInvalidInput
)
