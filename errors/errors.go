package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve Phase = "resolve" // type registry
	PhaseEncode  Phase = "encode"  // Go to document
	PhaseDecode  Phase = "decode"  // document to Go
	PhaseParse   Phase = "parse"   // markup tokenizing
	PhaseConfig  Phase = "config"  // options and config files
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType    Kind = "unknown_type"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnserializable Kind = "unserializable_type"
	KindParse          Kind = "parse_error"
	KindInvalidInput   Kind = "invalid_input"
)

// Sentinels for errors.Is. They match by Kind only.
var (
	ErrUnknownType    = &Error{Kind: KindUnknownType}
	ErrTypeMismatch   = &Error{Kind: KindTypeMismatch}
	ErrUnserializable = &Error{Kind: KindUnserializable}
	ErrParse          = &Error{Kind: KindParse}
	ErrInvalidInput   = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	TypeID string
	Detail string
	Path   []string
	Line   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(JoinPath(e.Path))
	}
	if e.Line > 0 {
		b.WriteString(" (line ")
		b.WriteString(strconv.Itoa(e.Line))
		b.WriteByte(')')
	}

	if e.GoType != "" || e.TypeID != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.TypeID != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", type ")
			b.WriteString(e.TypeID)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("type ")
			b.WriteString(e.TypeID)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.TypeID != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// JoinPath renders a property path, attaching index segments without a dot:
// [0].MyItems[1].Name
func JoinPath(path []string) string {
	var b strings.Builder
	for i, p := range path {
		if i > 0 && !strings.HasPrefix(p, "[") {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the property path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// TypeID sets the document type identifier
func (b *Builder) TypeID(id string) *Builder {
	b.err.TypeID = id
	return b
}

// Line sets the source line of the offending markup
func (b *Builder) Line(n int) *Builder {
	b.err.Line = n
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownType creates an error for a type identifier that resolves to nothing
func UnknownType(phase Phase, path []string, typeID string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Path:   path,
		TypeID: typeID,
		Detail: "type is not registered and not among the candidate types",
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, typeID string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		TypeID: typeID,
	}
}

// Unserializable creates an error for a value with no derivable descriptor
func Unserializable(phase Phase, path []string, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnserializable,
		Path:   path,
		GoType: goType,
		Detail: detail,
	}
}

// ParseFailed creates a malformed document error
func ParseFailed(line int, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindParse,
		Line:   line,
		Detail: "malformed document",
		Cause:  cause,
	}
}

// InvalidData creates a malformed document error for a specific node
func InvalidData(phase Phase, path []string, line int, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindParse,
		Path:   path,
		Line:   line,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns a copy of err with path prepended to its own path.
// Errors that are not *Error are wrapped as KindInvalidInput.
func WithPath(err error, path []string) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		return &Error{Kind: KindInvalidInput, Path: path, Cause: err}
	}
	cp := *e
	cp.Path = append(append([]string{}, path...), e.Path...)
	return &cp
}
