package polyxml

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/polyxml/codec"
	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/registry"
)

// Options configures a Serializer.
type Options struct {
	// Logger overrides the package logger.
	Logger *zap.Logger
	// Names pins identifiers for specific types.
	Names map[reflect.Type]registry.TypeID
	// Indent is repeated once per nesting level. Empty writes one line.
	Indent string
	// KnownTypes are registered up front, so documents naming them decode
	// without candidate types.
	KnownTypes []reflect.Type
	// Interfaces are recorded on descriptors of the types satisfying them,
	// generic instantiations included.
	Interfaces []registry.Interface
	// AutoFormat renders unhinted scalar properties as attributes.
	AutoFormat bool
	// OptimizeNamespaces declares one alias per namespace instead of one
	// per type.
	OptimizeNamespaces bool
}

// DefaultOptions returns the recommended configuration.
func DefaultOptions() Options {
	return Options{
		AutoFormat:         true,
		OptimizeNamespaces: true,
	}
}

// Serializer writes and reads polymorphic object graphs.
// Safe for concurrent use.
type Serializer struct {
	reg  *registry.Registry
	enc  *codec.Encoder
	dec  *codec.Decoder
	opts Options
}

// New creates a serializer with its own type registry.
func New(opts Options) (*Serializer, error) {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}

	reg := registry.New(registry.Options{
		Names:      opts.Names,
		Logger:     log,
		Interfaces: opts.Interfaces,
	})
	if err := reg.Register(opts.KnownTypes...); err != nil {
		return nil, err
	}

	copts := codec.Options{
		Logger:             log,
		Indent:             opts.Indent,
		AutoFormat:         opts.AutoFormat,
		OptimizeNamespaces: opts.OptimizeNamespaces,
	}
	return &Serializer{
		reg:  reg,
		enc:  codec.NewEncoder(reg, copts),
		dec:  codec.NewDecoder(reg, copts),
		opts: opts,
	}, nil
}

// NewWithDefaults creates a serializer with default options.
func NewWithDefaults() *Serializer {
	// no known types, cannot fail
	s, _ := New(DefaultOptions())
	return s
}

// Registry returns the type registry.
func (s *Serializer) Registry() *registry.Registry {
	return s.reg
}

// Options returns the configuration.
func (s *Serializer) Options() Options {
	return s.opts
}

// Serialize encodes v using its dynamic type as the root type. Use Marshal
// to encode a root declared as an interface.
func (s *Serializer) Serialize(v any) ([]byte, error) {
	if v == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, "cannot serialize untyped nil")
	}
	rv := reflect.ValueOf(v)
	return s.enc.Encode(rv, rv.Type())
}

// Deserialize decodes data into the value out points to. candidates are
// searched for type hints naming types this serializer has not seen.
func (s *Serializer) Deserialize(data []byte, out any, candidates ...reflect.Type) error {
	return s.dec.Decode(data, reflect.ValueOf(out), candidates...)
}

// Marshal encodes v with T as the root type.
func Marshal[T any](s *Serializer, v T) ([]byte, error) {
	return s.enc.Encode(reflect.ValueOf(&v).Elem(), reflect.TypeFor[T]())
}

// Unmarshal decodes data as a T.
func Unmarshal[T any](s *Serializer, data []byte, candidates ...reflect.Type) (T, error) {
	var out T
	err := s.dec.Decode(data, reflect.ValueOf(&out), candidates...)
	return out, err
}
