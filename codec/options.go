package codec

import (
	"go.uber.org/zap"
)

// Options configures encoders and decoders.
type Options struct {
	// Logger receives debug events. nil means no-op.
	Logger *zap.Logger
	// Indent is repeated once per nesting level; empty writes one line.
	Indent string
	// AutoFormat renders unhinted scalar properties as attributes.
	AutoFormat bool
	// OptimizeNamespaces declares one alias per namespace instead of one
	// per type.
	OptimizeNamespaces bool
}

// DefaultOptions enables attribute formatting and namespace optimization.
func DefaultOptions() Options {
	return Options{
		AutoFormat:         true,
		OptimizeNamespaces: true,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
