package registry

import (
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/polyxml/errors"
)

const tagKey = "polyxml"

// Options configures a Registry.
type Options struct {
	// Names pins identifiers for specific types instead of deriving them
	// from the package path and type name.
	Names map[reflect.Type]TypeID
	// Logger receives debug events. nil means no-op.
	Logger *zap.Logger
	// Interfaces are the interfaces (including generic instantiations)
	// recorded on every descriptor that satisfies them.
	Interfaces []Interface
}

// Registry maps concrete Go types to descriptors and identifiers back to
// descriptors. Safe for concurrent use: published descriptors are immutable
// and read without locking; mu only serializes insertion.
type Registry struct {
	logger *zap.Logger
	opts   Options
	types  sync.Map // reflect.Type -> *Descriptor
	ids    sync.Map // TypeID -> *Descriptor
	shapes sync.Map // reflect.Type -> *Shape
	order  []*Descriptor
	mu     sync.Mutex
}

var builtinScalars = []reflect.Type{
	reflect.TypeFor[bool](),
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
	reflect.TypeFor[string](),
}

// New creates a registry with the predeclared scalar types registered.
func New(opts Options) *Registry {
	r := &Registry{
		opts:   opts,
		logger: opts.Logger,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	for _, t := range builtinScalars {
		// predeclared types always resolve
		_, _ = r.Resolve(t)
	}
	return r
}

// NewWithDefaults creates a registry with no known interfaces.
func NewWithDefaults() *Registry {
	return New(Options{})
}

// Register resolves types eagerly so their identifiers are known before
// any document referencing them is decoded.
func (r *Registry) Register(types ...reflect.Type) error {
	for _, t := range types {
		if _, err := r.Resolve(t); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the descriptor of t, building and caching it on first use.
// A single pointer level is stripped: *T and T share a descriptor.
func (r *Registry) Resolve(t reflect.Type) (*Descriptor, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseResolve, "type cannot be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if d, ok := r.types.Load(t); ok {
		return d.(*Descriptor), nil
	}

	d, created, err := r.insert(t)
	if err != nil {
		return nil, err
	}
	if created {
		r.discover(d)
	}
	return d, nil
}

// Lookup finds the descriptor for id. Types not seen yet are searched for
// among candidates.
func (r *Registry) Lookup(id TypeID, candidates ...reflect.Type) (*Descriptor, error) {
	if d, ok := r.ids.Load(id); ok {
		return d.(*Descriptor), nil
	}

	for _, c := range candidates {
		d, err := r.Resolve(c)
		if err != nil {
			r.logger.Debug("candidate type rejected",
				zap.Stringer("type", c),
				zap.Error(err))
			continue
		}
		if d.ID == id {
			return d, nil
		}
	}

	// resolving candidates may have discovered id through their properties
	if d, ok := r.ids.Load(id); ok {
		return d.(*Descriptor), nil
	}
	return nil, errors.UnknownType(errors.PhaseResolve, nil, id.String())
}

// Descriptors returns a snapshot of every descriptor in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Implementors returns the known descriptors satisfying iface, in
// registration order.
func (r *Registry) Implementors(iface reflect.Type) []*Descriptor {
	var out []*Descriptor
	for _, d := range r.Descriptors() {
		if d.Implements(iface) {
			out = append(out, d)
		}
	}
	return out
}

// Interfaces returns the configured interface set.
func (r *Registry) Interfaces() []Interface {
	return r.opts.Interfaces
}

func (r *Registry) insert(t reflect.Type) (*Descriptor, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.types.Load(t); ok {
		return d.(*Descriptor), false, nil
	}

	d, err := r.build(t)
	if err != nil {
		return nil, false, err
	}

	if !d.ID.IsZero() {
		if other, ok := r.ids.Load(d.ID); ok {
			return nil, false, errors.New(errors.PhaseResolve, errors.KindUnserializable).
				GoType(t.String()).
				TypeID(d.ID.String()).
				Detail("identifier already used by %s", other.(*Descriptor).Type).
				Build()
		}
		r.ids.Store(d.ID, d)
	}
	r.types.Store(t, d)
	r.order = append(r.order, d)

	r.logger.Debug("type descriptor registered",
		zap.Stringer("type", t),
		zap.Stringer("id", d.ID),
		zap.Int("properties", len(d.Properties)),
		zap.Int("interfaces", len(d.Interfaces)))
	return d, true, nil
}

func (r *Registry) build(t reflect.Type) (*Descriptor, error) {
	if t.Kind() == reflect.Pointer {
		return nil, errors.Unserializable(errors.PhaseResolve, nil, t.String(), "multi-level pointers are not supported")
	}

	self, err := r.ShapeOf(t)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Type:   t,
		Self:   self,
		ID:     typeID(t),
		byName: make(map[string]int),
	}

	if id, ok := r.opts.Names[t]; ok {
		if id.Namespace == "" || !IsNCName(id.Name) {
			return nil, errors.Unserializable(errors.PhaseResolve, nil, t.String(),
				"explicit identifier "+id.String()+" is not a valid namespace-qualified name")
		}
		d.ID = id
	}

	switch self.Kind {
	case KindScalar:
		d.Kind = DescriptorScalar
	case KindComposite:
		d.Kind = DescriptorComposite
		if err := r.collectProperties(d); err != nil {
			return nil, err
		}
	case KindInterface:
		return nil, errors.Unserializable(errors.PhaseResolve, nil, t.String(), "interface types have no concrete descriptor")
	default:
		return nil, errors.Unserializable(errors.PhaseResolve, nil, t.String(), self.Kind.String()+" types cannot be described")
	}

	for _, iface := range r.opts.Interfaces {
		switch {
		case t.Implements(iface.Type):
			d.Interfaces = append(d.Interfaces, InterfaceRef{Interface: iface})
		case reflect.PointerTo(t).Implements(iface.Type):
			d.Interfaces = append(d.Interfaces, InterfaceRef{Interface: iface, ViaPointer: true})
		}
	}
	return d, nil
}

func (r *Registry) collectProperties(d *Descriptor) error {
	t := d.Type
	depth := make(map[string]int)

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && !isText(f.Type) {
			// promoted fields follow in VisibleFields order
			continue
		}
		if throughPointer(t, f.Index) {
			continue
		}

		name, prefer, skip := parseTag(f)
		if skip {
			continue
		}
		if !IsNCName(name) {
			return errors.Unserializable(errors.PhaseResolve, []string{f.Name}, t.String(),
				"property name "+name+" is not a valid XML name")
		}

		if i, dup := d.byName[name]; dup {
			if depth[name] < len(f.Index) {
				continue
			}
			return errors.Unserializable(errors.PhaseResolve, []string{f.Name}, t.String(),
				"property name "+name+" is declared twice (field "+d.Properties[i].Field+")")
		}

		shape, err := r.ShapeOf(f.Type)
		if err != nil {
			return errors.WithPath(err, []string{f.Name})
		}

		d.byName[name] = len(d.Properties)
		depth[name] = len(f.Index)
		d.Properties = append(d.Properties, Property{
			Shape:  shape,
			Name:   name,
			Field:  f.Name,
			Index:  f.Index,
			Prefer: prefer,
		})
	}
	return nil
}

// throughPointer reports whether a promoted field is reached through an
// embedded pointer, which may be nil.
func throughPointer(t reflect.Type, index []int) bool {
	for i := 1; i < len(index); i++ {
		if t.FieldByIndex(index[:i]).Type.Kind() == reflect.Pointer {
			return true
		}
	}
	return false
}

func parseTag(f reflect.StructField) (name string, prefer Preference, skip bool) {
	name = f.Name
	tag := f.Tag.Get(tagKey)
	if tag == "" {
		return name, PreferAuto, false
	}
	if tag == "-" {
		return "", PreferAuto, true
	}
	parts := strings.Split(tag, ",")
	if n := strings.TrimSpace(parts[0]); n != "" {
		name = n
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "attr":
			prefer = PreferAttribute
		case "elem":
			prefer = PreferElement
		}
	}
	return name, prefer, false
}

// discover resolves the concrete composite types reachable from d so their
// identifiers can be looked up without candidates.
func (r *Registry) discover(d *Descriptor) {
	for _, p := range d.Properties {
		s := p.Shape
		seen := map[*Shape]bool{}
		for s.Kind == KindSequence && s.Elem != nil && !seen[s] {
			seen[s] = true
			s = s.Elem
		}
		if s.Kind != KindComposite || s.Base.Name() == "" {
			continue
		}
		if _, err := r.Resolve(s.Base); err != nil {
			r.logger.Debug("nested type not describable",
				zap.Stringer("type", s.Base),
				zap.String("property", p.Name),
				zap.Error(err))
		}
	}
}
