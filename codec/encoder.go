package codec

import (
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/polyxml/autoformat"
	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/namespace"
	"github.com/wippyai/polyxml/registry"
)

// Encoder turns Go values into documents. Safe for concurrent use; all
// per-document state lives in the Encode call.
type Encoder struct {
	reg      *registry.Registry
	logger   *zap.Logger
	format   autoformat.Formatter
	indent   string
	optimize bool
}

// NewEncoder creates an encoder resolving types through reg.
func NewEncoder(reg *registry.Registry, opts Options) *Encoder {
	return &Encoder{
		reg:      reg,
		logger:   opts.logger(),
		format:   autoformat.Formatter{Enabled: opts.AutoFormat},
		indent:   opts.Indent,
		optimize: opts.OptimizeNamespaces,
	}
}

type visitKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// encodeState is the pre-pass state of one Encode call.
type encodeState struct {
	reg      *registry.Registry
	ns       *namespace.Builder
	visiting map[visitKey]struct{}
}

// Encode writes root as a document. static is the declared type of the
// root; when it is an interface the root element carries a type hint.
//
// The value is walked twice: once to build the node tree and collect the
// identifiers that need aliases, then to write the root with every
// namespace declaration followed by the body.
func (e *Encoder) Encode(root reflect.Value, static reflect.Type) ([]byte, error) {
	if static == nil {
		return nil, errors.InvalidInput(errors.PhaseEncode, "static type cannot be nil")
	}
	shape, err := e.reg.ShapeOf(static)
	if err != nil {
		return nil, err
	}

	switch {
	case !root.IsValid():
		root = reflect.Zero(static)
	case root.Type() != static:
		if !root.Type().AssignableTo(static) {
			return nil, errors.InvalidInput(errors.PhaseEncode,
				root.Type().String()+" is not assignable to "+static.String())
		}
		v := reflect.New(static).Elem()
		v.Set(root)
		root = v
	}

	st := &encodeState{
		reg:      e.reg,
		ns:       namespace.NewBuilder(e.optimize),
		visiting: make(map[visitKey]struct{}),
	}
	node, err := st.value(root, shape, nil)
	if err != nil {
		return nil, err
	}
	if node.Kind == NodeNull {
		st.ns.UseSystem()
	}

	name, err := e.rootName(node, shape)
	if err != nil {
		return nil, err
	}

	w := &writer{
		table:  st.ns.Build(),
		format: e.format,
		indent: e.indent,
	}
	w.element(name, node, 0, true)
	if e.indent != "" {
		w.buf.WriteByte('\n')
	}

	e.logger.Debug("document encoded",
		zap.Stringer("type", static),
		zap.Int("bytes", w.buf.Len()),
		zap.Int("namespaces", w.table.Len()))
	return w.buf.Bytes(), nil
}

func (e *Encoder) rootName(node *ValueNode, shape *registry.Shape) (string, error) {
	switch shape.Kind {
	case registry.KindSequence:
		return "List", nil
	case registry.KindInterface:
		return itemName, nil
	case registry.KindComposite:
		d, err := e.reg.Resolve(shape.Base)
		if err != nil {
			return "", err
		}
		if !d.ID.IsZero() {
			return d.ID.Name, nil
		}
	}
	return "Value", nil
}

func (st *encodeState) value(v reflect.Value, s *registry.Shape, path []string) (*ValueNode, error) {
	switch s.Kind {
	case registry.KindInterface:
		return st.polymorphic(v, s, path)

	case registry.KindScalar:
		if s.Pointer {
			if v.IsNil() {
				return nullNode, nil
			}
			v = v.Elem()
		}
		if s.Scalar == registry.ScalarBytes && v.IsNil() {
			return nullNode, nil
		}
		text, err := autoformat.FormatScalar(v, s.Scalar)
		if err != nil {
			return nil, errors.WithPath(err, path)
		}
		return &ValueNode{Kind: NodeScalar, Shape: s, Text: text}, nil

	case registry.KindComposite:
		if s.Pointer {
			if v.IsNil() {
				return nullNode, nil
			}
			leave, err := st.enter(visitKey{typ: v.Type(), ptr: v.Pointer()}, s, path)
			if err != nil {
				return nil, err
			}
			defer leave()
			v = v.Elem()
		}
		return st.object(v, s, path)

	case registry.KindSequence:
		if s.Pointer {
			if v.IsNil() {
				return nullNode, nil
			}
			v = v.Elem()
		}
		if v.Kind() == reflect.Slice {
			if v.IsNil() {
				return nullNode, nil
			}
			if v.Len() > 0 {
				leave, err := st.enter(visitKey{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}, s, path)
				if err != nil {
					return nil, err
				}
				defer leave()
			}
		}
		items := make([]*ValueNode, v.Len())
		for i := range items {
			item, err := st.value(v.Index(i), s.Elem, appendPath(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			if item.Kind == NodeNull {
				st.ns.UseSystem()
			}
			items[i] = item
		}
		return &ValueNode{Kind: NodeSequence, Shape: s, Items: items}, nil
	}
	return nil, errors.Unserializable(errors.PhaseEncode, path, s.Type.String(), s.Kind.String()+" values cannot be encoded")
}

// polymorphic encodes the dynamic value of an interface slot and attaches
// the hint naming its concrete type.
func (st *encodeState) polymorphic(v reflect.Value, s *registry.Shape, path []string) (*ValueNode, error) {
	if v.IsNil() {
		return nullNode, nil
	}
	dyn := v.Elem()
	ct := dyn.Type()
	ptr := ct.Kind() == reflect.Pointer
	if ptr && dyn.IsNil() {
		return nullNode, nil
	}

	ds, err := st.reg.ShapeOf(ct)
	if err != nil {
		return nil, errors.WithPath(err, path)
	}
	if ds.Kind == registry.KindSequence {
		return nil, errors.Unserializable(errors.PhaseEncode, path, ct.String(),
			"sequences have no identifier and cannot fill an interface slot")
	}
	d, err := st.reg.Resolve(ct)
	if err != nil {
		return nil, errors.WithPath(err, path)
	}
	if d.ID.IsZero() {
		return nil, errors.Unserializable(errors.PhaseEncode, path, ct.String(),
			"anonymous types have no identifier and cannot fill an interface slot")
	}

	st.ns.Observe(d.ID)
	st.ns.UseSystem()

	node, err := st.value(dyn, ds, path)
	if err != nil {
		return nil, err
	}
	if node.Kind == NodeNull {
		return nullNode, nil
	}
	node.Hint = d
	node.HintPointer = ptr && d.Type.Implements(s.Type)
	return node, nil
}

func (st *encodeState) object(v reflect.Value, s *registry.Shape, path []string) (*ValueNode, error) {
	d, err := st.reg.Resolve(s.Base)
	if err != nil {
		return nil, errors.WithPath(err, path)
	}

	obj := &ObjectNode{
		Descriptor: d,
		Props:      make([]PropertyNode, 0, len(d.Properties)),
	}
	for i := range d.Properties {
		p := &d.Properties[i]
		child, err := st.value(v.FieldByIndex(p.Index), p.Shape, appendPath(path, p.Name))
		if err != nil {
			return nil, err
		}
		if child.Kind == NodeNull {
			continue
		}
		obj.Props = append(obj.Props, PropertyNode{Property: p, Value: child})
	}
	return &ValueNode{Kind: NodeObject, Shape: s, Object: obj}, nil
}

// enter marks a pointer or slice as being on the current walk path.
func (st *encodeState) enter(key visitKey, s *registry.Shape, path []string) (func(), error) {
	if _, ok := st.visiting[key]; ok {
		return nil, errors.Unserializable(errors.PhaseEncode, path, s.Type.String(),
			"cycle detected; only trees can be encoded")
	}
	st.visiting[key] = struct{}{}
	return func() { delete(st.visiting, key) }, nil
}

var nullNode = &ValueNode{Kind: NodeNull}

func appendPath(path []string, seg string) []string {
	return append(append(make([]string, 0, len(path)+1), path...), seg)
}
