package codec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/polyxml/autoformat"
	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/namespace"
	"github.com/wippyai/polyxml/registry"
)

// Decoder rebuilds Go values from documents. Safe for concurrent use.
type Decoder struct {
	reg    *registry.Registry
	logger *zap.Logger
}

// NewDecoder creates a decoder resolving type hints through reg.
func NewDecoder(reg *registry.Registry, opts Options) *Decoder {
	return &Decoder{
		reg:    reg,
		logger: opts.logger(),
	}
}

type decodeState struct {
	reg        *registry.Registry
	logger     *zap.Logger
	candidates []reflect.Type
}

// Decode parses data and stores the result in the value target points to.
// candidates are concrete types searched when a hint names a type the
// registry has not seen yet. target is only written when decoding succeeds.
func (d *Decoder) Decode(data []byte, target reflect.Value, candidates ...reflect.Type) error {
	if !target.IsValid() || target.Kind() != reflect.Pointer || target.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "target must be a non-nil pointer")
	}
	root, err := Parse(data)
	if err != nil {
		return err
	}
	return d.DecodeElement(root, target, candidates...)
}

// DecodeElement decodes an already parsed tree into target.
func (d *Decoder) DecodeElement(root *Element, target reflect.Value, candidates ...reflect.Type) error {
	if !target.IsValid() || target.Kind() != reflect.Pointer || target.IsNil() {
		return errors.InvalidInput(errors.PhaseDecode, "target must be a non-nil pointer")
	}
	static := target.Type().Elem()
	shape, err := d.reg.ShapeOf(static)
	if err != nil {
		return err
	}

	st := &decodeState{
		reg:        d.reg,
		logger:     d.logger,
		candidates: candidates,
	}
	v := reflect.New(static).Elem()
	if err := st.value(root, shape, v, nil); err != nil {
		return err
	}
	target.Elem().Set(v)
	return nil
}

// value decodes el into dst, a settable value of the slot type s.Type.
func (st *decodeState) value(el *Element, s *registry.Shape, dst reflect.Value, path []string) error {
	if isNil, _ := el.Attr(namespace.SystemNamespace, nilAttr); isNil == "true" {
		return nil
	}
	hint, hinted := el.Attr(namespace.SystemNamespace, typeAttr)

	if s.IsPolymorphic() {
		if !hinted {
			return errors.New(errors.PhaseDecode, errors.KindUnknownType).
				Path(path...).
				GoType(s.Type.String()).
				Line(el.Line).
				Detail("interface value has no type hint").
				Build()
		}
		ct, err := st.concrete(el, hint, s.Type, path)
		if err != nil {
			return err
		}
		cs, err := st.reg.ShapeOf(ct)
		if err != nil {
			return errors.WithPath(err, path)
		}
		nv := reflect.New(ct).Elem()
		if err := st.concreteValue(el, cs, nv, path); err != nil {
			return err
		}
		dst.Set(nv)
		return nil
	}

	if hinted {
		if err := st.checkHint(el, hint, s, path); err != nil {
			return err
		}
	}
	return st.concreteValue(el, s, dst, path)
}

// concrete picks the Go type named by a hint for an interface slot. Without
// the pointer marker T is preferred over *T when both fit.
func (st *decodeState) concrete(el *Element, hint string, iface reflect.Type, path []string) (reflect.Type, error) {
	qname, ptr := strings.CutPrefix(hint, "*")
	desc, err := st.lookup(el, qname, path)
	if err != nil {
		return nil, err
	}

	pt := reflect.PointerTo(desc.Type)
	switch {
	case ptr && pt.Implements(iface):
		return pt, nil
	case !ptr && desc.Type.Implements(iface):
		return desc.Type, nil
	case !ptr && pt.Implements(iface):
		return pt, nil
	}
	return nil, mismatch(el, path, iface, desc, fmt.Sprintf("%s does not implement %s", desc.Type, iface))
}

// checkHint verifies that a hint on a concrete slot names the slot's type.
// The pointer marker is only valid on pointer slots.
func (st *decodeState) checkHint(el *Element, hint string, s *registry.Shape, path []string) error {
	qname, ptr := strings.CutPrefix(hint, "*")
	desc, err := st.lookup(el, qname, path)
	if err != nil {
		return err
	}
	switch {
	case desc.Type != s.Base:
		return mismatch(el, path, s.Type, desc, fmt.Sprintf("hint names %s but the slot holds %s", desc.Type, s.Base))
	case ptr && !s.Pointer:
		return mismatch(el, path, s.Type, desc, fmt.Sprintf("pointer hint on a %s value", s.Base))
	}
	return nil
}

func mismatch(el *Element, path []string, slot reflect.Type, desc *registry.Descriptor, detail string) error {
	e := errors.TypeMismatch(errors.PhaseDecode, path, slot.String(), desc.ID.String())
	e.Line = el.Line
	e.Detail = detail
	return e
}

func (st *decodeState) lookup(el *Element, qname string, path []string) (*registry.Descriptor, error) {
	id, err := el.Scope.Resolve(qname)
	if err != nil {
		return nil, at(err, path, el.Line)
	}
	desc, err := st.reg.Lookup(id, st.candidates...)
	if err != nil {
		return nil, at(err, path, el.Line)
	}
	return desc, nil
}

// concreteValue decodes el into dst whose type is fully known.
func (st *decodeState) concreteValue(el *Element, s *registry.Shape, dst reflect.Value, path []string) error {
	if s.Pointer {
		p := reflect.New(s.Base)
		if err := st.base(el, s, p.Elem(), path); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	return st.base(el, s, dst, path)
}

func (st *decodeState) base(el *Element, s *registry.Shape, dst reflect.Value, path []string) error {
	switch s.Kind {
	case registry.KindScalar:
		if err := autoformat.ParseScalar(el.Text, s.Scalar, dst); err != nil {
			return at(err, path, el.Line)
		}
		return nil
	case registry.KindComposite:
		return st.object(el, s, dst, path)
	case registry.KindSequence:
		return st.sequence(el, s, dst, path)
	}
	return errors.Unserializable(errors.PhaseDecode, path, s.Type.String(), s.Kind.String()+" values cannot be decoded")
}

// object fills the properties of a composite. A property may appear as an
// attribute or a child element; unknown ones are skipped.
func (st *decodeState) object(el *Element, s *registry.Shape, dst reflect.Value, path []string) error {
	desc, err := st.reg.Resolve(s.Base)
	if err != nil {
		return errors.WithPath(err, path)
	}

	for _, a := range el.Attrs {
		if a.Name.Space != "" {
			continue
		}
		p, ok := desc.Property(a.Name.Local)
		if !ok {
			st.unknown(path, a.Name.Local, el.Line)
			continue
		}
		ppath := appendPath(path, p.Name)
		if p.Shape.Kind != registry.KindScalar {
			return errors.InvalidData(errors.PhaseDecode, ppath, el.Line,
				p.Shape.Kind.String()+" property cannot be written as an attribute")
		}
		fv := dst.FieldByIndex(p.Index)
		target := fv
		if p.Shape.Pointer {
			target = reflect.New(p.Shape.Base).Elem()
		}
		if err := autoformat.ParseScalar(a.Value, p.Shape.Scalar, target); err != nil {
			return at(err, ppath, el.Line)
		}
		if p.Shape.Pointer {
			fv.Set(target.Addr())
		}
	}

	for _, child := range el.Children {
		p, ok := desc.Property(child.Name.Local)
		if !ok {
			st.unknown(path, child.Name.Local, child.Line)
			continue
		}
		if err := st.value(child, p.Shape, dst.FieldByIndex(p.Index), appendPath(path, p.Name)); err != nil {
			return err
		}
	}
	return nil
}

// sequence decodes children in document order. Child names are not checked.
func (st *decodeState) sequence(el *Element, s *registry.Shape, dst reflect.Value, path []string) error {
	n := len(el.Children)
	if dst.Kind() == reflect.Array {
		if n > s.Len {
			return errors.InvalidData(errors.PhaseDecode, path, el.Line,
				"array of length "+strconv.Itoa(s.Len)+" has "+strconv.Itoa(n)+" elements")
		}
	} else {
		dst.Set(reflect.MakeSlice(s.Base, n, n))
	}

	for i, child := range el.Children {
		if err := st.value(child, s.Elem, dst.Index(i), appendPath(path, "["+strconv.Itoa(i)+"]")); err != nil {
			return err
		}
	}
	return nil
}

func (st *decodeState) unknown(path []string, name string, line int) {
	st.logger.Debug("unknown property ignored",
		zap.String("path", errors.JoinPath(path)),
		zap.String("name", name),
		zap.Int("line", line))
}

// at attaches the document position to an error raised below the node.
// Registry failures surface as decode errors.
func at(err error, path []string, line int) error {
	err = errors.WithPath(err, path)
	if e, ok := err.(*errors.Error); ok {
		if e.Line == 0 {
			e.Line = line
		}
		if e.Phase == errors.PhaseResolve {
			e.Phase = errors.PhaseDecode
		}
	}
	return err
}
