package registry

import (
	"encoding"
	"reflect"

	"github.com/wippyai/polyxml/errors"
)

var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// ShapeOf returns the cached shape of a declared type.
func (r *Registry) ShapeOf(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, errors.InvalidInput(errors.PhaseResolve, "type cannot be nil")
	}
	if s, ok := r.shapes.Load(t); ok {
		return s.(*Shape), nil
	}

	building := make(map[reflect.Type]*Shape)
	if _, err := r.buildShape(t, building, nil); err != nil {
		return nil, err
	}
	for typ, s := range building {
		r.shapes.LoadOrStore(typ, s)
	}
	s, _ := r.shapes.Load(t)
	return s.(*Shape), nil
}

// buildShape records in-progress shapes in building so self-referential
// named sequences (type Tree []Tree) terminate.
func (r *Registry) buildShape(t reflect.Type, building map[reflect.Type]*Shape, path []string) (*Shape, error) {
	if s, ok := building[t]; ok {
		return s, nil
	}
	if s, ok := r.shapes.Load(t); ok {
		return s.(*Shape), nil
	}

	base, ptr := t, false
	if t.Kind() == reflect.Pointer {
		base, ptr = t.Elem(), true
		if base.Kind() == reflect.Pointer {
			return nil, errors.Unserializable(errors.PhaseResolve, path, t.String(), "multi-level pointers are not supported")
		}
	}

	kind, scalar, err := classify(base, path)
	if err != nil {
		return nil, err
	}
	if ptr && kind == KindInterface {
		return nil, errors.Unserializable(errors.PhaseResolve, path, t.String(), "pointers to interfaces are not supported")
	}

	s := &Shape{
		Type:    t,
		Base:    base,
		Kind:    kind,
		Scalar:  scalar,
		Pointer: ptr,
		Len:     -1,
	}
	building[t] = s

	if kind == KindSequence {
		if base.Kind() == reflect.Array {
			s.Len = base.Len()
		}
		elem, err := r.buildShape(base.Elem(), building, append(append([]string{}, path...), "[elem]"))
		if err != nil {
			return nil, err
		}
		s.Elem = elem
	}
	return s, nil
}

func classify(t reflect.Type, path []string) (Kind, ScalarKind, error) {
	if t.Kind() != reflect.Interface && isText(t) {
		return KindScalar, ScalarText, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return KindScalar, ScalarBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindScalar, ScalarInt, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindScalar, ScalarUint, nil
	case reflect.Float32, reflect.Float64:
		return KindScalar, ScalarFloat, nil
	case reflect.String:
		return KindScalar, ScalarString, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && !isText(t.Elem()) {
			return KindScalar, ScalarBytes, nil
		}
		return KindSequence, ScalarNone, nil
	case reflect.Array:
		return KindSequence, ScalarNone, nil
	case reflect.Struct:
		return KindComposite, ScalarNone, nil
	case reflect.Interface:
		return KindInterface, ScalarNone, nil
	default:
		return KindInvalid, ScalarNone, errors.Unserializable(errors.PhaseResolve, path, t.String(),
			t.Kind().String()+" types are not supported")
	}
}

// isText reports whether t round-trips through MarshalText/UnmarshalText.
func isText(t reflect.Type) bool {
	marshals := t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
	return marshals && reflect.PointerTo(t).Implements(textUnmarshalerType)
}
