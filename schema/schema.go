package schema

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/registry"
)

// Export describes descs and every type they reach as WIT type definitions,
// in dependency order. Composites become records, interface slots become
// variants over the registry's known implementors, sequences become lists
// and pointers become options.
func Export(reg *registry.Registry, descs ...*registry.Descriptor) ([]*wit.TypeDef, error) {
	x := &exporter{
		reg:   reg,
		named: make(map[reflect.Type]*wit.TypeDef),
		used:  make(map[string]int),
	}
	for _, d := range descs {
		if d.Kind != registry.DescriptorComposite {
			continue
		}
		if _, err := x.record(d); err != nil {
			return nil, err
		}
	}
	return x.defs, nil
}

type exporter struct {
	reg   *registry.Registry
	named map[reflect.Type]*wit.TypeDef
	used  map[string]int
	defs  []*wit.TypeDef
}

func (x *exporter) record(d *registry.Descriptor) (*wit.TypeDef, error) {
	if def, ok := x.named[d.Type]; ok {
		return def, nil
	}
	// published before the fields so self references resolve
	def := &wit.TypeDef{Name: x.name(d.ID.Name), Kind: &wit.Record{}}
	x.named[d.Type] = def

	fields := make([]wit.Field, 0, len(d.Properties))
	for _, p := range d.Properties {
		t, err := x.typeOf(p.Shape)
		if err != nil {
			return nil, errors.WithPath(err, []string{p.Name})
		}
		fields = append(fields, wit.Field{Name: Kebab(p.Name), Type: t})
	}
	def.Kind = &wit.Record{Fields: fields}
	x.defs = append(x.defs, def)
	return def, nil
}

func (x *exporter) variant(iface reflect.Type) (*wit.TypeDef, error) {
	if def, ok := x.named[iface]; ok {
		return def, nil
	}
	def := &wit.TypeDef{Name: x.name(registry.EscapeName(iface.Name())), Kind: &wit.Variant{}}
	x.named[iface] = def

	var cases []wit.Case
	for _, d := range x.reg.Implementors(iface) {
		if d.ID.IsZero() {
			continue
		}
		var t wit.Type
		var err error
		if d.Kind == registry.DescriptorComposite {
			t, err = x.record(d)
		} else {
			t, err = x.typeOf(d.Self)
		}
		if err != nil {
			return nil, err
		}
		cases = append(cases, wit.Case{Name: Kebab(d.ID.Name), Type: t})
	}
	if len(cases) == 0 {
		return nil, errors.Unserializable(errors.PhaseResolve, nil, iface.String(), "interface has no registered implementors")
	}
	def.Kind = &wit.Variant{Cases: cases}
	x.defs = append(x.defs, def)
	return def, nil
}

func (x *exporter) typeOf(s *registry.Shape) (wit.Type, error) {
	inner, err := x.baseType(s)
	if err != nil || !s.Pointer {
		return inner, err
	}
	return &wit.TypeDef{Kind: &wit.Option{Type: inner}}, nil
}

func (x *exporter) baseType(s *registry.Shape) (wit.Type, error) {
	switch s.Kind {
	case registry.KindScalar:
		return scalarType(s), nil
	case registry.KindComposite:
		d, err := x.reg.Resolve(s.Base)
		if err != nil {
			return nil, err
		}
		return x.record(d)
	case registry.KindInterface:
		return x.variant(s.Base)
	case registry.KindSequence:
		elem, err := x.typeOf(s.Elem)
		if err != nil {
			return nil, err
		}
		return &wit.TypeDef{Kind: &wit.List{Type: elem}}, nil
	}
	return nil, errors.Unserializable(errors.PhaseResolve, nil, s.Type.String(), "no WIT equivalent")
}

func scalarType(s *registry.Shape) wit.Type {
	switch s.Scalar {
	case registry.ScalarBool:
		return wit.Bool{}
	case registry.ScalarInt:
		switch s.Base.Bits() {
		case 8:
			return wit.S8{}
		case 16:
			return wit.S16{}
		case 32:
			return wit.S32{}
		}
		return wit.S64{}
	case registry.ScalarUint:
		switch s.Base.Bits() {
		case 8:
			return wit.U8{}
		case 16:
			return wit.U16{}
		case 32:
			return wit.U32{}
		}
		return wit.U64{}
	case registry.ScalarFloat:
		if s.Base.Bits() == 32 {
			return wit.F32{}
		}
		return wit.F64{}
	case registry.ScalarBytes:
		return &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	}
	// strings and text types
	return wit.String{}
}

// name gives each Go type a distinct kebab-case WIT name.
func (x *exporter) name(base string) *string {
	n := Kebab(base)
	if n == "" {
		n = "anonymous"
	}
	x.used[n]++
	if c := x.used[n]; c > 1 {
		n += "-n" + strconv.Itoa(c)
	}
	return &n
}

// Kebab converts a Go identifier to a WIT identifier: MyClassOfInts becomes
// my-class-of-ints and HTTPServer becomes http-server.
func Kebab(s string) string {
	rs := []rune(s)
	var b strings.Builder
	dash := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
			b.WriteByte('-')
		}
	}
	for i, r := range rs {
		switch {
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1]))
			nextLower := i > 0 && i+1 < len(rs) && unicode.IsUpper(rs[i-1]) && unicode.IsLower(rs[i+1])
			if prevLower || nextLower {
				dash()
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteString("n")
			}
			b.WriteRune(r)
		default:
			dash()
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
