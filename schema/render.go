package schema

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

var keywords = map[string]bool{
	"as": true, "async": true, "bool": true, "borrow": true, "char": true,
	"constructor": true, "enum": true, "export": true, "f32": true, "f64": true,
	"flags": true, "from": true, "func": true, "future": true, "import": true,
	"include": true, "interface": true, "list": true, "option": true, "own": true,
	"package": true, "record": true, "resource": true, "result": true,
	"s8": true, "s16": true, "s32": true, "s64": true, "static": true,
	"stream": true, "string": true, "tuple": true, "type": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "use": true,
	"variant": true, "with": true, "world": true,
}

// Render prints named record and variant definitions as WIT source.
func Render(defs []*wit.TypeDef) string {
	var b strings.Builder
	for _, def := range defs {
		if def.Name == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		name := ident(*def.Name)

		switch k := def.Kind.(type) {
		case *wit.Record:
			fmt.Fprintf(&b, "record %s {\n", name)
			for _, f := range k.Fields {
				fmt.Fprintf(&b, "    %s: %s,\n", ident(f.Name), TypeString(f.Type))
			}
			b.WriteString("}\n")
		case *wit.Variant:
			fmt.Fprintf(&b, "variant %s {\n", name)
			for _, c := range k.Cases {
				if c.Type == nil {
					fmt.Fprintf(&b, "    %s,\n", ident(c.Name))
					continue
				}
				fmt.Fprintf(&b, "    %s(%s),\n", ident(c.Name), TypeString(c.Type))
			}
			b.WriteString("}\n")
		default:
			fmt.Fprintf(&b, "type %s = %s;\n", name, kindString(def.Kind))
		}
	}
	return b.String()
}

// TypeString renders a type reference: named definitions by name, anonymous
// lists and options inline.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return ident(*v.Name)
		}
		return kindString(v.Kind)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func kindString(k wit.TypeDefKind) string {
	switch v := k.(type) {
	case *wit.List:
		return "list<" + TypeString(v.Type) + ">"
	case *wit.Option:
		return "option<" + TypeString(v.Type) + ">"
	default:
		return fmt.Sprintf("%T", k)
	}
}

func ident(name string) string {
	if keywords[name] {
		return "%" + name
	}
	return name
}
