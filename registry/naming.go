package registry

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// typeID derives the default identifier for t. Anonymous types get the zero ID.
func typeID(t reflect.Type) TypeID {
	if t.Name() == "" {
		return TypeID{}
	}
	ns := BuiltinNamespace
	if pkg := t.PkgPath(); pkg != "" {
		ns = GoNamespacePrefix + pkg
	}
	return TypeID{Namespace: ns, Name: EscapeName(t.Name())}
}

// EscapeName turns a Go type name into an XML NCName. Generic instantiation
// names such as "Box[github.com/x/y.Item]" contain characters XML names cannot
// hold; each is replaced by an underscore escape. '_' itself is doubled, so
// the mapping is injective.
func EscapeName(name string) string {
	if isPlainName(name) {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 8)
	for _, r := range name {
		switch {
		case r == '_':
			b.WriteString("__")
		case r == '[':
			b.WriteString("_o")
		case r == ']':
			b.WriteString("_c")
		case r == ',':
			b.WriteString("_m")
		case r == '/':
			b.WriteString("_s")
		case r == '*':
			b.WriteString("_p")
		case r == ' ':
			b.WriteString("_w")
		case isNameRune(r):
			b.WriteRune(r)
		default:
			b.WriteString("_u")
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isPlainName(name string) bool {
	for _, r := range name {
		if r == '_' || !isNameRune(r) {
			return false
		}
	}
	return name != ""
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-'
}

// IsNCName reports whether s is usable as an unprefixed XML name.
func IsNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !(unicode.IsLetter(r) || r == '_') {
			return false
		}
		if !(isNameRune(r) || r == '_') {
			return false
		}
	}
	return true
}
