package autoformat

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/registry"
)

var textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()

// FormatScalar renders a scalar as canonical text. v must not be a pointer.
// Floats use the shortest text that parses back to the same value.
func FormatScalar(v reflect.Value, k registry.ScalarKind) (string, error) {
	switch k {
	case registry.ScalarBool:
		return strconv.FormatBool(v.Bool()), nil
	case registry.ScalarInt:
		return strconv.FormatInt(v.Int(), 10), nil
	case registry.ScalarUint:
		return strconv.FormatUint(v.Uint(), 10), nil
	case registry.ScalarFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), nil
	case registry.ScalarString:
		s := v.String()
		if err := CheckText(s); err != nil {
			return "", errors.Unserializable(errors.PhaseEncode, nil, v.Type().String(), err.Error())
		}
		return s, nil
	case registry.ScalarBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes()), nil
	case registry.ScalarText:
		return formatText(v)
	}
	return "", errors.Unserializable(errors.PhaseEncode, nil, v.Type().String(), "not a scalar")
}

func formatText(v reflect.Value) (string, error) {
	var m encoding.TextMarshaler
	switch {
	case v.Type().Implements(textMarshalerType):
		m = v.Interface().(encoding.TextMarshaler)
	case v.CanAddr():
		m = v.Addr().Interface().(encoding.TextMarshaler)
	default:
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		m = p.Interface().(encoding.TextMarshaler)
	}

	b, err := m.MarshalText()
	if err != nil {
		return "", errors.New(errors.PhaseEncode, errors.KindUnserializable).
			GoType(v.Type().String()).
			Cause(err).
			Detail("MarshalText failed").
			Build()
	}
	s := string(b)
	if err := CheckText(s); err != nil {
		return "", errors.Unserializable(errors.PhaseEncode, nil, v.Type().String(), err.Error())
	}
	return s, nil
}

// ParseScalar parses text into dst, which must be settable and not a pointer.
// Surrounding whitespace is ignored except for strings and text types.
func ParseScalar(text string, k registry.ScalarKind, dst reflect.Value) error {
	var err error
	switch k {
	case registry.ScalarBool:
		var b bool
		if b, err = strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			dst.SetBool(b)
		}
	case registry.ScalarInt:
		var n int64
		if n, err = strconv.ParseInt(strings.TrimSpace(text), 10, dst.Type().Bits()); err == nil {
			dst.SetInt(n)
		}
	case registry.ScalarUint:
		var n uint64
		if n, err = strconv.ParseUint(strings.TrimSpace(text), 10, dst.Type().Bits()); err == nil {
			dst.SetUint(n)
		}
	case registry.ScalarFloat:
		var f float64
		if f, err = strconv.ParseFloat(strings.TrimSpace(text), dst.Type().Bits()); err == nil {
			dst.SetFloat(f)
		}
	case registry.ScalarString:
		dst.SetString(text)
	case registry.ScalarBytes:
		var b []byte
		if b, err = base64.StdEncoding.DecodeString(strings.TrimSpace(text)); err == nil {
			dst.SetBytes(b)
		}
	case registry.ScalarText:
		u, ok := dst.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return errors.InvalidInput(errors.PhaseDecode, dst.Type().String()+" does not implement encoding.TextUnmarshaler")
		}
		err = u.UnmarshalText([]byte(text))
	default:
		return errors.InvalidInput(errors.PhaseDecode, dst.Type().String()+" is not a scalar")
	}

	if err != nil {
		return errors.New(errors.PhaseDecode, errors.KindParse).
			GoType(dst.Type().String()).
			Value(text).
			Cause(err).
			Detail("invalid %s value", k).
			Build()
	}
	return nil
}

// CheckText reports an error when s cannot be carried by an XML document:
// invalid UTF-8 or code points outside the XML Char production.
func CheckText(s string) error {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return fmt.Errorf("invalid UTF-8 at byte %d", i)
		}
		if !isXMLChar(r) {
			return fmt.Errorf("character %U at byte %d is not allowed in XML", r, i)
		}
		i += size
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
