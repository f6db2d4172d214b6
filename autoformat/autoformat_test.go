package autoformat

import (
	stderrors "errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/registry"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		kind    registry.Kind
		hinted  bool
		pref    registry.Preference
		want    Rendering
	}{
		{"scalar auto", true, registry.KindScalar, false, registry.PreferAuto, Attribute},
		{"scalar auto disabled", false, registry.KindScalar, false, registry.PreferAuto, Element},
		{"scalar hinted", true, registry.KindScalar, true, registry.PreferAuto, Element},
		{"scalar tagged elem", true, registry.KindScalar, false, registry.PreferElement, Element},
		{"scalar tagged attr", false, registry.KindScalar, false, registry.PreferAttribute, Attribute},
		{"hinted beats attr tag", true, registry.KindScalar, true, registry.PreferAttribute, Element},
		{"composite", true, registry.KindComposite, false, registry.PreferAttribute, Element},
		{"sequence", true, registry.KindSequence, false, registry.PreferAuto, Element},
		{"interface", true, registry.KindInterface, true, registry.PreferAuto, Element},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Formatter{Enabled: tt.enabled}.Classify(tt.kind, tt.hinted, tt.pref)
			if got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

type celsius float64

type level uint8

func (l level) MarshalText() ([]byte, error) {
	return []byte([]string{"low", "mid", "high"}[l]), nil
}

func (l *level) UnmarshalText(b []byte) error {
	for i, s := range []string{"low", "mid", "high"} {
		if s == string(b) {
			*l = level(i)
			return nil
		}
	}
	return stderrors.New("unknown level")
}

func TestFormatParse_RoundTrip(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)

	tests := []struct {
		name  string
		value any
		kind  registry.ScalarKind
		text  string
	}{
		{"bool", true, registry.ScalarBool, "true"},
		{"int", -42, registry.ScalarInt, "-42"},
		{"int8", int8(-128), registry.ScalarInt, "-128"},
		{"uint64", uint64(math.MaxUint64), registry.ScalarUint, "18446744073709551615"},
		{"float64 whole", 1.0, registry.ScalarFloat, "1"},
		{"float64 fraction", 0.1, registry.ScalarFloat, "0.1"},
		{"float32", float32(0.1), registry.ScalarFloat, "0.1"},
		{"float large", 1e21, registry.ScalarFloat, "1e+21"},
		{"named float", celsius(36.6), registry.ScalarFloat, "36.6"},
		{"string", "a < b & \"c\"", registry.ScalarString, "a < b & \"c\""},
		{"empty string", "", registry.ScalarString, ""},
		{"bytes", []byte{0, 1, 2, 255}, registry.ScalarBytes, "AAEC/w=="},
		{"time", when, registry.ScalarText, "2024-03-01T12:30:00.0000005Z"},
		{"text value receiver", level(2), registry.ScalarText, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := reflect.ValueOf(tt.value)
			text, err := FormatScalar(v, tt.kind)
			if err != nil {
				t.Fatalf("FormatScalar: %v", err)
			}
			if text != tt.text {
				t.Errorf("FormatScalar = %q, want %q", text, tt.text)
			}

			dst := reflect.New(v.Type()).Elem()
			if err := ParseScalar(text, tt.kind, dst); err != nil {
				t.Fatalf("ParseScalar: %v", err)
			}
			if !reflect.DeepEqual(dst.Interface(), tt.value) {
				t.Errorf("round trip = %#v, want %#v", dst.Interface(), tt.value)
			}
		})
	}
}

func TestFormatScalar_AddressableText(t *testing.T) {
	type holder struct{ When time.Time }
	h := holder{When: time.Unix(0, 0).UTC()}
	v := reflect.ValueOf(&h).Elem().Field(0)
	text, err := FormatScalar(v, registry.ScalarText)
	if err != nil {
		t.Fatal(err)
	}
	if text != "1970-01-01T00:00:00Z" {
		t.Errorf("text = %q", text)
	}
}

func TestFormatScalar_InvalidText(t *testing.T) {
	for _, s := range []string{"bell\x07", "nul\x00", "bad\xffutf8", "\uFFFE"} {
		_, err := FormatScalar(reflect.ValueOf(s), registry.ScalarString)
		if !stderrors.Is(err, errors.ErrUnserializable) {
			t.Errorf("FormatScalar(%q) error = %v, want unserializable", s, err)
		}
	}
	for _, s := range []string{"tab\there", "line\nbreak", "cr\r", "emoji \U0001F600"} {
		if _, err := FormatScalar(reflect.ValueOf(s), registry.ScalarString); err != nil {
			t.Errorf("FormatScalar(%q) unexpected error: %v", s, err)
		}
	}
}

func TestParseScalar_Whitespace(t *testing.T) {
	var n int
	if err := ParseScalar("  7\n", registry.ScalarInt, reflect.ValueOf(&n).Elem()); err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("n = %d", n)
	}

	var s string
	if err := ParseScalar("  keep  ", registry.ScalarString, reflect.ValueOf(&s).Elem()); err != nil {
		t.Fatal(err)
	}
	if s != "  keep  " {
		t.Errorf("strings must keep whitespace, got %q", s)
	}
}

func TestParseScalar_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind registry.ScalarKind
		dst  any
	}{
		{"bool", "yes please", registry.ScalarBool, new(bool)},
		{"int", "1.5", registry.ScalarInt, new(int)},
		{"int8 overflow", "300", registry.ScalarInt, new(int8)},
		{"uint negative", "-1", registry.ScalarUint, new(uint)},
		{"float", "one", registry.ScalarFloat, new(float64)},
		{"bytes", "!!", registry.ScalarBytes, new([]byte)},
		{"text", "extreme", registry.ScalarText, new(level)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := reflect.ValueOf(tt.dst).Elem()
			err := ParseScalar(tt.text, tt.kind, dst)
			if !stderrors.Is(err, errors.ErrParse) {
				t.Fatalf("error = %v, want parse error", err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Value != tt.text {
				t.Errorf("error should carry the offending text, got %#v", e)
			}
		})
	}
}
