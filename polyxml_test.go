package polyxml

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/polyxml/examples/sample"
	"github.com/wippyai/polyxml/registry"
)

const sample1Document = `<List xmlns:px="https://wippy.ai/polyxml" xmlns:ns1="go:github.com/wippyai/polyxml/examples/sample">
  <Item px:type="ns1:MyClassOfInts" OneOfThem="3">
    <MyItems>
      <MyItemWithInt Name="uno" Integer="1"/>
      <MyItemWithInt Name="dos" Integer="2"/>
    </MyItems>
  </Item>
  <Item px:type="ns1:MyClassOfInts" OneOfThem="6">
    <MyItems>
      <MyItemWithInt Name="cuatro" Integer="4"/>
      <MyItemWithInt Name="cinco" Integer="5"/>
    </MyItems>
  </Item>
  <Item px:type="ns1:MyClassOfDoubles" Sample="1">
    <MyItems>
      <MyItemWithDouble Name="1" Double="1"/>
      <MyItemWithDouble Name="2" Double="2"/>
    </MyItems>
  </Item>
  <Item px:type="ns1:MyClassOfDoubles" Sample="5">
    <MyItems>
      <MyItemWithDouble Name="3" Double="3"/>
      <MyItemWithDouble Name="4" Double="4"/>
    </MyItems>
  </Item>
</List>
`

func newSampleSerializer(t testing.TB, mutate ...func(*Options)) *Serializer {
	t.Helper()
	opts := DefaultOptions()
	opts.Interfaces = sample.Interfaces()
	for _, m := range mutate {
		m(&opts)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSample1_Document(t *testing.T) {
	s := newSampleSerializer(t, func(o *Options) { o.Indent = "  " })
	data, err := s.Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sample1Document {
		t.Errorf("got\n%s\nwant\n%s", data, sample1Document)
	}
}

func TestSample1_RoundTrip(t *testing.T) {
	writer := newSampleSerializer(t)
	data, err := writer.Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}

	// a separate reader has never seen the concrete types
	reader := newSampleSerializer(t)
	classes, err := Unmarshal[[]sample.Class](reader, data, sample.Types()...)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(classes, sample.GenerateSample1()) {
		t.Fatalf("round trip mismatch: %#v", classes)
	}

	ints, ok := classes[0].(*sample.MyClassOfInts)
	if !ok {
		t.Fatalf("classes[0] = %T, want *sample.MyClassOfInts", classes[0])
	}
	if ints.MyItems[0].Integer != 1 || ints.MyItems[0].Name != "uno" {
		t.Errorf("classes[0].MyItems[0] = %+v", ints.MyItems[0])
	}

	doubles, ok := classes[2].(*sample.MyClassOfDoubles)
	if !ok {
		t.Fatalf("classes[2] = %T, want *sample.MyClassOfDoubles", classes[2])
	}
	if doubles.Sample != 1 || doubles.MyItems[0].Name != "1" || doubles.MyItems[0].Double != 1 {
		t.Errorf("classes[2] = %+v", doubles)
	}
	if _, isInts := classes[2].(sample.ClassOf[sample.MyItemWithInt]); isInts {
		t.Error("a class of doubles must not satisfy ClassOf[MyItemWithInt]")
	}
}

func TestRoundTrip_Options(t *testing.T) {
	variants := map[string]func(*Options){
		"defaults":      func(*Options) {},
		"no autoformat": func(o *Options) { o.AutoFormat = false },
		"no optimize":   func(o *Options) { o.OptimizeNamespaces = false },
		"plain":         func(o *Options) { o.AutoFormat, o.OptimizeNamespaces = false, false },
		"indented":      func(o *Options) { o.Indent = "\t" },
	}
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			s := newSampleSerializer(t, mutate)
			data, err := s.Serialize(sample.GenerateSample1())
			if err != nil {
				t.Fatal(err)
			}
			out, err := Unmarshal[[]sample.Class](newSampleSerializer(t, mutate), data, sample.Types()...)
			if err != nil {
				t.Fatalf("%v\n%s", err, data)
			}
			if !reflect.DeepEqual(out, sample.GenerateSample1()) {
				t.Errorf("mismatch for\n%s", data)
			}
		})
	}
}

func TestOrderPreserved(t *testing.T) {
	names := []string{"zeta", "alpha", "mu", "beta", "alpha"}
	in := &sample.MyClassOfInts{}
	for i, n := range names {
		in.MyItems = append(in.MyItems, sample.MyItemWithInt{Name: n, Integer: len(names) - i})
	}

	s := newSampleSerializer(t)
	data, err := Marshal[sample.Class](s, in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Unmarshal[sample.Class](s, data)
	if err != nil {
		t.Fatal(err)
	}
	got := out.(*sample.MyClassOfInts).MyItems
	for i, n := range names {
		if got[i].Name != n || got[i].Integer != len(names)-i {
			t.Errorf("item %d = %+v", i, got[i])
		}
	}
}

func TestHintMinimality(t *testing.T) {
	s := newSampleSerializer(t)

	concrete, err := s.Serialize(&sample.MyClassOfInts{MyItems: []sample.MyItemWithInt{{Name: "a", Integer: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(concrete), "px:") {
		t.Errorf("concrete root should not need hints or the system namespace:\n%s", concrete)
	}

	poly, err := s.Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(poly), "px:type="); got != 4 {
		t.Errorf("expected exactly one hint per list element, got %d", got)
	}
}

func TestGenericInterfaceSlot(t *testing.T) {
	s := newSampleSerializer(t)
	in := []sample.ClassOf[sample.MyItemWithInt]{
		&sample.MyClassOfInts{MyItems: []sample.MyItemWithInt{{Name: "x", Integer: 9}}},
	}
	data, err := Marshal(s, in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Unmarshal[[]sample.ClassOf[sample.MyItemWithInt]](s, data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("out = %#v", out)
	}
	if out[0].Items()[0].Integer != 9 {
		t.Errorf("items = %+v", out[0].Items())
	}

	// a list of mixed classes cannot be read as classes of ints
	mixed, err := s.Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}
	_, err = Unmarshal[[]sample.ClassOf[sample.MyItemWithInt]](s, mixed)
	if !stderrors.Is(err, ErrTypeMismatch) {
		t.Errorf("error = %v, want type mismatch", err)
	}
}

func TestUnknownType(t *testing.T) {
	data, err := newSampleSerializer(t).Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}

	var out []sample.Class
	err = NewWithDefaults().Deserialize(data, &out)
	if !stderrors.Is(err, ErrUnknownType) {
		t.Fatalf("error = %v, want unknown type", err)
	}
	var e *Error
	if !stderrors.As(err, &e) || !strings.Contains(e.TypeID, "MyClassOfInts") {
		t.Errorf("error should name the unresolved type: %#v", e)
	}
	if len(e.Path) == 0 || e.Path[0] != "[0]" {
		t.Errorf("path = %v", e.Path)
	}
	if out != nil {
		t.Error("failed decode must not produce a partial result")
	}

	// candidates that do not include the named type do not help
	err = NewWithDefaults().Deserialize(data, &out, reflect.TypeFor[sample.MyItemWithInt]())
	if !stderrors.Is(err, ErrUnknownType) {
		t.Errorf("error = %v, want unknown type", err)
	}
}

func TestKnownTypes(t *testing.T) {
	data, err := newSampleSerializer(t).Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}
	reader := newSampleSerializer(t, func(o *Options) { o.KnownTypes = sample.Types() })
	if _, err := Unmarshal[[]sample.Class](reader, data); err != nil {
		t.Errorf("known types should decode without candidates: %v", err)
	}

	_, err = New(Options{KnownTypes: []reflect.Type{reflect.TypeFor[map[string]int]()}})
	if !stderrors.Is(err, ErrUnserializable) {
		t.Errorf("error = %v, want unserializable", err)
	}
}

func TestPinnedNames(t *testing.T) {
	names := map[reflect.Type]registry.TypeID{
		reflect.TypeFor[sample.MyClassOfInts]():    {Namespace: "urn:demo:v1", Name: "Ints"},
		reflect.TypeFor[sample.MyClassOfDoubles](): {Namespace: "urn:demo:v1", Name: "Doubles"},
	}
	s := newSampleSerializer(t, func(o *Options) { o.Names = names })
	data, err := s.Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	if !strings.Contains(doc, `xmlns:ns1="urn:demo:v1"`) || !strings.Contains(doc, `px:type="ns1:Doubles"`) {
		t.Errorf("pinned identifiers not used:\n%s", doc)
	}

	reader := newSampleSerializer(t, func(o *Options) { o.Names = names })
	out, err := Unmarshal[[]sample.Class](reader, data, sample.Types()...)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, sample.GenerateSample1()) {
		t.Error("round trip mismatch with pinned names")
	}
}

func TestParseError(t *testing.T) {
	s := newSampleSerializer(t)
	for _, doc := range []string{"", "<List>", "<List></Lust>", "not xml"} {
		var out []sample.Class
		if err := s.Deserialize([]byte(doc), &out); !stderrors.Is(err, ErrParse) {
			t.Errorf("Deserialize(%q) error = %v, want parse error", doc, err)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	s := newSampleSerializer(t)
	if _, err := s.Serialize(nil); !stderrors.Is(err, ErrInvalidInput) {
		t.Errorf("Serialize(nil) error = %v", err)
	}
	var out []sample.Class
	if err := s.Deserialize([]byte("<List/>"), out); !stderrors.Is(err, ErrInvalidInput) {
		t.Errorf("Deserialize into non-pointer error = %v", err)
	}
}

func TestDeterministic(t *testing.T) {
	s := newSampleSerializer(t)
	first, err := s.Serialize(sample.GenerateSample1())
	if err != nil {
		t.Fatal(err)
	}
	// a fresh serializer discovers types in a different order
	other := newSampleSerializer(t, func(o *Options) {
		o.KnownTypes = []reflect.Type{reflect.TypeFor[sample.MyClassOfDoubles]()}
	})
	for i := 0; i < 10; i++ {
		for _, ser := range []*Serializer{s, other} {
			next, err := ser.Serialize(sample.GenerateSample1())
			if err != nil {
				t.Fatal(err)
			}
			if string(next) != string(first) {
				t.Fatalf("output differs:\n%s\n%s", first, next)
			}
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	s := newSampleSerializer(t)
	want := sample.GenerateSample1()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := s.Serialize(sample.GenerateSample1())
			if err != nil {
				errs <- err
				return
			}
			out, err := Unmarshal[[]sample.Class](s, data, sample.Types()...)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(out, want) {
				errs <- stderrors.New("round trip mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newSampleSerializer(t, func(o *Options) { o.Logger = zap.New(core) })

	doc := strings.Replace(sample1Document, `OneOfThem="3"`, `OneOfThem="3" Legacy="yes"`, 1)
	if _, err := Unmarshal[[]sample.Class](s, []byte(doc), sample.Types()...); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("unknown property ignored").Len() != 1 {
		t.Errorf("expected one ignored property event, got %v", logs.All())
	}
	if logs.FilterMessage("type descriptor registered").Len() == 0 {
		t.Error("expected descriptor registration events")
	}

	if _, err := s.Serialize(sample.GenerateSample1()); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("document encoded").Len() != 1 {
		t.Error("expected one encode event")
	}
}

func TestDescriptorInterfaces(t *testing.T) {
	s := newSampleSerializer(t, func(o *Options) { o.KnownTypes = sample.Types() })
	d, err := s.Registry().Resolve(reflect.TypeFor[sample.MyClassOfDoubles]())
	if err != nil {
		t.Fatal(err)
	}
	args, ok := d.TypeArgs(reflect.TypeFor[sample.ClassOf[sample.MyItemWithDouble]]())
	if !ok || len(args) != 1 || args[0] != reflect.TypeFor[sample.MyItemWithDouble]() {
		t.Errorf("TypeArgs = %v, %v", args, ok)
	}
	if _, ok := d.TypeArgs(reflect.TypeFor[sample.ClassOf[sample.MyItemWithInt]]()); ok {
		t.Error("doubles must not be recorded as a class of ints")
	}
}

func BenchmarkSerialize(b *testing.B) {
	s := newSampleSerializer(b)
	classes := sample.GenerateSample1()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.Serialize(classes); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	s := newSampleSerializer(b)
	data, err := s.Serialize(sample.GenerateSample1())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := Unmarshal[[]sample.Class](s, data); err != nil {
			b.Fatal(err)
		}
	}
}
