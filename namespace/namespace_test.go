package namespace

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/registry"
)

var (
	sampleInts    = registry.TypeID{Namespace: "go:example.com/sample", Name: "MyClassOfInts"}
	sampleDoubles = registry.TypeID{Namespace: "go:example.com/sample", Name: "MyClassOfDoubles"}
	otherItem     = registry.TypeID{Namespace: "go:example.com/other", Name: "Item"}
	builtinInt    = registry.TypeID{Namespace: registry.BuiltinNamespace, Name: "int"}
)

func TestBuilder_Optimized(t *testing.T) {
	b := NewBuilder(true)
	b.UseSystem()
	b.Observe(sampleInts)
	b.Observe(otherItem)
	b.Observe(sampleDoubles)
	b.Observe(sampleInts)

	table := b.Build()

	want := []Entry{
		{Alias: SystemAlias, Namespace: SystemNamespace},
		{Alias: "ns1", Namespace: "go:example.com/sample"},
		{Alias: "ns2", Namespace: "go:example.com/other"},
	}
	got := table.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	if q, _ := table.Qualify(sampleDoubles); q != "ns1:MyClassOfDoubles" {
		t.Errorf("Qualify = %q", q)
	}
	if q, _ := table.Qualify(otherItem); q != "ns2:Item" {
		t.Errorf("Qualify = %q", q)
	}
	if _, ok := table.Qualify(builtinInt); ok {
		t.Error("unobserved identifiers must not be qualified")
	}
}

func TestBuilder_Unoptimized(t *testing.T) {
	b := NewBuilder(false)
	b.Observe(sampleInts)
	b.Observe(sampleDoubles)

	table := b.Build()
	if table.Len() != 2 {
		t.Fatalf("unoptimized table should hold one alias per type, got %d", table.Len())
	}
	a1, _ := table.Alias(sampleInts)
	a2, _ := table.Alias(sampleDoubles)
	if a1 == a2 {
		t.Error("each type should get its own alias")
	}
	for _, e := range table.Entries() {
		if e.Alias == SystemAlias {
			t.Error("system alias declared without use")
		}
	}
}

func TestBuilder_AliasUniqueness(t *testing.T) {
	for _, optimize := range []bool{true, false} {
		b := NewBuilder(optimize)
		b.UseSystem()
		for _, id := range []registry.TypeID{sampleInts, builtinInt, otherItem, sampleDoubles} {
			b.Observe(id)
		}
		table := b.Build()

		aliases := make(map[string]bool)
		for _, e := range table.Entries() {
			if aliases[e.Alias] {
				t.Errorf("optimize=%v: alias %q declared twice", optimize, e.Alias)
			}
			aliases[e.Alias] = true
		}

		qualified := make(map[string]registry.TypeID)
		for _, id := range []registry.TypeID{sampleInts, builtinInt, otherItem, sampleDoubles} {
			q, ok := table.Qualify(id)
			if !ok {
				t.Fatalf("optimize=%v: %v has no alias", optimize, id)
			}
			if prev, dup := qualified[q]; dup {
				t.Errorf("optimize=%v: %v and %v both qualify as %q", optimize, prev, id, q)
			}
			qualified[q] = id
		}
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	build := func() []Entry {
		b := NewBuilder(true)
		b.Observe(otherItem)
		b.Observe(sampleInts)
		b.Observe(builtinInt)
		return b.Build().Entries()
	}
	first := build()
	for i := 0; i < 10; i++ {
		next := build()
		for j := range first {
			if first[j] != next[j] {
				t.Fatalf("run %d: entry %d = %v, want %v", i, j, next[j], first[j])
			}
		}
	}
	if first[0].Namespace != "go:example.com/other" {
		t.Error("aliases should follow first-seen order, not lexicographic order")
	}
}

func TestScope_Resolve(t *testing.T) {
	root := NewScope(nil)
	root.Declare("ns1", "go:example.com/sample")
	child := NewScope(root)
	child.Declare("ns2", "go:example.com/other")

	id, err := child.Resolve("ns1:MyClassOfInts")
	if err != nil {
		t.Fatal(err)
	}
	if id != sampleInts {
		t.Errorf("id = %v", id)
	}

	id, err = child.Resolve("ns2:Item")
	if err != nil || id != otherItem {
		t.Errorf("id = %v, err = %v", id, err)
	}

	if _, err := root.Resolve("ns2:Item"); !stderrors.Is(err, errors.ErrParse) {
		t.Errorf("prefix declared on a child must not leak to the parent: %v", err)
	}

	for _, bad := range []string{"MyClassOfInts", ":Item", "ns1:", ""} {
		if _, err := root.Resolve(bad); !stderrors.Is(err, errors.ErrParse) {
			t.Errorf("Resolve(%q) should fail with a parse error, got %v", bad, err)
		}
	}
}

func TestScope_Shadowing(t *testing.T) {
	root := NewScope(nil)
	root.Declare("ns1", "urn:a")
	child := NewScope(root)
	child.Declare("ns1", "urn:b")

	if ns, _ := child.Namespace("ns1"); ns != "urn:b" {
		t.Errorf("child should shadow parent, got %q", ns)
	}
	if ns, _ := root.Namespace("ns1"); ns != "urn:a" {
		t.Errorf("root binding changed: %q", ns)
	}
	if d := child.Declared(); len(d) != 1 || d[0] != (Entry{Alias: "ns1", Namespace: "urn:b"}) {
		t.Errorf("Declared = %v", d)
	}
	if !NewScope(root).Empty() {
		t.Error("new scope should be empty")
	}
}
