package namespace

import (
	"strconv"

	"github.com/wippyai/polyxml/registry"
)

const (
	// SystemNamespace holds the reserved attributes (type hints, nil markers).
	SystemNamespace = "https://wippy.ai/polyxml"
	// SystemAlias is the fixed alias of SystemNamespace.
	SystemAlias = "px"

	aliasPrefix = "ns"
)

// Entry is one alias declaration.
type Entry struct {
	Alias     string
	Namespace string
}

// Builder accumulates the identifiers referenced by one document in
// first-seen order. Not safe for concurrent use.
type Builder struct {
	seen     map[registry.TypeID]struct{}
	ids      []registry.TypeID
	optimize bool
	system   bool
}

// NewBuilder creates a builder. With optimize set, identifiers sharing a
// namespace share one alias; otherwise every identifier gets its own.
func NewBuilder(optimize bool) *Builder {
	return &Builder{
		seen:     make(map[registry.TypeID]struct{}),
		optimize: optimize,
	}
}

// Observe records an identifier referenced by the document.
func (b *Builder) Observe(id registry.TypeID) {
	if _, ok := b.seen[id]; ok {
		return
	}
	b.seen[id] = struct{}{}
	b.ids = append(b.ids, id)
}

// UseSystem records that reserved attributes appear in the document.
func (b *Builder) UseSystem() {
	b.system = true
}

// Build assigns aliases. The system alias comes first when used, then ns1,
// ns2, ... in first-seen order.
func (b *Builder) Build() *Table {
	t := &Table{
		byNamespace: make(map[string]string),
		byID:        make(map[registry.TypeID]string),
	}
	if b.system {
		t.entries = append(t.entries, Entry{Alias: SystemAlias, Namespace: SystemNamespace})
	}

	next := 1
	for _, id := range b.ids {
		if b.optimize {
			if alias, ok := t.byNamespace[id.Namespace]; ok {
				t.byID[id] = alias
				continue
			}
		}
		alias := aliasPrefix + strconv.Itoa(next)
		next++
		t.entries = append(t.entries, Entry{Alias: alias, Namespace: id.Namespace})
		if _, ok := t.byNamespace[id.Namespace]; !ok {
			t.byNamespace[id.Namespace] = alias
		}
		t.byID[id] = alias
	}
	return t
}

// Table is the alias set declared on a document root.
type Table struct {
	byNamespace map[string]string
	byID        map[registry.TypeID]string
	entries     []Entry
}

// Entries returns the declarations in document order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Len returns the number of declarations.
func (t *Table) Len() int {
	return len(t.entries)
}

// Alias returns the alias assigned to id.
func (t *Table) Alias(id registry.TypeID) (string, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Qualify renders id as alias:Name.
func (t *Table) Qualify(id registry.TypeID) (string, bool) {
	a, ok := t.byID[id]
	if !ok {
		return "", false
	}
	return a + ":" + id.Name, true
}
