package namespace

import (
	"sort"
	"strings"

	"github.com/wippyai/polyxml/errors"
	"github.com/wippyai/polyxml/registry"
)

// Scope maps the prefixes declared on an element and its ancestors.
type Scope struct {
	parent   *Scope
	prefixes map[string]string
}

// NewScope creates a child scope. parent may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

// Declare binds prefix to namespace in this scope.
func (s *Scope) Declare(prefix, namespace string) {
	if s.prefixes == nil {
		s.prefixes = make(map[string]string)
	}
	s.prefixes[prefix] = namespace
}

// Namespace returns the namespace bound to prefix.
func (s *Scope) Namespace(prefix string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if ns, ok := sc.prefixes[prefix]; ok {
			return ns, true
		}
	}
	return "", false
}

// Empty reports whether this scope declares nothing itself.
func (s *Scope) Empty() bool {
	return len(s.prefixes) == 0
}

// Declared returns the bindings made in this scope itself, by alias.
func (s *Scope) Declared() []Entry {
	out := make([]Entry, 0, len(s.prefixes))
	for p, ns := range s.prefixes {
		out = append(out, Entry{Alias: p, Namespace: ns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}

// Resolve turns a qualified name (alias:Name) into a TypeID.
func (s *Scope) Resolve(qname string) (registry.TypeID, error) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok || prefix == "" || local == "" {
		return registry.TypeID{}, errors.New(errors.PhaseDecode, errors.KindParse).
			Detail("type hint %q is not a qualified name", qname).
			Build()
	}
	ns, found := s.Namespace(prefix)
	if !found {
		return registry.TypeID{}, errors.New(errors.PhaseDecode, errors.KindParse).
			Detail("type hint %q uses undeclared prefix %q", qname, prefix).
			Build()
	}
	return registry.TypeID{Namespace: ns, Name: local}, nil
}
