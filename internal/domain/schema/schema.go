// Package schema holds the model descriptors the translator consults:
// which fields are full-text matchable, which are filterable/sortable
// attributes, and which searchd indexes a model's documents live in.
package schema

import (
	"fmt"
	"regexp"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Kind is the declared role of a model field in the search index.
type Kind string

const (
	// KindFullText marks a field that participates in full-text matching.
	KindFullText Kind = "fulltext"
	// KindAttr marks a filterable/sortable attribute.
	KindAttr Kind = "attr"
)

// IsValid checks if the kind is one the translator understands.
// Unknown kinds are tolerated at query time, not at declaration time.
func (k Kind) IsValid() bool {
	return k == KindFullText || k == KindAttr
}

// Attribute is an immutable value object describing one model field.
type Attribute struct {
	name  string
	field string
	kind  Kind
}

// NewAttribute validates and creates an Attribute.
// Name is the query-facing name, field the engine-facing column.
func NewAttribute(name, field string, kind Kind) (Attribute, error) {
	if name == "" {
		return Attribute{}, fmt.Errorf("attribute name is required")
	}
	if field == "" {
		field = name
	}
	if !kind.IsValid() {
		return Attribute{}, fmt.Errorf("invalid kind %q for attribute %q", kind, name)
	}
	return Attribute{name: name, field: field, kind: kind}, nil
}

// ReconstructAttribute creates an Attribute without validation.
// Unknown kinds are allowed here so mixed schemas load without error.
func ReconstructAttribute(name, field string, kind Kind) Attribute {
	if field == "" {
		field = name
	}
	return Attribute{name: name, field: field, kind: kind}
}

// Name returns the query-facing attribute name.
func (a Attribute) Name() string { return a.name }

// Field returns the engine-facing column name.
func (a Attribute) Field() string { return a.field }

// Kind returns the declared role.
func (a Attribute) Kind() Kind { return a.kind }

// Index describes one named searchd index a model queries.
type Index struct {
	name  string
	delta bool
}

// NewIndex validates and creates an Index descriptor.
func NewIndex(name string, delta bool) (Index, error) {
	if name == "" {
		return Index{}, fmt.Errorf("index name is required")
	}
	if !nameRegex.MatchString(name) {
		return Index{}, fmt.Errorf("index name %q must be alphanumeric with underscores and hyphens", name)
	}
	return Index{name: name, delta: delta}, nil
}

// Name returns the index name as known to the engine.
func (i Index) Name() string { return i.name }

// Delta reports whether this is an incrementally-rebuilt delta index.
func (i Index) Delta() bool { return i.delta }

// Model maps a query model onto its attributes and indexes.
type Model struct {
	name        string
	storageName string
	attrs       []Attribute
	indexes     []Index
}

// NewModel validates and creates a Model.
// StorageName is the fallback index name when no indexes are declared.
func NewModel(name, storageName string, attrs []Attribute, indexes []Index) (Model, error) {
	if name == "" {
		return Model{}, fmt.Errorf("model name is required")
	}
	if storageName == "" {
		storageName = name
	}
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if seen[a.Name()] {
			return Model{}, fmt.Errorf("duplicate attribute %q on model %q", a.Name(), name)
		}
		seen[a.Name()] = true
	}
	return Model{name: name, storageName: storageName, attrs: attrs, indexes: indexes}, nil
}

// Name returns the model name.
func (m Model) Name() string { return m.name }

// StorageName returns the storage identifier used for the default index.
func (m Model) StorageName() string { return m.storageName }

// Attributes returns the declared attributes in declaration order.
func (m Model) Attributes() []Attribute { return m.attrs }

// Attribute looks up an attribute by its query-facing name.
func (m Model) Attribute(name string) (Attribute, bool) {
	for _, a := range m.attrs {
		if a.name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// ResolveIndexes returns the declared indexes, or a single default
// index named after the model's storage name when none are declared.
// Absence of declarations is a normal case, not an error.
func (m Model) ResolveIndexes() []Index {
	if len(m.indexes) > 0 {
		out := make([]Index, len(m.indexes))
		copy(out, m.indexes)
		return out
	}
	return []Index{{name: m.storageName}}
}

// ResolveDeltaIndexes filters ResolveIndexes to delta-flagged entries.
func (m Model) ResolveDeltaIndexes() []Index {
	var out []Index
	for _, idx := range m.ResolveIndexes() {
		if idx.delta {
			out = append(out, idx)
		}
	}
	return out
}

// IndexNames joins the resolved index names for the engine's "from" list.
func (m Model) IndexNames() []string {
	resolved := m.ResolveIndexes()
	names := make([]string, len(resolved))
	for i, idx := range resolved {
		names[i] = idx.name
	}
	return names
}

// Registry resolves model names to models. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	models map[string]Model
}

// NewRegistry creates a registry from the given models.
func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if _, dup := r.models[m.Name()]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.Name())
		}
		r.models[m.Name()] = m
	}
	return r, nil
}

// Get looks up a model by name.
func (r *Registry) Get(name string) (Model, bool) {
	m, ok := r.models[name]
	return m, ok
}
