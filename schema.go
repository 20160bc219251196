package sphindex

import (
	"github.com/skran-dev/sphindex/internal/domain/schema"
)

// Attribute declares one model field for the engine.
type Attribute struct {
	// Name is the query-facing name; Field the engine-facing column
	// (defaults to Name when empty).
	Name  string
	Field string
	// FullText marks the field as matchable text rather than a
	// filterable/sortable attribute.
	FullText bool
}

// FullText declares a matchable text field.
func FullText(name string) Attribute {
	return Attribute{Name: name, FullText: true}
}

// Attr declares a filterable/sortable attribute.
func Attr(name string) Attribute {
	return Attribute{Name: name}
}

// Index declares one engine index a model queries. Delta marks an
// incrementally-rebuilt index mirroring recent changes to a main one.
type Index struct {
	Name  string
	Delta bool
}

// Model maps a query model onto its attributes and engine indexes.
// With no Indexes declared, queries target a single index named after
// StorageName (or Name when StorageName is empty).
type Model struct {
	Name        string
	StorageName string
	Attributes  []Attribute
	Indexes     []Index
}

func toRegistry(models []Model) (*schema.Registry, error) {
	out := make([]schema.Model, 0, len(models))
	for _, m := range models {
		attrs := make([]schema.Attribute, 0, len(m.Attributes))
		for _, a := range m.Attributes {
			kind := schema.KindAttr
			if a.FullText {
				kind = schema.KindFullText
			}
			attr, err := schema.NewAttribute(a.Name, a.Field, kind)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, attr)
		}
		indexes := make([]schema.Index, 0, len(m.Indexes))
		for _, i := range m.Indexes {
			idx, err := schema.NewIndex(i.Name, i.Delta)
			if err != nil {
				return nil, err
			}
			indexes = append(indexes, idx)
		}
		model, err := schema.NewModel(m.Name, m.StorageName, attrs, indexes)
		if err != nil {
			return nil, err
		}
		out = append(out, model)
	}
	return schema.NewRegistry(out...)
}
