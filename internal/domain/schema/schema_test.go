package schema

import (
	"strings"
	"testing"
)

func mustAttr(t *testing.T, name, field string, kind Kind) Attribute {
	t.Helper()
	a, err := NewAttribute(name, field, kind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestNewAttribute(t *testing.T) {
	a := mustAttr(t, "status", "status_id", KindAttr)
	if a.Name() != "status" || a.Field() != "status_id" || a.Kind() != KindAttr {
		t.Errorf("attribute = %q/%q/%q", a.Name(), a.Field(), a.Kind())
	}
}

func TestNewAttribute_FieldDefaultsToName(t *testing.T) {
	a := mustAttr(t, "title", "", KindFullText)
	if a.Field() != "title" {
		t.Errorf("field = %q, want %q", a.Field(), "title")
	}
}

func TestNewAttribute_Invalid(t *testing.T) {
	if _, err := NewAttribute("", "f", KindAttr); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := NewAttribute("x", "", Kind("magic")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestReconstructAttribute_ToleratesUnknownKind(t *testing.T) {
	a := ReconstructAttribute("legacy", "", Kind("geo"))
	if a.Kind() != Kind("geo") {
		t.Errorf("kind = %q, want preserved", a.Kind())
	}
	if a.Field() != "legacy" {
		t.Errorf("field = %q, want name fallback", a.Field())
	}
}

func TestNewIndex_NameValidation(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"books_main", false},
		{"books-delta2", false},
		{"", true},
		{"books main", true},
		{"books;drop", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIndex(tt.name, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewIndex(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestNewModel_DuplicateAttribute(t *testing.T) {
	a := mustAttr(t, "status", "", KindAttr)
	b := mustAttr(t, "status", "other", KindAttr)

	_, err := NewModel("book", "", []Attribute{a, b}, nil)
	if err == nil {
		t.Fatal("expected error for duplicate attribute")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %q", err)
	}
}

func TestModel_AttributeLookup(t *testing.T) {
	m, err := NewModel("book", "", []Attribute{mustAttr(t, "status", "status_id", KindAttr)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, ok := m.Attribute("status")
	if !ok || a.Field() != "status_id" {
		t.Errorf("lookup = %v/%q", ok, a.Field())
	}
	if _, ok := m.Attribute("nope"); ok {
		t.Error("lookup of unknown attribute succeeded")
	}
}

func TestModel_ResolveIndexes(t *testing.T) {
	main, err := NewIndex("books_main", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delta, err := NewIndex("books_delta", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("declared indexes in order", func(t *testing.T) {
		m, err := NewModel("book", "books", nil, []Index{main, delta})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names := m.IndexNames()
		if len(names) != 2 || names[0] != "books_main" || names[1] != "books_delta" {
			t.Errorf("names = %v", names)
		}
	})

	t.Run("default index from storage name", func(t *testing.T) {
		m, err := NewModel("book", "books", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names := m.IndexNames()
		if len(names) != 1 || names[0] != "books" {
			t.Errorf("names = %v, want [books]", names)
		}
	})

	t.Run("storage name defaults to model name", func(t *testing.T) {
		m, err := NewModel("book", "", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if names := m.IndexNames(); len(names) != 1 || names[0] != "book" {
			t.Errorf("names = %v, want [book]", names)
		}
	})

	t.Run("delta filter", func(t *testing.T) {
		m, err := NewModel("book", "books", nil, []Index{main, delta})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := m.ResolveDeltaIndexes()
		if len(got) != 1 || got[0].Name() != "books_delta" {
			t.Errorf("delta indexes = %v", got)
		}
	})
}

func TestRegistry(t *testing.T) {
	book, err := NewModel("book", "", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	author, err := NewModel("author", "", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := NewRegistry(book, author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m, ok := r.Get("book"); !ok || m.Name() != "book" {
		t.Errorf("Get(book) = %v/%q", ok, m.Name())
	}
	if _, ok := r.Get("ghost"); ok {
		t.Error("Get of unregistered model succeeded")
	}

	if _, err := NewRegistry(book, book); err == nil {
		t.Error("expected error for duplicate model")
	}
}
