// Package translate turns a structured query into the engine-native
// pieces of a search call: a match expression, attribute filters, a
// sort expression and pagination. Two strategies exist for match
// generation; filter and sort construction are shared.
package translate

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/skran-dev/sphindex/internal/domain"
	"github.com/skran-dev/sphindex/internal/domain/query"
	"github.com/skran-dev/sphindex/internal/domain/schema"
)

// Mode selects the match-generation strategy.
type Mode string

const (
	// ModeFilters keeps the match expression empty; filtering is
	// expressed entirely through attribute filters.
	ModeFilters Mode = "filters"
	// ModeInline renders full-text conditions into the match expression.
	ModeInline Mode = "inline"
)

// ValueRange is an inclusive integer range filter bound.
type ValueRange struct {
	Min int64
	Max int64
}

// Filter is one attribute inclusion/exclusion constraint. Either
// Values or Range is set, never both.
type Filter struct {
	Attr    string
	Values  []any
	Range   *ValueRange
	Exclude bool
}

// Translation is the engine-ready form of a structured query.
// An empty Match requests a full index scan; an empty SortBy leaves
// the engine's native ranking order in effect.
type Translation struct {
	Match    string
	Filters  []Filter
	SortBy   string
	Limit    *int
	Offset   *int
	Warnings []string
}

// Translator converts a structured query for one model.
type Translator interface {
	Translate(m schema.Model, q query.Query) (Translation, error)
}

// ForMode returns the translator strategy for a configured mode.
func ForMode(mode Mode) (Translator, error) {
	switch mode {
	case ModeFilters, "":
		return FilterMode{}, nil
	case ModeInline:
		return InlineMode{}, nil
	}
	return nil, fmt.Errorf("unknown translator mode %q", mode)
}

// buildFilters maps attribute conditions onto filters. Conditions on
// unknown attributes or full-text fields are skipped here; an unmapped
// operator on a recognized attribute is a hard error.
func buildFilters(m schema.Model, q query.Query) ([]Filter, error) {
	var filters []Filter
	for _, c := range q.Conditions() {
		attr, ok := m.Attribute(c.Attr())
		if !ok || attr.Kind() != schema.KindAttr {
			continue
		}

		var exclude bool
		switch c.Op() {
		case query.OpEqual, query.OpLike:
			exclude = false
		case query.OpNot:
			exclude = true
		default:
			return nil, &domain.UnsupportedOperatorError{Op: string(c.Op())}
		}

		f, err := normalizeValue(c.Value())
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", attr.Name(), err)
		}
		f.Attr = attr.Field()
		f.Exclude = exclude
		filters = append(filters, f)
	}
	return filters, nil
}

// buildSortBy renders order entries on recognized attributes as
// "<field> <direction>" terms joined by ", ". Entries on anything
// else are dropped; no surviving entries means no sort expression.
func buildSortBy(m schema.Model, q query.Query) string {
	var terms []string
	for _, o := range q.Order() {
		attr, ok := m.Attribute(o.Attr())
		if !ok || attr.Kind() != schema.KindAttr {
			continue
		}
		terms = append(terms, attr.Field()+" "+string(o.Dir()))
	}
	return strings.Join(terms, ", ")
}

// normalizeValue shapes a condition value for the engine's filter
// protocol: ranges become integer bounds, lists keep their elements
// with times flattened to epoch seconds, and bare scalars are wrapped
// as one-element value lists.
func normalizeValue(v any) (Filter, error) {
	if r, ok := v.(query.Range); ok {
		minBound, err := rangeBound(r.From)
		if err != nil {
			return Filter{}, fmt.Errorf("range lower bound: %w", err)
		}
		maxBound, err := rangeBound(r.To)
		if err != nil {
			return Filter{}, fmt.Errorf("range upper bound: %w", err)
		}
		return Filter{Range: &ValueRange{Min: minBound, Max: maxBound}}, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		values := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			values[i] = flattenTime(rv.Index(i).Interface())
		}
		return Filter{Values: values}, nil
	}

	return Filter{Values: []any{flattenTime(v)}}, nil
}

// flattenTime converts time values to epoch seconds and leaves
// everything else untouched.
func flattenTime(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Unix()
	}
	return v
}

func rangeBound(v any) (int64, error) {
	switch b := v.(type) {
	case time.Time:
		return b.Unix(), nil
	case int:
		return int64(b), nil
	case int32:
		return int64(b), nil
	case int64:
		return b, nil
	case uint:
		return int64(b), nil
	case uint32:
		return int64(b), nil
	case uint64:
		return int64(b), nil
	case nil:
		return 0, fmt.Errorf("range bound is required")
	}
	return 0, fmt.Errorf("range bound %v is not a time or integer", v)
}
