package sphindex

import (
	"context"
	"time"

	"github.com/skran-dev/sphindex/internal/domain/query"
)

// Row is one decoded engine match in the order the engine returned it.
type Row struct {
	ID     uint64
	Weight int
	Attrs  map[string]any
}

// Range is an inclusive value range; endpoints are integers or
// time.Time values (times become epoch seconds on the wire).
type Range struct {
	From any
	To   any
}

// TimeRange builds a Range over two instants.
func TimeRange(from, to time.Time) Range {
	return Range{From: from, To: to}
}

// SearchBuilder is a fluent builder for structured queries.
type SearchBuilder struct {
	client *Client
	model  string

	conditions []query.Condition
	order      []query.Order
	limit      *int
	offset     *int
	err        error
}

func (b *SearchBuilder) condition(op query.Op, attr string, value any) *SearchBuilder {
	if b.err != nil {
		return b
	}
	if r, ok := value.(Range); ok {
		value = query.Range{From: r.From, To: r.To}
	}
	c, err := query.NewCondition(op, attr, value)
	if err != nil {
		b.err = err
		return b
	}
	b.conditions = append(b.conditions, c)
	return b
}

// Where adds an equality condition.
func (b *SearchBuilder) Where(attr string, value any) *SearchBuilder {
	return b.condition(query.OpEqual, attr, value)
}

// Like adds a like condition (engine-side it behaves as equality).
func (b *SearchBuilder) Like(attr string, value any) *SearchBuilder {
	return b.condition(query.OpLike, attr, value)
}

// Not adds an exclusion condition.
func (b *SearchBuilder) Not(attr string, value any) *SearchBuilder {
	return b.condition(query.OpNot, attr, value)
}

// Raw passes a match fragment through verbatim on a full-text field.
func (b *SearchBuilder) Raw(attr string, value string) *SearchBuilder {
	return b.condition(query.OpRaw, attr, value)
}

// Lt adds a less-than condition. On full-text fields in inline mode
// this downgrades to an equality match with a logged warning.
func (b *SearchBuilder) Lt(attr string, value any) *SearchBuilder {
	return b.condition(query.OpLT, attr, value)
}

// Gt adds a greater-than condition (same downgrade caveat as Lt).
func (b *SearchBuilder) Gt(attr string, value any) *SearchBuilder {
	return b.condition(query.OpGT, attr, value)
}

// Lte adds a less-than-or-equal condition (same caveat as Lt).
func (b *SearchBuilder) Lte(attr string, value any) *SearchBuilder {
	return b.condition(query.OpLTE, attr, value)
}

// Gte adds a greater-than-or-equal condition (same caveat as Lt).
func (b *SearchBuilder) Gte(attr string, value any) *SearchBuilder {
	return b.condition(query.OpGTE, attr, value)
}

// Between adds an inclusive range condition on an attribute.
func (b *SearchBuilder) Between(attr string, from, to any) *SearchBuilder {
	return b.condition(query.OpEqual, attr, query.Range{From: from, To: to})
}

// Asc appends an ascending sort entry.
func (b *SearchBuilder) Asc(attr string) *SearchBuilder {
	return b.orderBy(attr, query.Asc)
}

// Desc appends a descending sort entry.
func (b *SearchBuilder) Desc(attr string) *SearchBuilder {
	return b.orderBy(attr, query.Desc)
}

func (b *SearchBuilder) orderBy(attr string, dir query.Dir) *SearchBuilder {
	if b.err != nil {
		return b
	}
	o, err := query.NewOrder(attr, dir)
	if err != nil {
		b.err = err
		return b
	}
	b.order = append(b.order, o)
	return b
}

// Limit caps the number of returned rows.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = &n
	return b
}

// Offset skips the first n rows.
func (b *SearchBuilder) Offset(n int) *SearchBuilder {
	b.offset = &n
	return b
}

// All executes the query and returns every row in engine order.
func (b *SearchBuilder) All(ctx context.Context) ([]Row, error) {
	q, err := b.build()
	if err != nil {
		return nil, err
	}
	rows, err := b.client.read.ReadMany(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]Row, len(rows))
	for i := range rows {
		out[i] = Row{ID: rows[i].ID(), Weight: rows[i].Weight(), Attrs: rows[i].Attrs()}
	}
	return out, nil
}

// First executes the query and returns the first row, or ErrNotFound.
func (b *SearchBuilder) First(ctx context.Context) (Row, error) {
	q, err := b.build()
	if err != nil {
		return Row{}, err
	}
	row, err := b.client.read.ReadOne(ctx, q)
	if err != nil {
		return Row{}, err
	}
	return Row{ID: row.ID(), Weight: row.Weight(), Attrs: row.Attrs()}, nil
}

func (b *SearchBuilder) build() (query.Query, error) {
	if b.err != nil {
		return query.Query{}, b.err
	}
	return query.New(b.model, b.conditions, b.order, b.limit, b.offset)
}
