// Package query defines the structured query the adapter translates:
// operator conditions, sort entries and pagination against one model.
package query

import (
	"fmt"
	"time"
)

// Op is a condition operator.
type Op string

// Condition operators.
const (
	OpEqual Op = "eql"
	OpLike  Op = "like"
	OpNot   Op = "not"
	OpLT    Op = "lt"
	OpGT    Op = "gt"
	OpLTE   Op = "lte"
	OpGTE   Op = "gte"
	// OpRaw passes the condition value into the match expression verbatim.
	OpRaw Op = "raw"
)

// IsValid checks if the operator is known.
func (o Op) IsValid() bool {
	switch o {
	case OpEqual, OpLike, OpNot, OpLT, OpGT, OpLTE, OpGTE, OpRaw:
		return true
	}
	return false
}

// Dir is a sort direction.
type Dir string

// Sort directions.
const (
	Asc  Dir = "asc"
	Desc Dir = "desc"
)

// Condition is one operator predicate against a model attribute.
type Condition struct {
	op    Op
	attr  string
	value any
}

// NewCondition validates and creates a Condition.
func NewCondition(op Op, attr string, value any) (Condition, error) {
	if !op.IsValid() {
		return Condition{}, fmt.Errorf("unknown operator %q", op)
	}
	if attr == "" {
		return Condition{}, fmt.Errorf("condition attribute is required")
	}
	return Condition{op: op, attr: attr, value: value}, nil
}

// Op returns the operator.
func (c Condition) Op() Op { return c.op }

// Attr returns the attribute name the condition targets.
func (c Condition) Attr() string { return c.attr }

// Value returns the raw condition value.
func (c Condition) Value() any { return c.value }

// Order is one sort entry.
type Order struct {
	attr string
	dir  Dir
}

// NewOrder validates and creates an Order entry.
func NewOrder(attr string, dir Dir) (Order, error) {
	if attr == "" {
		return Order{}, fmt.Errorf("order attribute is required")
	}
	if dir != Asc && dir != Desc {
		return Order{}, fmt.Errorf("invalid sort direction %q", dir)
	}
	return Order{attr: attr, dir: dir}, nil
}

// Attr returns the attribute name.
func (o Order) Attr() string { return o.attr }

// Dir returns the sort direction.
func (o Order) Dir() Dir { return o.dir }

// Range is an inclusive value range. Endpoints are either integers or
// time.Time values; times are normalized to epoch seconds at
// translation time.
type Range struct {
	From any
	To   any
}

// TimeRange builds a Range over two instants.
func TimeRange(from, to time.Time) Range {
	return Range{From: from, To: to}
}

// Query is a structured read against one model.
type Query struct {
	model      string
	conditions []Condition
	order      []Order
	limit      *int
	offset     *int
}

// New validates and creates a Query.
// Limit and offset are optional; nil means the engine default applies.
func New(model string, conditions []Condition, order []Order, limit, offset *int) (Query, error) {
	if model == "" {
		return Query{}, fmt.Errorf("query model is required")
	}
	if limit != nil && *limit < 0 {
		return Query{}, fmt.Errorf("limit must be non-negative")
	}
	if offset != nil && *offset < 0 {
		return Query{}, fmt.Errorf("offset must be non-negative")
	}
	return Query{model: model, conditions: conditions, order: order, limit: limit, offset: offset}, nil
}

// Model returns the target model name.
func (q Query) Model() string { return q.model }

// Conditions returns the conditions in declaration order.
func (q Query) Conditions() []Condition { return q.conditions }

// Order returns the sort entries in declaration order.
func (q Query) Order() []Order { return q.order }

// Limit returns the optional result limit.
func (q Query) Limit() *int { return q.limit }

// Offset returns the optional result offset.
func (q Query) Offset() *int { return q.offset }
