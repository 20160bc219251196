// Package result defines the normalized row shape handed back for
// every engine match.
package result

// Row is a single decoded match. The engine's returned order is
// authoritative; rows are never re-sorted.
type Row struct {
	id     uint64
	weight int
	attrs  map[string]any
}

// New creates a row.
func New(id uint64, weight int, attrs map[string]any) Row {
	return Row{id: id, weight: weight, attrs: attrs}
}

// ID returns the engine document identifier.
func (r *Row) ID() uint64 { return r.id }

// Weight returns the engine relevance weight.
func (r *Row) Weight() int { return r.weight }

// Attrs returns attribute values echoed by the engine, if any.
func (r *Row) Attrs() map[string]any { return r.attrs }

// Set is one query's decoded result set plus engine bookkeeping.
type Set struct {
	Rows       []Row
	Total      int
	TotalFound int
	TimeSec    float64
	Warning    string
}
