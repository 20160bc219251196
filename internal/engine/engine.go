// Package engine is the thin call boundary to the searchd daemon: it
// speaks the engine's length-prefixed binary protocol and performs
// exactly one blocking round trip per search. No retries, no pooling;
// retry policy belongs to the caller.
package engine

import "fmt"

// Protocol constants (searchd client protocol).
const (
	clientVersion    = 1
	commandSearch    = 0
	verCommandSearch = 0x113

	statusOK      = 0
	statusError   = 1
	statusRetry   = 2
	statusWarning = 3
)

// Match modes. Queries are always issued in extended mode, the
// richest query-syntax dialect.
const (
	MatchExtended = 4
)

// Sort modes. Extended sort is only set when a sort expression exists;
// otherwise the engine's native relevance ranking applies.
const (
	SortRelevance = 0
	SortExtended  = 4
)

// Filter types on the wire.
const (
	filterValues = 0
	filterRange  = 1
)

// Attribute types in responses.
const (
	attrInteger   = 1
	attrTimestamp = 2
	attrOrdinal   = 3
	attrBool      = 4
	attrFloat     = 5
	attrBigint    = 6
	attrString    = 7
	attrMulti     = 0x40000001
)

// ValueRange is an inclusive integer range bound.
type ValueRange struct {
	Min int64
	Max int64
}

// Filter is a wire-level attribute filter.
type Filter struct {
	Attr    string
	Values  []int64
	Range   *ValueRange
	Exclude bool
}

// Request is one search call. An empty Match requests a full scan of
// the listed indexes.
type Request struct {
	Indexes []string
	Match   string
	SortBy  string
	Filters []Filter
	Limit   int
	Offset  int
}

// Match is one raw engine match record.
type Match struct {
	Doc    uint64
	Weight int
	Attrs  map[string]any
}

// Response is a decoded engine reply.
type Response struct {
	Total      int
	TotalFound int
	TimeSec    float64
	Warning    string
	Fields     []string
	Matches    []Match
}

// WordStat is per-keyword statistics returned with a response.
type WordStat struct {
	Word string
	Docs int
	Hits int
}

// Operation names for error context.
const (
	OpConnect   = "connect"
	OpHandshake = "handshake"
	OpSearch    = "search"
)

// Error wraps an underlying error with the protocol operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("searchd %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
