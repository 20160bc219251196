package engine

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// defaultLimit mirrors the daemon's own default page size, sent when
// the caller leaves the limit unset.
const defaultLimit = 20

// maxMatches is the server-side result window requested per query.
const maxMatches = 1000

// writer accumulates a big-endian request body.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// encodeSearch builds the SEARCH command body for a single query.
func encodeSearch(req *Request) ([]byte, error) {
	if len(req.Indexes) == 0 {
		return nil, fmt.Errorf("at least one index is required")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	sortMode := SortRelevance
	if req.SortBy != "" {
		sortMode = SortExtended
	}

	var w writer
	w.u32(uint32(req.Offset))
	w.u32(uint32(limit))
	w.u32(MatchExtended)
	w.u32(uint32(sortMode))
	w.str(req.SortBy)
	w.str(req.Match)
	w.u32(0) // per-field weights, unused
	w.str(joinIndexes(req.Indexes))
	w.u32(1) // id64 range marker
	w.u64(0) // min doc id
	w.u64(0) // max doc id, 0 = unbounded

	w.u32(uint32(len(req.Filters)))
	for i := range req.Filters {
		f := &req.Filters[i]
		if f.Attr == "" {
			return nil, fmt.Errorf("filter %d: attribute name is required", i)
		}
		w.str(f.Attr)
		switch {
		case f.Range != nil:
			w.u32(filterRange)
			w.u64(uint64(f.Range.Min))
			w.u64(uint64(f.Range.Max))
		default:
			w.u32(filterValues)
			w.u32(uint32(len(f.Values)))
			for _, v := range f.Values {
				w.u64(uint64(v))
			}
		}
		if f.Exclude {
			w.u32(1)
		} else {
			w.u32(0)
		}
	}

	w.u32(0)  // group-by function
	w.str("") // group-by attr
	w.u32(maxMatches)
	w.str("@group desc") // group sort, engine default
	w.u32(0)             // cutoff
	w.u32(0)             // retry count
	w.u32(0)             // retry delay
	w.str("")            // group distinct
	w.u32(0)             // no geo anchor
	w.u32(0)             // per-index weights
	w.u32(0)             // max query time, unlimited
	w.u32(0)             // per-field weights
	w.str("")            // comment

	return w.buf.Bytes(), nil
}

// frame prepends the command header to a request body.
func frame(command, version uint16, body []byte) []byte {
	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint16(out[0:], command)
	binary.BigEndian.PutUint16(out[2:], version)
	binary.BigEndian.PutUint32(out[4:], uint32(len(body)))
	return append(out, body...)
}

// reader walks a big-endian response body with sticky errors.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("truncated response reading %s at offset %d", what, r.pos)
	}
}

func (r *reader) u32(what string) uint32 {
	if r.err != nil {
		return 0
	}
	if r.pos+4 > len(r.data) {
		r.fail(what)
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) u64(what string) uint64 {
	if r.err != nil {
		return 0
	}
	if r.pos+8 > len(r.data) {
		r.fail(what)
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

func (r *reader) str(what string) string {
	n := int(r.u32(what))
	if r.err != nil {
		return ""
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.fail(what)
		return ""
	}
	s := string(r.data[r.pos : r.pos+n])
	r.pos += n
	return s
}

// decodeSearch parses a SEARCH response body into a Response.
// The matches keep the engine's returned order.
func decodeSearch(body []byte) (*Response, error) {
	r := &reader{data: body}
	resp := &Response{}

	numFields := r.u32("field count")
	for i := uint32(0); i < numFields; i++ {
		resp.Fields = append(resp.Fields, r.str("field name"))
	}

	numAttrs := int(r.u32("attr count"))
	attrNames := make([]string, 0, numAttrs)
	attrTypes := make([]uint32, 0, numAttrs)
	for i := 0; i < numAttrs; i++ {
		attrNames = append(attrNames, r.str("attr name"))
		attrTypes = append(attrTypes, r.u32("attr type"))
	}

	matchCount := int(r.u32("match count"))
	id64 := r.u32("id64 flag")

	for i := 0; i < matchCount; i++ {
		var doc uint64
		if id64 != 0 {
			doc = r.u64("doc id")
		} else {
			doc = uint64(r.u32("doc id"))
		}
		weight := int(r.u32("weight"))

		attrs := make(map[string]any, numAttrs)
		for i := 0; i < numAttrs; i++ {
			attrs[attrNames[i]] = r.attrValue(attrTypes[i])
		}
		if r.err != nil {
			return nil, r.err
		}
		resp.Matches = append(resp.Matches, Match{Doc: doc, Weight: weight, Attrs: attrs})
	}

	resp.Total = int(r.u32("total"))
	resp.TotalFound = int(r.u32("total found"))
	resp.TimeSec = float64(r.u32("elapsed msec")) / 1000.0

	numWords := int(r.u32("word count"))
	for i := 0; i < numWords; i++ {
		r.str("word")
		r.u32("word docs")
		r.u32("word hits")
	}

	if r.err != nil {
		return nil, r.err
	}
	return resp, nil
}

func (r *reader) attrValue(typ uint32) any {
	switch typ {
	case attrFloat:
		return math.Float32frombits(r.u32("float attr"))
	case attrBigint:
		return int64(r.u64("bigint attr"))
	case attrString:
		return r.str("string attr")
	case attrMulti:
		n := int(r.u32("mva length"))
		vals := make([]int64, 0, n)
		for i := 0; i < n; i++ {
			vals = append(vals, int64(r.u32("mva value")))
		}
		return vals
	case attrBool:
		return r.u32("bool attr") != 0
	case attrInteger, attrTimestamp, attrOrdinal:
		return int64(r.u32("int attr"))
	default:
		return int64(r.u32("attr"))
	}
}

func joinIndexes(indexes []string) string {
	out := indexes[0]
	for _, name := range indexes[1:] {
		out += "," + name
	}
	return out
}
