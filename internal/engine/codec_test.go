package engine

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

// bodyReader steps through an encoded request body for assertions.
type bodyReader struct {
	t    *testing.T
	data []byte
	pos  int
}

func (b *bodyReader) u32() uint32 {
	b.t.Helper()
	if b.pos+4 > len(b.data) {
		b.t.Fatalf("body underrun at offset %d", b.pos)
	}
	v := binary.BigEndian.Uint32(b.data[b.pos:])
	b.pos += 4
	return v
}

func (b *bodyReader) u64() uint64 {
	b.t.Helper()
	if b.pos+8 > len(b.data) {
		b.t.Fatalf("body underrun at offset %d", b.pos)
	}
	v := binary.BigEndian.Uint64(b.data[b.pos:])
	b.pos += 8
	return v
}

func (b *bodyReader) str() string {
	b.t.Helper()
	n := int(b.u32())
	if b.pos+n > len(b.data) {
		b.t.Fatalf("body underrun at offset %d", b.pos)
	}
	s := string(b.data[b.pos : b.pos+n])
	b.pos += n
	return s
}

func TestEncodeSearch_Header(t *testing.T) {
	body, err := encodeSearch(&Request{
		Indexes: []string{"books_main", "books_delta"},
		Match:   "@title dune",
		SortBy:  "price desc",
		Limit:   50,
		Offset:  10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := &bodyReader{t: t, data: body}
	if got := r.u32(); got != 10 {
		t.Errorf("offset = %d, want 10", got)
	}
	if got := r.u32(); got != 50 {
		t.Errorf("limit = %d, want 50", got)
	}
	if got := r.u32(); got != MatchExtended {
		t.Errorf("match mode = %d, want %d", got, MatchExtended)
	}
	if got := r.u32(); got != SortExtended {
		t.Errorf("sort mode = %d, want %d", got, SortExtended)
	}
	if got := r.str(); got != "price desc" {
		t.Errorf("sort by = %q", got)
	}
	if got := r.str(); got != "@title dune" {
		t.Errorf("match = %q", got)
	}
	r.u32() // per-field weights
	if got := r.str(); got != "books_main,books_delta" {
		t.Errorf("index list = %q", got)
	}
	if got := r.u32(); got != 1 {
		t.Errorf("id64 marker = %d, want 1", got)
	}
	if lo, hi := r.u64(), r.u64(); lo != 0 || hi != 0 {
		t.Errorf("doc id range = [%d, %d], want unbounded", lo, hi)
	}
}

func TestEncodeSearch_SortModeRelevanceWithoutSortBy(t *testing.T) {
	body, err := encodeSearch(&Request{Indexes: []string{"books"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := &bodyReader{t: t, data: body}
	r.u32() // offset
	if got := r.u32(); got != defaultLimit {
		t.Errorf("limit = %d, want default %d", got, defaultLimit)
	}
	r.u32() // match mode
	if got := r.u32(); got != SortRelevance {
		t.Errorf("sort mode = %d, want %d when no sort expression", got, SortRelevance)
	}
}

func TestEncodeSearch_Filters(t *testing.T) {
	body, err := encodeSearch(&Request{
		Indexes: []string{"books"},
		Filters: []Filter{
			{Attr: "status_id", Values: []int64{1, 3}},
			{Attr: "author_id", Values: []int64{7}, Exclude: true},
			{Attr: "published_at", Range: &ValueRange{Min: 100, Max: 200}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := &bodyReader{t: t, data: body}
	r.u32() // offset
	r.u32() // limit
	r.u32() // match mode
	r.u32() // sort mode
	r.str() // sort by
	r.str() // match
	r.u32() // weights
	r.str() // indexes
	r.u32() // id64 marker
	r.u64() // min id
	r.u64() // max id

	if got := r.u32(); got != 3 {
		t.Fatalf("filter count = %d, want 3", got)
	}

	if got := r.str(); got != "status_id" {
		t.Errorf("filter 0 attr = %q", got)
	}
	if got := r.u32(); got != filterValues {
		t.Errorf("filter 0 type = %d, want values", got)
	}
	if got := r.u32(); got != 2 {
		t.Fatalf("filter 0 value count = %d", got)
	}
	if a, b := r.u64(), r.u64(); a != 1 || b != 3 {
		t.Errorf("filter 0 values = [%d, %d]", a, b)
	}
	if got := r.u32(); got != 0 {
		t.Errorf("filter 0 exclude = %d, want 0", got)
	}

	r.str() // filter 1 attr
	r.u32() // type
	r.u32() // count
	r.u64() // value
	if got := r.u32(); got != 1 {
		t.Errorf("filter 1 exclude = %d, want 1", got)
	}

	if got := r.str(); got != "published_at" {
		t.Errorf("filter 2 attr = %q", got)
	}
	if got := r.u32(); got != filterRange {
		t.Errorf("filter 2 type = %d, want range", got)
	}
	if lo, hi := r.u64(), r.u64(); lo != 100 || hi != 200 {
		t.Errorf("filter 2 range = [%d, %d]", lo, hi)
	}
}

func TestEncodeSearch_Invalid(t *testing.T) {
	if _, err := encodeSearch(&Request{}); err == nil {
		t.Error("expected error for empty index list")
	}

	_, err := encodeSearch(&Request{
		Indexes: []string{"books"},
		Filters: []Filter{{Values: []int64{1}}},
	})
	if err == nil {
		t.Fatal("expected error for unnamed filter")
	}
	if !strings.Contains(err.Error(), "attribute name is required") {
		t.Errorf("error = %q", err)
	}
}

func TestFrame(t *testing.T) {
	out := frame(commandSearch, verCommandSearch, []byte{0xAA, 0xBB})

	if got := binary.BigEndian.Uint16(out[0:]); got != commandSearch {
		t.Errorf("command = %d", got)
	}
	if got := binary.BigEndian.Uint16(out[2:]); got != verCommandSearch {
		t.Errorf("version = %#x", got)
	}
	if got := binary.BigEndian.Uint32(out[4:]); got != 2 {
		t.Errorf("length = %d, want 2", got)
	}
	if len(out) != 10 || out[8] != 0xAA || out[9] != 0xBB {
		t.Errorf("frame = %x", out)
	}
}

// buildResponse assembles a SEARCH reply body the way the daemon does.
func buildResponse(t *testing.T, id64 bool) []byte {
	t.Helper()
	var w writer

	w.u32(2) // fields
	w.str("title")
	w.str("body")

	w.u32(4) // attrs
	w.str("status_id")
	w.u32(attrInteger)
	w.str("rating")
	w.u32(attrFloat)
	w.str("isbn")
	w.u32(attrString)
	w.str("tag_ids")
	w.u32(attrMulti)

	w.u32(2) // matches
	if id64 {
		w.u32(1)
	} else {
		w.u32(0)
	}

	writeDoc := func(id uint64, weight uint32, status uint32, rating float32, isbn string, tags []uint32) {
		if id64 {
			w.u64(id)
		} else {
			w.u32(uint32(id))
		}
		w.u32(weight)
		w.u32(status)
		w.u32(math.Float32bits(rating))
		w.str(isbn)
		w.u32(uint32(len(tags)))
		for _, tag := range tags {
			w.u32(tag)
		}
	}
	writeDoc(42, 1500, 1, 4.5, "978-0441013593", []uint32{7, 9})
	writeDoc(7, 900, 2, 3.0, "", nil)

	w.u32(2)   // total
	w.u32(120) // total found
	w.u32(250) // msec

	w.u32(1) // words
	w.str("dune")
	w.u32(120)
	w.u32(431)

	return w.buf.Bytes()
}

func TestDecodeSearch(t *testing.T) {
	resp, err := decodeSearch(buildResponse(t, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Fields) != 2 || resp.Fields[0] != "title" {
		t.Errorf("fields = %v", resp.Fields)
	}
	if resp.Total != 2 || resp.TotalFound != 120 {
		t.Errorf("totals = %d/%d", resp.Total, resp.TotalFound)
	}
	if resp.TimeSec != 0.25 {
		t.Errorf("elapsed = %v, want 0.25", resp.TimeSec)
	}

	if len(resp.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(resp.Matches))
	}
	first := resp.Matches[0]
	if first.Doc != 42 || first.Weight != 1500 {
		t.Errorf("match 0 = %d/%d", first.Doc, first.Weight)
	}
	if got := first.Attrs["status_id"]; got != int64(1) {
		t.Errorf("status_id = %v (%T)", got, got)
	}
	if got := first.Attrs["rating"]; got != float32(4.5) {
		t.Errorf("rating = %v (%T)", got, got)
	}
	if got := first.Attrs["isbn"]; got != "978-0441013593" {
		t.Errorf("isbn = %v", got)
	}
	tags, ok := first.Attrs["tag_ids"].([]int64)
	if !ok || len(tags) != 2 || tags[0] != 7 || tags[1] != 9 {
		t.Errorf("tag_ids = %v", first.Attrs["tag_ids"])
	}

	// Engine order is preserved, never re-sorted by doc id.
	if resp.Matches[1].Doc != 7 {
		t.Errorf("match 1 doc = %d, want 7", resp.Matches[1].Doc)
	}
}

func TestDecodeSearch_Id32(t *testing.T) {
	resp, err := decodeSearch(buildResponse(t, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Matches[0].Doc != 42 {
		t.Errorf("doc = %d, want 42", resp.Matches[0].Doc)
	}
}

func TestDecodeSearch_Truncated(t *testing.T) {
	full := buildResponse(t, true)
	for _, cut := range []int{0, 3, 10, len(full) / 2, len(full) - 1} {
		_, err := decodeSearch(full[:cut])
		if err == nil {
			t.Errorf("cut at %d: expected truncation error", cut)
			continue
		}
		if !strings.Contains(err.Error(), "truncated response") {
			t.Errorf("cut at %d: error = %q", cut, err)
		}
	}
}
