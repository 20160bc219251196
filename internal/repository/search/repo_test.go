package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skran-dev/sphindex/internal/engine"
	"github.com/skran-dev/sphindex/internal/translate"
)

// --- Mocks ---

type mockSearcher struct {
	gotReq *engine.Request
	resp   *engine.Response
	err    error
}

func (m *mockSearcher) Search(_ context.Context, req *engine.Request) (*engine.Response, error) {
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func intPtr(n int) *int { return &n }

func TestSearch_BuildsRequest(t *testing.T) {
	mock := &mockSearcher{resp: &engine.Response{}}
	repo := New(mock)

	tr := &translate.Translation{
		Match:  "@title dune",
		SortBy: "price desc",
		Limit:  intPtr(25),
		Offset: intPtr(5),
		Filters: []translate.Filter{
			{Attr: "status_id", Values: []any{1, "3", true}},
			{Attr: "published_at", Range: &translate.ValueRange{Min: 100, Max: 200}, Exclude: true},
		},
	}

	if _, err := repo.Search(context.Background(), []string{"books_main", "books_delta"}, tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.gotReq
	if req == nil {
		t.Fatal("engine client was never called")
	}
	if len(req.Indexes) != 2 || req.Indexes[0] != "books_main" {
		t.Errorf("indexes = %v", req.Indexes)
	}
	if req.Match != "@title dune" || req.SortBy != "price desc" {
		t.Errorf("match/sort = %q/%q", req.Match, req.SortBy)
	}
	if req.Limit != 25 || req.Offset != 5 {
		t.Errorf("pagination = %d/%d", req.Limit, req.Offset)
	}

	if len(req.Filters) != 2 {
		t.Fatalf("filters = %d, want 2", len(req.Filters))
	}
	f := req.Filters[0]
	if len(f.Values) != 3 || f.Values[0] != 1 || f.Values[1] != 3 || f.Values[2] != 1 {
		t.Errorf("coerced values = %v, want [1 3 1]", f.Values)
	}
	if req.Filters[1].Range == nil || req.Filters[1].Range.Min != 100 || !req.Filters[1].Exclude {
		t.Errorf("range filter = %+v", req.Filters[1])
	}
}

func TestSearch_UnsetPaginationStaysZero(t *testing.T) {
	mock := &mockSearcher{resp: &engine.Response{}}
	repo := New(mock)

	if _, err := repo.Search(context.Background(), []string{"books"}, &translate.Translation{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.gotReq.Limit != 0 || mock.gotReq.Offset != 0 {
		t.Errorf("pagination = %d/%d, want zero for engine defaults", mock.gotReq.Limit, mock.gotReq.Offset)
	}
}

func TestSearch_NonNumericFilterValue(t *testing.T) {
	mock := &mockSearcher{resp: &engine.Response{}}
	repo := New(mock)

	tr := &translate.Translation{
		Filters: []translate.Filter{{Attr: "status_id", Values: []any{"draft"}}},
	}
	_, err := repo.Search(context.Background(), []string{"books"}, tr)
	if err == nil {
		t.Fatal("expected error for non-numeric filter value")
	}
	if !strings.Contains(err.Error(), `"status_id"`) {
		t.Errorf("error %q does not name the filter", err)
	}
	if mock.gotReq != nil {
		t.Error("engine was called despite the build failure")
	}
}

func TestSearch_DecodesInEngineOrder(t *testing.T) {
	mock := &mockSearcher{resp: &engine.Response{
		Total:      2,
		TotalFound: 40,
		TimeSec:    0.012,
		Warning:    "partial",
		Matches: []engine.Match{
			{Doc: 99, Weight: 1200, Attrs: map[string]any{"status_id": int64(1)}},
			{Doc: 5, Weight: 800},
		},
	}}
	repo := New(mock)

	set, err := repo.Search(context.Background(), []string{"books"}, &translate.Translation{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Total != 2 || set.TotalFound != 40 || set.TimeSec != 0.012 || set.Warning != "partial" {
		t.Errorf("set bookkeeping = %+v", set)
	}
	if len(set.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(set.Rows))
	}
	if set.Rows[0].ID() != 99 || set.Rows[1].ID() != 5 {
		t.Errorf("row order = [%d, %d], want engine order [99, 5]", set.Rows[0].ID(), set.Rows[1].ID())
	}
	if set.Rows[0].Weight() != 1200 {
		t.Errorf("weight = %d", set.Rows[0].Weight())
	}
	if set.Rows[0].Attrs()["status_id"] != int64(1) {
		t.Errorf("attrs = %v", set.Rows[0].Attrs())
	}
}

func TestSearch_PropagatesEngineError(t *testing.T) {
	wantErr := errors.New("searchd connect: refused")
	repo := New(&mockSearcher{err: wantErr})

	_, err := repo.Search(context.Background(), []string{"books"}, &translate.Translation{})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want propagated %v", err, wantErr)
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"int", 7, 7, false},
		{"int64", int64(-3), -3, false},
		{"uint32", uint32(9), 9, false},
		{"bool true", true, 1, false},
		{"bool false", false, 0, false},
		{"float truncates", 3.9, 3, false},
		{"numeric string", "41", 41, false},
		{"word string", "draft", 0, true},
		{"nil", nil, 0, true},
		{"struct", struct{}{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceInt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("coerceInt(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
