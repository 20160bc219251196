// Package search runs translated queries against the engine client
// and decodes raw matches into normalized rows.
package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/skran-dev/sphindex/internal/domain/result"
	"github.com/skran-dev/sphindex/internal/engine"
	"github.com/skran-dev/sphindex/internal/translate"
)

// searcher is the consumer interface for the engine client (ISP).
type searcher interface {
	Search(ctx context.Context, req *engine.Request) (*engine.Response, error)
}

// Repo implements usecase/read.Repository.
type Repo struct {
	client searcher
}

// New creates a search repository over an engine client.
func New(client searcher) *Repo {
	return &Repo{client: client}
}

// Search issues one translated query against the given indexes.
func (r *Repo) Search(ctx context.Context, indexes []string, t *translate.Translation) (*result.Set, error) {
	req, err := buildRequest(indexes, t)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	return &result.Set{
		Rows:       decodeMatches(resp.Matches),
		Total:      resp.Total,
		TotalFound: resp.TotalFound,
		TimeSec:    resp.TimeSec,
		Warning:    resp.Warning,
	}, nil
}

// buildRequest maps a translation onto the wire request shape.
func buildRequest(indexes []string, t *translate.Translation) (*engine.Request, error) {
	req := &engine.Request{
		Indexes: indexes,
		Match:   t.Match,
		SortBy:  t.SortBy,
	}
	if t.Limit != nil {
		req.Limit = *t.Limit
	}
	if t.Offset != nil {
		req.Offset = *t.Offset
	}

	for _, f := range t.Filters {
		wf := engine.Filter{Attr: f.Attr, Exclude: f.Exclude}
		if f.Range != nil {
			wf.Range = &engine.ValueRange{Min: f.Range.Min, Max: f.Range.Max}
		} else {
			wf.Values = make([]int64, 0, len(f.Values))
			for _, v := range f.Values {
				n, err := coerceInt(v)
				if err != nil {
					return nil, fmt.Errorf("filter %q: %w", f.Attr, err)
				}
				wf.Values = append(wf.Values, n)
			}
		}
		req.Filters = append(req.Filters, wf)
	}

	return req, nil
}

// decodeMatches converts raw matches into rows, preserving the
// engine's returned order exactly.
func decodeMatches(matches []engine.Match) []result.Row {
	rows := make([]result.Row, len(matches))
	for i, m := range matches {
		rows[i] = result.New(m.Doc, m.Weight, m.Attrs)
	}
	return rows
}

// coerceInt flattens a filter value to the integer the wire expects.
func coerceInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", n)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("value %v has no numeric form", v)
}
