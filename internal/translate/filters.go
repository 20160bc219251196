package translate

import (
	"github.com/skran-dev/sphindex/internal/domain/query"
	"github.com/skran-dev/sphindex/internal/domain/schema"
)

// FilterMode expresses the whole query through attribute filters. The
// match expression stays empty, which the engine treats as a full
// index scan; full-text field conditions contribute nothing in this
// strategy.
type FilterMode struct{}

// Translate implements Translator.
func (FilterMode) Translate(m schema.Model, q query.Query) (Translation, error) {
	filters, err := buildFilters(m, q)
	if err != nil {
		return Translation{}, err
	}
	return Translation{
		Match:   "",
		Filters: filters,
		SortBy:  buildSortBy(m, q),
		Limit:   q.Limit(),
		Offset:  q.Offset(),
	}, nil
}
