package translate

import (
	"fmt"
	"strings"

	"github.com/skran-dev/sphindex/internal/domain/query"
	"github.com/skran-dev/sphindex/internal/domain/schema"
)

// matchEscaper backslash-escapes the engine's extended-syntax special
// characters. The character set must stay exactly this one.
var matchEscaper = strings.NewReplacer(
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`!`, `\!`,
	`@`, `\@`,
	`~`, `\~`,
	`"`, `\"`,
	`&`, `\&`,
	`/`, `\/`,
)

// EscapeMatch escapes a value for interpolation into a match expression.
func EscapeMatch(s string) string {
	return matchEscaper.Replace(s)
}

// InlineMode renders full-text conditions directly into the match
// expression using field-scoped extended syntax. Attribute conditions
// still become filters, shared with FilterMode.
type InlineMode struct{}

// Translate implements Translator.
func (InlineMode) Translate(m schema.Model, q query.Query) (Translation, error) {
	filters, err := buildFilters(m, q)
	if err != nil {
		return Translation{}, err
	}

	var terms []string
	var warnings []string
	for _, c := range q.Conditions() {
		attr, ok := m.Attribute(c.Attr())
		if !ok || attr.Kind() != schema.KindFullText {
			continue
		}

		value := EscapeMatch(fmt.Sprint(c.Value()))
		switch c.Op() {
		case query.OpRaw:
			terms = append(terms, fmt.Sprint(c.Value()))
		case query.OpNot:
			terms = append(terms, fmt.Sprintf("@%s -%s", attr.Field(), value))
		case query.OpLT, query.OpGT, query.OpLTE, query.OpGTE:
			// Extended-синтаксис не знает операторов сравнения —
			// даунгрейд до равенства.
			warnings = append(warnings, fmt.Sprintf(
				"operator %s is not supported on full-text field %s, downgraded to equality match",
				c.Op(), attr.Field(),
			))
			terms = append(terms, fmt.Sprintf("@%s %s", attr.Field(), value))
		default:
			terms = append(terms, fmt.Sprintf("@%s %s", attr.Field(), value))
		}
	}

	return Translation{
		Match:    strings.Join(terms, " "),
		Filters:  filters,
		SortBy:   buildSortBy(m, q),
		Limit:    q.Limit(),
		Offset:   q.Offset(),
		Warnings: warnings,
	}, nil
}
