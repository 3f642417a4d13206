package engine

import (
	"strings"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

// Apply returns the records selected by spec in their original order.
// searchFields are the wire names joined into the free-text haystack.
func Apply(records []domain.Record, spec domain.FilterSpec, searchFields []string) []domain.Record {
	m := newMatcher(spec, searchFields)
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		if m.match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single record passes spec.
func Matches(r *domain.Record, spec domain.FilterSpec, searchFields []string) bool {
	return newMatcher(spec, searchFields).match(r)
}

type matcher struct {
	from, to     string
	constraints  []domain.Constraint
	query        string
	searchFields []string
}

func newMatcher(spec domain.FilterSpec, searchFields []string) matcher {
	m := matcher{
		from:         spec.From,
		to:           spec.To,
		query:        spec.NormalizedQuery(),
		searchFields: searchFields,
	}
	for _, c := range spec.Constraints {
		if c.Active() {
			m.constraints = append(m.constraints, c)
		}
	}
	return m
}

func (m matcher) match(r *domain.Record) bool {
	if m.from != "" && r.DateKey < m.from {
		return false
	}
	if m.to != "" && r.DateKey > m.to {
		return false
	}
	for _, c := range m.constraints {
		if r.Field(c.Field) != c.Value {
			return false
		}
	}
	if m.query != "" {
		return strings.Contains(m.haystack(r), m.query)
	}
	return true
}

func (m matcher) haystack(r *domain.Record) string {
	var b strings.Builder
	for i, f := range m.searchFields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.Field(f))
	}
	return strings.ToLower(b.String())
}
