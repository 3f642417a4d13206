package domain

import (
	"sort"
	"strings"
	"time"

	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
)

// FilterAll is the dropdown sentinel for "no constraint".
const FilterAll = "ALL"

// DateKeyLayout is the layout of date keys and date range bounds.
const DateKeyLayout = "2006-01-02"

// Constraint requires a field to equal a value exactly.
type Constraint struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Active reports whether the constraint restricts anything.
func (c Constraint) Active() bool {
	return c.Value != "" && c.Value != FilterAll
}

// FilterSpec selects records. All parts are conjunctive.
type FilterSpec struct {
	From        string       `json:"from,omitempty"`
	To          string       `json:"to,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Query       string       `json:"query,omitempty"`
}

// Where returns a copy of the spec with one more equality constraint.
func (f FilterSpec) Where(field, value string) FilterSpec {
	out := f
	out.Constraints = make([]Constraint, 0, len(f.Constraints)+1)
	out.Constraints = append(out.Constraints, f.Constraints...)
	out.Constraints = append(out.Constraints, Constraint{Field: field, Value: value})
	return out
}

// NormalizedQuery is the query as matched against records.
func (f FilterSpec) NormalizedQuery() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

// IsEmpty reports whether the spec selects every record.
func (f FilterSpec) IsEmpty() bool {
	if f.From != "" || f.To != "" || f.NormalizedQuery() != "" {
		return false
	}
	for _, c := range f.Constraints {
		if c.Active() {
			return false
		}
	}
	return true
}

// Validate checks date bounds. The filter engine itself tolerates anything;
// this is for request boundaries.
func (f FilterSpec) Validate() error {
	errs := apperrors.NewValidationErrors()
	if f.From != "" && !IsDateKey(f.From) {
		errs.Add("from", apperrors.ErrInvalidDateKey.Error())
	}
	if f.To != "" && !IsDateKey(f.To) {
		errs.Add("to", apperrors.ErrInvalidDateKey.Error())
	}
	if !errs.HasErrors() && f.From != "" && f.To != "" && f.From > f.To {
		errs.Add("from", apperrors.ErrInvalidDateRange.Error())
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// CanonicalKey renders the spec deterministically, ignoring inactive
// constraints and constraint order.
func (f FilterSpec) CanonicalKey() string {
	active := make([]string, 0, len(f.Constraints))
	for _, c := range f.Constraints {
		if c.Active() {
			active = append(active, c.Field+"="+c.Value)
		}
	}
	sort.Strings(active)

	var b strings.Builder
	b.WriteString("from=")
	b.WriteString(f.From)
	b.WriteString("|to=")
	b.WriteString(f.To)
	b.WriteString("|q=")
	b.WriteString(f.NormalizedQuery())
	for _, c := range active {
		b.WriteString("|")
		b.WriteString(c)
	}
	return b.String()
}

// IsDateKey reports whether s is a real calendar day formatted YYYY-MM-DD.
func IsDateKey(s string) bool {
	if len(s) != len(DateKeyLayout) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, s)
	return err == nil
}
