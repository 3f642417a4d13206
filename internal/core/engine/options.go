package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/labels"
)

// Options collects the dropdown values of a record set. Names are sorted with
// Turkish collation so that "Çorlu" follows "Bursa".
func Options(records []domain.Record) domain.FilterOptions {
	var dates, workplaces, departments, reasons, statuses distinct
	for i := range records {
		r := &records[i]
		dates.add(r.DateKey)
		workplaces.add(strings.TrimSpace(r.Workplace))
		departments.add(r.DepartmentClean)
		reasons.add(r.ExitReason)
		statuses.add(string(r.Status))
	}

	opts := domain.FilterOptions{
		Dates:       dates.values(),
		Workplaces:  workplaces.values(),
		Departments: departments.values(),
		ExitReasons: make([]domain.CodeLabel, 0, len(reasons.seen)),
		Statuses:    make([]domain.Status, 0, len(statuses.seen)),
	}
	sort.Strings(opts.Dates)
	if n := len(opts.Dates); n > 0 {
		opts.DateMin = opts.Dates[0]
		opts.DateMax = opts.Dates[n-1]
	}

	col := collate.New(language.Turkish)
	col.SortStrings(opts.Workplaces)
	col.SortStrings(opts.Departments)

	codes := reasons.values()
	sort.Strings(codes)
	for _, code := range codes {
		opts.ExitReasons = append(opts.ExitReasons, domain.CodeLabel{
			Code:  code,
			Label: labels.ExitReasonLabel(code),
		})
	}

	sts := statuses.values()
	sort.Strings(sts)
	for _, s := range sts {
		opts.Statuses = append(opts.Statuses, domain.Status(s))
	}
	return opts
}

// distinct collects non-blank strings once each.
type distinct struct {
	seen  map[string]struct{}
	order []string
}

func (d *distinct) add(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[s]; ok {
		return
	}
	d.seen[s] = struct{}{}
	d.order = append(d.order, s)
}

func (d *distinct) values() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
