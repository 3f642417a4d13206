package engine

import "github.com/sgk-rpa/rpa-dashboard/internal/core/domain"

// ExportTable lays out records for CSV export. The header is the union of
// all source keys in first-seen order followed by the derived columns; cells
// are the normalized values, empty where a record lacks the key or holds null.
func ExportTable(records []domain.Record) domain.ExportTable {
	var header []string
	seen := make(map[string]bool)
	addKey := func(k string) {
		if !seen[k] {
			seen[k] = true
			header = append(header, k)
		}
	}
	for i := range records {
		for _, k := range records[i].Raw.Keys() {
			addKey(k)
		}
	}
	if len(records) > 0 {
		for _, k := range domain.DerivedFields {
			addKey(k)
		}
	}

	derived := make(map[string]bool, len(domain.DerivedFields))
	for _, k := range domain.DerivedFields {
		derived[k] = true
	}

	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		row := make([]string, len(header))
		for j, k := range header {
			switch {
			case derived[k]:
				row[j] = r.Field(k)
			case !r.Raw.Has(k) || r.Raw.Text(k) == "":
				// absent, null or empty in the source
			default:
				row[j] = r.Field(k)
			}
		}
		rows = append(rows, row)
	}
	return domain.ExportTable{Header: header, Rows: rows}
}
