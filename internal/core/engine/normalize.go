// Package engine turns robot exports into dashboard views: it normalizes raw
// records, filters them and aggregates the result. Every function is pure and
// safe to call concurrently on a shared snapshot.
package engine

import (
	"strings"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/labels"
)

// Normalize converts raw export objects into canonical records. The output
// always has the same length and order as the input.
func Normalize(raw []domain.RawRecord) []domain.Record {
	out := make([]domain.Record, len(raw))
	for i := range raw {
		out[i] = NormalizeRecord(raw[i])
	}
	return out
}

// NormalizeRecord converts a single export object.
func NormalizeRecord(raw domain.RawRecord) domain.Record {
	text := raw.Text
	r := domain.Record{
		MaskedID:         text(domain.FieldMaskedID),
		FirstName:        text(domain.FieldFirstName),
		LastName:         text(domain.FieldLastName),
		Nationality:      text(domain.FieldNationality),
		Education:        text(domain.FieldEducation),
		EmployeeCategory: text(domain.FieldEmployeeCategory),
		DutyCategory:     text(domain.FieldDutyCategory),
		JobCode:          text(domain.FieldJobCode),
		Payroll:          text(domain.FieldPayroll),
		Title:            text(domain.FieldTitle),
		Department:       text(domain.FieldDepartment),
		Workplace:        text(domain.FieldWorkplace),
		Position:         text(domain.FieldPosition),
		Status:           domain.NormalizeStatus(text(domain.FieldStatus)),
		StartDate:        text(domain.FieldStartDate),
		EndDate:          text(domain.FieldEndDate),
		DateKey:          strings.TrimSpace(text(domain.FieldDateKey)),
		DurationSec:      parseCount(text(domain.FieldDurationSec)),
		ErrorComment:     text(domain.FieldErrorComment),
		ExitReason:       strings.TrimSpace(text(domain.FieldExitReason)),
		Gender:           text(domain.FieldGender),
		HireDate:         text(domain.FieldHireDate),
		ExitDate:         text(domain.FieldExitDate),
		MissingDays:      parseCount(text(domain.FieldMissingDays)),
		Raw:              raw,
	}
	r.DepartmentClean = labels.CleanCategoryLabel(r.Department)
	r.PositionClean = labels.CleanCategoryLabel(r.Position)
	return r
}

// WithDateKey drops records that cannot be placed on a day. Loaders call it;
// Normalize itself never drops anything.
func WithDateKey(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		if records[i].DateKey != "" {
			out = append(out, records[i])
		}
	}
	return out
}

// parseCount reads the leading integer of s ("12", " 7 ", "30.9", "15sn")
// and returns 0 for anything negative or without leading digits.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '-' {
		return 0
	}
	if s[0] == '+' {
		s = s[1:]
	}

	const maxCount = int(^uint32(0) >> 1)
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		if n > maxCount {
			return maxCount
		}
	}
	return n
}
