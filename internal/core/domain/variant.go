package domain

import (
	"fmt"

	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
)

// Built-in dashboard variants.
const (
	VariantEntry = "entry"
	VariantExit  = "exit"
)

// GroupingKey names a function that maps a record to a group label.
type GroupingKey string

const (
	GroupByDepartment GroupingKey = "department"
	GroupByPosition   GroupingKey = "position"
	GroupByWorkplace  GroupingKey = "workplace"
	GroupByExitReason GroupingKey = "exit_reason"
	GroupByErrorLabel GroupingKey = "error_label"
	GroupByGender     GroupingKey = "gender"
	GroupByHour       GroupingKey = "hour"
)

// IsValid reports whether the key is known to the aggregator.
func (k GroupingKey) IsValid() bool {
	switch k {
	case GroupByDepartment, GroupByPosition, GroupByWorkplace,
		GroupByExitReason, GroupByErrorLabel, GroupByGender, GroupByHour:
		return true
	}
	return false
}

// GroupingSpec configures one top-N breakdown.
type GroupingSpec struct {
	Name string      `yaml:"name" json:"name"`
	Key  GroupingKey `yaml:"key" json:"key"`
	// Status restricts counting to records with this status when set.
	Status Status `yaml:"status,omitempty" json:"status,omitempty"`
	// Limit truncates the result; zero keeps every group.
	Limit int `yaml:"limit" json:"limit"`
}

// EmploymentSpec configures average tenure per position.
type EmploymentSpec struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	MinRecords int  `yaml:"min_records" json:"minRecords"`
	Limit      int  `yaml:"limit" json:"limit"`
}

// Variant parameterizes the engine for one dashboard.
type Variant struct {
	Name         string         `yaml:"name" json:"name"`
	Title        string         `yaml:"title" json:"title"`
	SearchFields []string       `yaml:"search_fields" json:"searchFields"`
	FilterFields []string       `yaml:"filter_fields" json:"filterFields"`
	Groupings    []GroupingSpec `yaml:"groupings" json:"groupings"`
	// TrendWindow keeps the most recent entries of the daily trend; zero keeps all.
	TrendWindow   int            `yaml:"trend_window" json:"trendWindow"`
	TimelineLimit int            `yaml:"timeline_limit" json:"timelineLimit"`
	Employment    EmploymentSpec `yaml:"employment" json:"employment"`
	// ManualSecondsPerRecord is the manual processing time replaced by one robot run.
	ManualSecondsPerRecord int `yaml:"manual_seconds_per_record" json:"manualSecondsPerRecord"`
}

// DefaultManualSecondsPerRecord is four minutes of clerk time per transaction.
const DefaultManualSecondsPerRecord = 240

// EntryVariant is the hiring (işe giriş) dashboard.
func EntryVariant() Variant {
	return Variant{
		Name:  VariantEntry,
		Title: "SGK İşe Giriş",
		SearchFields: []string{
			FieldFirstName, FieldLastName, FieldTitle, FieldPosition,
			FieldDepartment, FieldWorkplace, FieldJobCode,
			FieldEducation, FieldEmployeeCategory, FieldDutyCategory,
			FieldErrorComment,
		},
		FilterFields: []string{FieldWorkplace, FieldDepartmentClean, FieldStatus},
		Groupings: []GroupingSpec{
			{Name: "departments", Key: GroupByDepartment, Limit: 30},
			{Name: "positions", Key: GroupByPosition, Limit: 30},
			{Name: "error_types", Key: GroupByErrorLabel, Status: StatusError, Limit: 10},
			{Name: "workplace_errors", Key: GroupByWorkplace, Status: StatusError, Limit: 10},
			{Name: "workplace_success", Key: GroupByWorkplace, Status: StatusCompleted, Limit: 10},
			{Name: "hours", Key: GroupByHour, Limit: 24},
		},
		TrendWindow:            15,
		TimelineLimit:          10,
		ManualSecondsPerRecord: DefaultManualSecondsPerRecord,
	}
}

// ExitVariant is the termination (işten çıkış) dashboard.
func ExitVariant() Variant {
	return Variant{
		Name:  VariantExit,
		Title: "SGK İşten Çıkış",
		SearchFields: []string{
			FieldFirstName, FieldLastName, FieldPosition,
			FieldWorkplace, FieldDutyCategory,
			FieldExitReason, FieldGender,
		},
		FilterFields: []string{FieldWorkplace, FieldExitReason, FieldStatus},
		Groupings: []GroupingSpec{
			{Name: "positions", Key: GroupByPosition, Limit: 30},
			{Name: "exit_reasons", Key: GroupByExitReason, Limit: 10},
			{Name: "workplace_errors", Key: GroupByWorkplace, Status: StatusError, Limit: 10},
			{Name: "workplace_success", Key: GroupByWorkplace, Status: StatusCompleted, Limit: 10},
			{Name: "genders", Key: GroupByGender},
			{Name: "hours", Key: GroupByHour, Limit: 24},
		},
		TrendWindow:   15,
		TimelineLimit: 10,
		Employment: EmploymentSpec{
			Enabled:    true,
			MinRecords: 5,
			Limit:      15,
		},
		ManualSecondsPerRecord: DefaultManualSecondsPerRecord,
	}
}

// DefaultVariants returns the built-in dashboards.
func DefaultVariants() []Variant {
	return []Variant{EntryVariant(), ExitVariant()}
}

// HasFilterField reports whether the variant exposes field as a categorical filter.
func (v Variant) HasFilterField(field string) bool {
	for _, f := range v.FilterFields {
		if f == field {
			return true
		}
	}
	return false
}

// Validate checks the variant configuration.
func (v Variant) Validate() error {
	errs := apperrors.NewValidationErrors()
	if v.Name == "" {
		errs.Add("name", "variant name is required")
	}
	if v.ManualSecondsPerRecord < 0 {
		errs.Add("manual_seconds_per_record", "must not be negative")
	}
	if v.TrendWindow < 0 {
		errs.Add("trend_window", "must not be negative")
	}
	seen := make(map[string]bool, len(v.Groupings))
	for i, g := range v.Groupings {
		field := fmt.Sprintf("groupings[%d]", i)
		if g.Name == "" {
			errs.Add(field, "grouping name is required")
		}
		if seen[g.Name] {
			errs.Add(field, "duplicate grouping name "+g.Name)
		}
		seen[g.Name] = true
		if !g.Key.IsValid() {
			errs.Add(field, "unknown grouping key "+string(g.Key))
		}
		if g.Status != "" && !g.Status.IsCanonical() {
			errs.Add(field, "status must be COMPLETED or ERROR")
		}
		if g.Limit < 0 {
			errs.Add(field, "limit must not be negative")
		}
	}
	if v.Employment.Enabled && v.Employment.MinRecords < 1 {
		errs.Add("employment.min_records", "must be at least 1")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
