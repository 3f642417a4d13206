package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Status
	}{
		{"COMPLETED", domain.StatusCompleted},
		{"ERROR", domain.StatusError},
		{"SUCCESS", domain.StatusCompleted},
		{"Error", domain.StatusError},
		{"error", domain.Status("error")},
		{"PENDING", domain.Status("PENDING")},
		{"", domain.Status("")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := domain.NormalizeStatus(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeStatus_KnownSynonymsAreCanonical(t *testing.T) {
	for _, raw := range []string{"COMPLETED", "ERROR", "SUCCESS", "Error"} {
		assert.True(t, domain.NormalizeStatus(raw).IsCanonical(), raw)
	}
}

func TestParseRawRecords(t *testing.T) {
	recs, err := domain.ParseRawRecords([]byte(`[{"b":1,"a":"x","c":null},{"z":true}]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"b", "a", "c"}, recs[0].Keys())
	assert.Equal(t, "1", recs[0].Text("b"))
	assert.Equal(t, "x", recs[0].Text("a"))
	assert.Equal(t, "", recs[0].Text("c"))
	assert.True(t, recs[0].Has("c"))
	assert.False(t, recs[0].Has("missing"))
	assert.Equal(t, "true", recs[1].Text("z"))
}

func TestParseRawRecords_Errors(t *testing.T) {
	_, err := domain.ParseRawRecords([]byte(`{"a":1}`))
	assert.True(t, errors.Is(err, apperrors.ErrNotArray))

	_, err = domain.ParseRawRecords([]byte(`[{"a":`))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidJSON))

	_, err = domain.ParseRawRecord([]byte(`[1]`))
	assert.True(t, errors.Is(err, apperrors.ErrNotObject))
}

func TestRawRecord_JSONKeepsKeyOrder(t *testing.T) {
	in := `{"z":"last","a":1,"m":[1,2],"n":null}`
	rec, err := domain.ParseRawRecord([]byte(in))
	require.NoError(t, err)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))

	var back domain.RawRecord
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, rec.Keys(), back.Keys())
}

func TestFilterSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    domain.FilterSpec
		wantErr bool
	}{
		{"empty", domain.FilterSpec{}, false},
		{"range", domain.FilterSpec{From: "2024-01-01", To: "2024-01-31"}, false},
		{"same day", domain.FilterSpec{From: "2024-01-01", To: "2024-01-01"}, false},
		{"inverted", domain.FilterSpec{From: "2024-02-01", To: "2024-01-31"}, true},
		{"bad layout", domain.FilterSpec{From: "01/01/2024"}, true},
		{"impossible day", domain.FilterSpec{To: "2024-02-30"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				var verrs *apperrors.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilterSpec_CanonicalKey(t *testing.T) {
	a := domain.FilterSpec{Query: " Kaya "}.
		Where(domain.FieldWorkplace, "Bursa").
		Where(domain.FieldStatus, "ERROR").
		Where(domain.FieldDepartmentClean, domain.FilterAll)
	b := domain.FilterSpec{Query: "kaya"}.
		Where(domain.FieldStatus, "ERROR").
		Where(domain.FieldWorkplace, "Bursa")

	assert.Equal(t, a.CanonicalKey(), b.CanonicalKey())
	assert.NotEqual(t, a.CanonicalKey(), b.Where(domain.FieldWorkplace, "Uludağ").CanonicalKey())
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	assert.True(t, domain.FilterSpec{}.IsEmpty())
	assert.True(t, domain.FilterSpec{Query: "  "}.Where(domain.FieldStatus, "ALL").IsEmpty())
	assert.False(t, domain.FilterSpec{From: "2024-01-01"}.IsEmpty())
	assert.False(t, domain.FilterSpec{}.Where(domain.FieldStatus, "ERROR").IsEmpty())
}

func TestFilterSpec_WhereDoesNotShareBacking(t *testing.T) {
	base := domain.FilterSpec{}.Where("a", "1")
	x := base.Where("b", "2")
	y := base.Where("c", "3")

	assert.Len(t, base.Constraints, 1)
	assert.Equal(t, "b", x.Constraints[1].Field)
	assert.Equal(t, "c", y.Constraints[1].Field)
}

func TestVariant_Validate(t *testing.T) {
	for _, v := range domain.DefaultVariants() {
		assert.NoError(t, v.Validate(), v.Name)
	}

	bad := domain.Variant{
		Groupings: []domain.GroupingSpec{
			{Name: "x", Key: "nope"},
			{Name: "x", Key: domain.GroupByGender, Status: "SUCCESS", Limit: -1},
		},
		Employment: domain.EmploymentSpec{Enabled: true},
	}
	err := bad.Validate()
	var verrs *apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Errors, "name")
	assert.Contains(t, verrs.Errors, "groupings[0]")
	assert.Len(t, verrs.Errors["groupings[1]"], 3)
	assert.Contains(t, verrs.Errors, "employment.min_records")
}

func TestRecord_Field(t *testing.T) {
	r := domain.Record{
		Workplace:   "Bursa",
		Status:      domain.StatusError,
		DurationSec: 42,
		MissingDays: 3,
	}

	assert.Equal(t, "Bursa", r.Field(domain.FieldWorkplace))
	assert.Equal(t, "ERROR", r.Field(domain.FieldStatus))
	assert.Equal(t, "42", r.Field(domain.FieldDurationSec))
	assert.Equal(t, "3", r.Field(domain.FieldMissingDays))
	assert.Equal(t, "", r.Field("unknown"))
}

func TestFingerprint(t *testing.T) {
	parse := func(js string) []domain.RawRecord {
		raw, err := domain.ParseRawRecords([]byte(js))
		require.NoError(t, err)
		return raw
	}

	base := domain.Fingerprint(parse(`[{"ad":"Ali","duration_sec":10}]`))

	assert.Equal(t, base, domain.Fingerprint(parse(`[ {"ad": "Ali", "duration_sec": 10} ]`)))
	assert.NotEqual(t, base, domain.Fingerprint(parse(`[{"ad":"Ali","duration_sec":11}]`)))
	assert.NotEqual(t, base, domain.Fingerprint(parse(`[{"ad":"Ali","duration_sec":10},{"ad":"Veli"}]`)))
	assert.NotEqual(t, base, domain.Fingerprint(nil))
}
