package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/engine"
)

func TestNormalize_Status(t *testing.T) {
	recs := records(t, `[
		{"status":"COMPLETED"},
		{"status":"ERROR"},
		{"status":"SUCCESS"},
		{"status":"Error"},
		{"status":"PENDING"},
		{}
	]`)

	require.Len(t, recs, 6)
	assert.Equal(t, domain.StatusCompleted, recs[0].Status)
	assert.Equal(t, domain.StatusError, recs[1].Status)
	assert.Equal(t, domain.StatusCompleted, recs[2].Status)
	assert.Equal(t, domain.StatusError, recs[3].Status)
	assert.Equal(t, domain.Status("PENDING"), recs[4].Status)
	assert.Equal(t, domain.Status(""), recs[5].Status)
}

func TestNormalize_Counts(t *testing.T) {
	tests := []struct {
		name string
		js   string
		want int
	}{
		{"number", `{"duration_sec":42}`, 42},
		{"numeric string", `{"duration_sec":"17"}`, 17},
		{"padded string", `{"duration_sec":" 8 "}`, 8},
		{"fraction", `{"duration_sec":30.9}`, 30},
		{"trailing text", `{"duration_sec":"15sn"}`, 15},
		{"negative", `{"duration_sec":-5}`, 0},
		{"negative string", `{"duration_sec":"-12"}`, 0},
		{"garbage", `{"duration_sec":"abc"}`, 0},
		{"null", `{"duration_sec":null}`, 0},
		{"bool", `{"duration_sec":true}`, 0},
		{"absent", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := records(t, "["+tt.js+"]")
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].DurationSec)
			assert.GreaterOrEqual(t, recs[0].DurationSec, 0)
		})
	}
}

func TestNormalize_MissingDays(t *testing.T) {
	recs := records(t, `[{"eksik_gun_sayisi":"3"},{"eksik_gun_sayisi":"-1"}]`)
	assert.Equal(t, 3, recs[0].MissingDays)
	assert.Equal(t, 0, recs[1].MissingDays)
}

func TestNormalize_DerivedLabels(t *testing.T) {
	recs := records(t, `[{
		"departman":"ULU.Teknik Hizmetler Müdürlüğü.",
		"pozisyon":"ULU.Elektrik Teknisyeni",
		"isyeri":"Uludağ Hastanesi"
	}]`)

	r := recs[0]
	assert.Equal(t, "ULU.Teknik Hizmetler Müdürlüğü.", r.Department)
	assert.Equal(t, "Teknik Hizmetler Müdürlüğü", r.DepartmentClean)
	assert.Equal(t, "Elektrik Teknisyeni", r.PositionClean)
	assert.Equal(t, "Uludağ Hastanesi", r.Workplace)
}

func TestNormalize_KeepsLengthAndRaw(t *testing.T) {
	recs := records(t, `[{"ad":"Ayşe","extra":"x"}, 5, {"ad":"Mehmet"}]`)

	require.Len(t, recs, 3)
	assert.Equal(t, "Ayşe", recs[0].FirstName)
	assert.Equal(t, "x", recs[0].Field("extra"))
	assert.Equal(t, 0, recs[1].Raw.Len())
	assert.Equal(t, "Mehmet", recs[2].FirstName)
}

func TestWithDateKey(t *testing.T) {
	recs := records(t, `[{"date_key":"2024-01-01"},{"date_key":""},{},{"date_key":"2024-01-02"}]`)

	kept := engine.WithDateKey(recs)
	require.Len(t, kept, 2)
	assert.Equal(t, "2024-01-01", kept[0].DateKey)
	assert.Equal(t, "2024-01-02", kept[1].DateKey)
}
