package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/engine"
)

func TestOptions(t *testing.T) {
	recs := records(t, `[
		{"isyeri":"Çorlu","departman":"ULU.Radyoloji","cikis_nedeni":"03","status":"SUCCESS","date_key":"2024-01-03"},
		{"isyeri":"Bursa","departman":"Acil.","cikis_nedeni":"99","status":"Error","date_key":"2024-01-01"},
		{"isyeri":"Denizli","departman":"","cikis_nedeni":"","status":"ERROR","date_key":"2024-01-03"},
		{"isyeri":"  ","departman":"Çocuk","status":"COMPLETED","date_key":""}
	]`)

	opts := engine.Options(recs)

	assert.Equal(t, []string{"2024-01-01", "2024-01-03"}, opts.Dates)
	assert.Equal(t, "2024-01-01", opts.DateMin)
	assert.Equal(t, "2024-01-03", opts.DateMax)
	assert.Equal(t, []string{"Bursa", "Çorlu", "Denizli"}, opts.Workplaces)
	assert.Equal(t, []string{"Acil", "Çocuk", "Radyoloji"}, opts.Departments)
	assert.Equal(t, []domain.CodeLabel{
		{Code: "03", Label: "Belirsiz süreli iş sözl. işçi tarafından feshi (istifa)"},
		{Code: "99", Label: "Kod: 99"},
	}, opts.ExitReasons)
	assert.Equal(t, []domain.Status{domain.StatusCompleted, domain.StatusError}, opts.Statuses)
}

func TestOptions_Empty(t *testing.T) {
	opts := engine.Options(nil)

	assert.Empty(t, opts.Dates)
	assert.Empty(t, opts.DateMin)
	assert.Empty(t, opts.Workplaces)
	assert.Empty(t, opts.ExitReasons)
}
