package http

import (
	"encoding/csv"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/services"
)

func TestDashboardHandler_Summary(t *testing.T) {
	env := newTestEnv(t)

	env.dashboards.On("Summary", mock.Anything, mock.MatchedBy(func(p ports.SummaryParams) bool {
		return p.Variant == domain.VariantEntry &&
			p.Filter.From == "2024-03-01" &&
			p.Filter.To == "" &&
			p.Filter.Query == "ayşe" &&
			len(p.Filter.Constraints) == 2 &&
			p.Filter.Constraints[0] == domain.Constraint{Field: "departman", Value: "Muhasebe"} &&
			p.Filter.Constraints[1] == domain.Constraint{Field: "isyeri", Value: "Uludağ"} &&
			p.TrendWindow != nil && *p.TrendWindow == 7
	})).Return(&domain.Summary{
		Variant: domain.VariantEntry,
		Version: 3,
		Matched: 2,
		Total:   5,
		Result:  domain.AggregateResult{KPIs: domain.KPIs{Total: 2, Completed: 1}},
	}, nil)

	rec := env.do(stdhttp.MethodGet,
		"/api/v1/dashboards/entry/summary?from=2024-03-01&q=ay%C5%9Fe&trend=7&isyeri=Uluda%C4%9F&departman=Muhasebe", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode[domain.Summary](t, rec)
	assert.Equal(t, int64(3), body.Version)
	assert.Equal(t, 2, body.Result.KPIs.Total)
	env.dashboards.AssertExpectations(t)
}

func TestDashboardHandler_SummaryValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{"bad from", "from=01.03.2024", "from"},
		{"bad to", "to=2024-13-01", "to"},
		{"negative trend", "trend=-1", "trend"},
		{"non numeric trend", "trend=week", "trend"},
		{"trend too large", "trend=99999", "trend"},
		{"query too long", "q=" + strings.Repeat("a", 201), "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(stdhttp.MethodGet, "/api/v1/dashboards/entry/summary?"+tt.query, "")

			require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
			body := decode[ValidationErrorResponse](t, rec)
			assert.Contains(t, body.Fields, tt.field)
			env.dashboards.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
		})
	}
}

func TestDashboardHandler_SummaryErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown variant", apperrors.ErrVariantNotFound, stdhttp.StatusNotFound},
		{"unknown field", apperrors.ErrUnknownFilterField, stdhttp.StatusBadRequest},
		{"not loaded", apperrors.ErrSnapshotNotLoaded, stdhttp.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.dashboards.On("Summary", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := env.do(stdhttp.MethodGet, "/api/v1/dashboards/payroll/summary", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDashboardHandler_Records(t *testing.T) {
	env := newTestEnv(t)

	env.dashboards.On("Records", mock.Anything, mock.MatchedBy(func(p ports.ListRecordsParams) bool {
		return p.Variant == domain.VariantExit && p.Limit == services.MaxPageSize && p.Offset == 10
	})).Return(&domain.RecordPage{
		Items:  []domain.Record{{FirstName: "Ayşe", DateKey: "2024-03-01"}},
		Total:  11,
		Limit:  services.MaxPageSize,
		Offset: 10,
	}, nil)

	rec := env.do(stdhttp.MethodGet, "/api/v1/dashboards/exit/records?limit=5000&offset=10", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode[PaginatedResponse[domain.Record]](t, rec)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Ayşe", body.Data[0].FirstName)
	assert.Equal(t, int64(11), body.Pagination.TotalCount)
	assert.False(t, body.Pagination.HasMore)
}

func TestDashboardHandler_ExportJSON(t *testing.T) {
	env := newTestEnv(t)
	table := &domain.ExportTable{
		Header: []string{"ad", "status"},
		Rows:   [][]string{{"Ayşe", "COMPLETED"}},
	}
	env.dashboards.On("Export", mock.Anything, mock.Anything).Return(table, nil)

	rec := env.do(stdhttp.MethodGet, "/api/v1/dashboards/entry/export", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode[domain.ExportTable](t, rec)
	assert.Equal(t, table.Header, body.Header)
	assert.Equal(t, table.Rows, body.Rows)
}

func TestDashboardHandler_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.dashboards.On("Export", mock.Anything, mock.MatchedBy(func(p ports.QueryParams) bool {
		// format is not a field constraint
		return p.Variant == domain.VariantEntry && len(p.Filter.Constraints) == 0
	})).Return(&domain.ExportTable{
		Header: []string{"ad", "error_comment"},
		Rows:   [][]string{{"Şükrü", "Kayıt, mevcut"}},
	}, nil)

	rec := env.do(stdhttp.MethodGet, "/api/v1/dashboards/entry/export?format=csv", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="rpa_entry_`+time.Now().Format("20060102")+`.csv"`)

	body := rec.Body.String()
	require.True(t, strings.HasPrefix(body, utf8BOM))

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, utf8BOM))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ad", "error_comment"}, {"Şükrü", "Kayıt, mevcut"}}, rows)
}

func TestDashboardHandler_Options(t *testing.T) {
	env := newTestEnv(t)
	env.dashboards.On("FilterOptions", mock.Anything, domain.VariantEntry).Return(&domain.FilterOptions{
		Dates:      []string{"2024-03-01"},
		Workplaces: []string{"Uludağ"},
	}, nil)

	rec := env.do(stdhttp.MethodGet, "/api/v1/dashboards/entry/options", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode[domain.FilterOptions](t, rec)
	assert.Equal(t, []string{"Uludağ"}, body.Workplaces)
}

func TestDashboardHandler_ListVariants(t *testing.T) {
	env := newTestEnv(t)
	loadedAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	env.dashboards.On("Variants").Return([]domain.Variant{domain.EntryVariant(), domain.ExitVariant()})
	env.dashboards.On("Snapshot", domain.VariantEntry).Return(&domain.Snapshot{
		Variant:  domain.VariantEntry,
		Version:  2,
		LoadedAt: loadedAt,
		Records:  make([]domain.Record, 3),
	}, nil)
	env.dashboards.On("Snapshot", domain.VariantExit).Return(nil, apperrors.ErrSnapshotNotLoaded)

	rec := env.do(stdhttp.MethodGet, "/api/v1/variants", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode[ListResponse[VariantDTO]](t, rec)
	require.Equal(t, 2, body.Count)

	assert.Equal(t, domain.VariantEntry, body.Data[0].Name)
	assert.True(t, body.Data[0].Loaded)
	assert.Equal(t, 3, body.Data[0].Records)
	require.NotNil(t, body.Data[0].LoadedAt)
	assert.True(t, loadedAt.Equal(*body.Data[0].LoadedAt))

	assert.Equal(t, domain.VariantExit, body.Data[1].Name)
	assert.False(t, body.Data[1].Loaded)
	assert.Nil(t, body.Data[1].LoadedAt)
}

func TestDashboardHandler_RawData(t *testing.T) {
	env := newTestEnv(t)

	raw, err := domain.ParseRawRecord([]byte(`{"status":"COMPLETED","ad":"Ayşe","date_key":"2024-03-01","extra":1}`))
	require.NoError(t, err)
	env.dashboards.On("Snapshot", domain.VariantEntry).Return(&domain.Snapshot{
		Variant: domain.VariantEntry,
		Records: []domain.Record{{FirstName: "Ayşe", Raw: raw}},
	}, nil)

	rec := env.do(stdhttp.MethodGet, "/api/v1/data/entry", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"status":"COMPLETED","ad":"Ayşe","date_key":"2024-03-01","extra":1}]`, rec.Body.String())
}

func TestDashboardHandler_RawDataUnknownVariant(t *testing.T) {
	env := newTestEnv(t)
	env.dashboards.On("Snapshot", "payroll").Return(nil, apperrors.ErrVariantNotFound)

	rec := env.do(stdhttp.MethodGet, "/api/v1/data/payroll", "")

	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}
