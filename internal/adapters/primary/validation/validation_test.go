package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
)

func TestValidator(t *testing.T) {
	v := NewValidator().
		Required("question", "  ").
		MaxLength("note", strings.Repeat("ş", 5), 5).
		MaxLength("long", strings.Repeat("ğ", 6), 5).
		Range("trend", 400, 0, 365).
		DateKey("from", "2024-02-30").
		DateKey("to", "").
		OneOf("variant", "payroll", []string{"entry", "exit"}).
		Custom("ok", true, "never")

	require.True(t, v.HasErrors())
	errs := v.Errors().Errors
	assert.Contains(t, errs, "question")
	assert.NotContains(t, errs, "note")
	assert.Contains(t, errs, "long")
	assert.Contains(t, errs, "trend")
	assert.Contains(t, errs, "from")
	assert.NotContains(t, errs, "to")
	assert.Contains(t, errs, "variant")
	assert.NotContains(t, errs, "ok")
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 50, 0},
		{"explicit", "?limit=10&offset=20", 10, 20},
		{"capped", "?limit=5000", 500, 0},
		{"garbage", "?limit=abc&offset=-3", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/records"+tt.query, nil)
			p := ParsePagination(r, 50, 500)

			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestParseIntQueryParam(t *testing.T) {
	got, err := ParseIntQueryParam(httptest.NewRequest("GET", "/?trend=7", nil), "trend")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, *got)

	got, err = ParseIntQueryParam(httptest.NewRequest("GET", "/", nil), "trend")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseIntQueryParam(httptest.NewRequest("GET", "/?trend=-1", nil), "trend")
	var verrs *apperrors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.Errors, "trend")
}

func TestDecodeAndValidate(t *testing.T) {
	type body struct {
		Question string `json:"question"`
	}

	got, err := DecodeAndValidate[body](httptest.NewRequest("POST", "/", strings.NewReader(`{"question":"toplam"}`)))
	require.NoError(t, err)
	assert.Equal(t, "toplam", got.Question)

	_, err = DecodeAndValidate[body](httptest.NewRequest("POST", "/", strings.NewReader(`{`)))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}
