package http

import (
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

func TestChatHandler_Ask(t *testing.T) {
	env := newTestEnv(t)
	env.assistant.On("Ask", mock.Anything, ports.AskParams{
		Scope:    domain.VariantEntry,
		Question: "En çok hata hangi işyerinde?",
	}).Return(&domain.Answer{
		Scope: domain.VariantEntry,
		Text:  "En çok hata Uludağ işyerinde (4 kayıt).",
	}, nil)

	rec := env.do(stdhttp.MethodPost, "/api/v1/chat/entry",
		`{"question":"En çok hata hangi işyerinde?"}`, "Content-Type", "application/json")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := decode[domain.Answer](t, rec)
	assert.Equal(t, "En çok hata Uludağ işyerinde (4 kayıt).", body.Text)
	assert.False(t, body.UsedModel)
	env.assistant.AssertExpectations(t)
}

func TestChatHandler_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed body", `{"question":`, stdhttp.StatusBadRequest},
		{"missing question", `{}`, stdhttp.StatusUnprocessableEntity},
		{"too long", `{"question":"` + strings.Repeat("ş", MaxQuestionLength+1) + `"}`, stdhttp.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(stdhttp.MethodPost, "/api/v1/chat/entry", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env.assistant.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
		})
	}
}

func TestChatHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown scope", apperrors.ErrVariantNotFound, stdhttp.StatusNotFound},
		{"not loaded", apperrors.ErrSnapshotNotLoaded, stdhttp.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.assistant.On("Ask", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := env.do(stdhttp.MethodPost, "/api/v1/chat/payroll", `{"question":"kaç kayıt var?"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
