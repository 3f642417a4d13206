package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	wsAdapter "github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/websocket"
	"github.com/sgk-rpa/rpa-dashboard/internal/auth"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/mocks"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

const testSecret = "test-secret-key-that-is-long-enough"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(context.Context) error { return s.err }

type testEnv struct {
	router     stdhttp.Handler
	dashboards *mocks.MockDashboardService
	assistant  *mocks.MockAssistantService
	tokens     *auth.TokenManager
	hub        *wsAdapter.Hub
}

type envOption func(*RouterDeps)

func withCheckers(checkers map[string]ports.HealthChecker) envOption {
	return func(d *RouterDeps) { d.HealthCheckers = checkers }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	hub := wsAdapter.NewHub(testLogger(), domain.VariantEntry, domain.VariantExit)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	env := &testEnv{
		dashboards: mocks.NewMockDashboardService(),
		assistant:  mocks.NewMockAssistantService(),
		tokens:     auth.NewTokenManager(testSecret, time.Hour),
		hub:        hub,
	}

	deps := RouterDeps{
		Dashboards:         env.dashboards,
		Assistant:          env.assistant,
		Hub:                hub,
		TokenManager:       env.tokens,
		Version:            "test",
		CORSAllowedOrigins: []string{"*"},
		CORSMaxAge:         300,
		WebSocket:          WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024},
		Logger:             testLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.router = NewRouter(deps)
	return env
}

func (e *testEnv) do(method, target, body string, header ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}
