package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func messagesServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewAnthropic_RequiresKey(t *testing.T) {
	_, err := NewAnthropic(Config{}, testLogger())
	assert.Error(t, err)
}

func TestAnthropic_Complete(t *testing.T) {
	var req map[string]any
	srv := messagesServer(t, http.StatusOK, `{
		"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5",
		"content":[{"type":"text","text":"Toplam 3 kayıt var."}],
		"stop_reason":"end_turn","usage":{"input_tokens":12,"output_tokens":5}
	}`, &req)

	model, err := NewAnthropic(Config{APIKey: "test-key", BaseURL: srv.URL, MaxTokens: 100}, testLogger())
	require.NoError(t, err)

	got, err := model.Complete(context.Background(), "sistem", "Soru: toplam?")
	require.NoError(t, err)
	assert.Equal(t, "Toplam 3 kayıt var.", got)

	assert.Equal(t, DefaultModel, req["model"])
	assert.EqualValues(t, 100, req["max_tokens"])
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
}

func TestAnthropic_NoTextBlock(t *testing.T) {
	srv := messagesServer(t, http.StatusOK, `{
		"id":"msg_2","type":"message","role":"assistant","model":"claude-sonnet-4-5",
		"content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}
	}`, nil)

	model, err := NewAnthropic(Config{APIKey: "test-key", BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = model.Complete(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAnthropic_APIError(t *testing.T) {
	srv := messagesServer(t, http.StatusBadRequest,
		`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`, nil)

	model, err := NewAnthropic(Config{APIKey: "test-key", BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	_, err = model.Complete(context.Background(), "s", "p")
	assert.Error(t, err)
}
