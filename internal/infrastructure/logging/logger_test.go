package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_AddsServiceAndContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "rpa-dashboard",
		Environment: "test",
	})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithOperator(ctx, "ops")
	ctx = WithVariant(ctx, "entry")
	logger.InfoContext(ctx, "snapshot loaded", "records", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "snapshot loaded", entry["msg"])
	assert.Equal(t, "rpa-dashboard", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "ops", entry["operator"])
	assert.Equal(t, "entry", entry["variant"])
	assert.EqualValues(t, 3, entry["records"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Format: "text", Output: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Format: "json", Output: &buf})

	ctx := WithVariant(context.Background(), "exit")
	LoggerFromContext(ctx, base).Info("reload")

	assert.Contains(t, buf.String(), `"variant":"exit"`)
	assert.Same(t, base, LoggerFromContext(context.Background(), base))
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestLogRequest_Level(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		want   string
		silent bool
	}{
		{"success", Request{Path: "/api/v1/variants", Status: 200}, "INFO", false},
		{"client error", Request{Path: "/api/v1/dashboards/x/summary", Status: 404}, "WARN", false},
		{"server error", Request{Path: "/api/v1/chat/entry", Status: 502}, "ERROR", false},
		{"health probe", Request{Path: "/health/live", Status: 200}, "", true},
		{"failing health probe", Request{Path: "/health/ready", Status: 503}, "ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Level: "info", Format: "json", Output: &buf})

			LogRequest(WithRequestID(context.Background(), "req-9"), logger, tt.req)

			if tt.silent {
				assert.Empty(t, buf.String())
				return
			}
			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.want, entry["level"])
			assert.Equal(t, tt.req.Path, entry["path"])
			assert.Equal(t, "req-9", entry["request_id"])
		})
	}
}
