package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/engine"
)

// records parses a JSON array literal and normalizes it.
func records(t *testing.T, js string) []domain.Record {
	t.Helper()
	raw, err := domain.ParseRawRecords([]byte(js))
	require.NoError(t, err)
	return engine.Normalize(raw)
}
