package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/engine"
)

func TestExportTable(t *testing.T) {
	recs := records(t, `[
		{"ad":"Ayşe","status":"SUCCESS","duration_sec":12},
		{"ad":"Ali","departman":"ULU.Acil","note":null},
		{"soyad":"Kaya","ad":""}
	]`)

	table := engine.ExportTable(recs)

	assert.Equal(t, []string{
		"ad", "status", "duration_sec", "departman", "note", "soyad",
		"departman_clean", "pozisyon_clean",
	}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Ayşe", "COMPLETED", "12", "", "", "", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"Ali", "", "", "ULU.Acil", "", "", "Acil", ""}, table.Rows[1])
	assert.Equal(t, []string{"", "", "", "", "", "Kaya", "", ""}, table.Rows[2])
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Header))
	}
}

func TestExportTable_Empty(t *testing.T) {
	table := engine.ExportTable(nil)

	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
}
