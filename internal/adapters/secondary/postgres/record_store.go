package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

const (
	queryImport = `SELECT record_count FROM rpa_imports WHERE variant = $1`

	queryRecords = `SELECT payload::text FROM rpa_records WHERE variant = $1 ORDER BY position`

	upsertImport = `
INSERT INTO rpa_imports (variant, source, record_count, imported_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (variant) DO UPDATE
SET source = EXCLUDED.source, record_count = EXCLUDED.record_count, imported_at = EXCLUDED.imported_at`

	deleteRecords = `DELETE FROM rpa_records WHERE variant = $1`
)

// ImportInfo describes the latest import of a variant.
type ImportInfo struct {
	Variant     string
	Source      string
	RecordCount int
	ImportedAt  time.Time
}

// RecordStore keeps the raw exports in PostgreSQL and serves them as a
// record source.
type RecordStore struct {
	pool *pgxpool.Pool
}

var (
	_ ports.RecordSource  = (*RecordStore)(nil)
	_ ports.HealthChecker = (*RecordStore)(nil)
)

// NewRecordStore creates a new record store.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Name identifies the source.
func (s *RecordStore) Name() string {
	return "postgres"
}

// Ping checks database connectivity.
func (s *RecordStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Fetch returns the records of the latest import in their original order.
// A variant that was never imported is unavailable; one imported empty is
// an empty dataset.
func (s *RecordStore) Fetch(ctx context.Context, variant string) ([]domain.RawRecord, error) {
	var out []domain.RawRecord

	err := withTx(ctx, s.pool, readOnly, func(tx DBTX) error {
		var count int
		if err := tx.QueryRow(ctx, queryImport, variant).Scan(&count); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: variant %s has not been imported", apperrors.ErrSourceUnavailable, variant)
			}
			return fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
		}

		rows, err := tx.Query(ctx, queryRecords, variant)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
		}
		defer rows.Close()

		out = make([]domain.RawRecord, 0, count)
		for rows.Next() {
			var payload string
			if err := rows.Scan(&payload); err != nil {
				return err
			}
			rec, err := domain.ParseRawRecord([]byte(payload))
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Import replaces the stored records of a variant atomically.
func (s *RecordStore) Import(ctx context.Context, variant, source string, records []domain.RawRecord) (*ImportInfo, error) {
	info := &ImportInfo{
		Variant:     variant,
		Source:      source,
		RecordCount: len(records),
		ImportedAt:  time.Now().UTC(),
	}

	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		payload, err := rec.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
		rows = append(rows, []any{variant, i, string(payload)})
	}

	err := withTx(ctx, s.pool, pgx.TxOptions{}, func(tx DBTX) error {
		if _, err := tx.Exec(ctx, upsertImport, info.Variant, info.Source, info.RecordCount, info.ImportedAt); err != nil {
			return fmt.Errorf("record import: %w", err)
		}
		if _, err := tx.Exec(ctx, deleteRecords, variant); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"rpa_records"},
			[]string{"variant", "position", "payload"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}
