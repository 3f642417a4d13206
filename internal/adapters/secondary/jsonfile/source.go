// Package jsonfile serves robot exports from JSON array files on disk.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// Source reads one file per variant. Files are re-read on every Fetch so a
// reload picks up a replaced export.
type Source struct {
	paths map[string]string
}

var (
	_ ports.RecordSource  = (*Source)(nil)
	_ ports.HealthChecker = (*Source)(nil)
)

// NewSource maps variant names to file paths.
func NewSource(paths map[string]string) *Source {
	cp := make(map[string]string, len(paths))
	for k, v := range paths {
		cp[k] = v
	}
	return &Source{paths: cp}
}

// Name identifies the source.
func (s *Source) Name() string {
	return "jsonfile"
}

// Fetch reads and parses the variant's export file.
func (s *Source) Fetch(ctx context.Context, variant string) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := s.paths[variant]
	if !ok {
		return nil, fmt.Errorf("%w: no file configured for variant %s", apperrors.ErrSourceUnavailable, variant)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
	}

	records, err := domain.ParseRawRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Ping checks that every configured file is readable.
func (s *Source) Ping(ctx context.Context) error {
	variants := make([]string, 0, len(s.paths))
	for v := range s.paths {
		variants = append(variants, v)
	}
	sort.Strings(variants)

	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.Open(s.paths[v])
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrSourceUnavailable, err)
		}
		_ = f.Close()
	}
	return nil
}
