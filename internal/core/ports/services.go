package ports

import (
	"context"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

// QueryParams selects a filtered view of a variant.
type QueryParams struct {
	Variant string
	Filter  domain.FilterSpec
}

// SummaryParams defines the input for aggregating a filtered view.
type SummaryParams struct {
	QueryParams
	// TrendWindow overrides the variant's trend window when set; zero keeps
	// every day.
	TrendWindow *int
}

// ListRecordsParams defines the input for paging through a filtered view.
type ListRecordsParams struct {
	QueryParams
	Limit  int
	Offset int
}

// AskParams defines the input for an assistant question.
type AskParams struct {
	Scope    string
	Question string
}

// DashboardService owns the loaded snapshots and answers dashboard queries.
type DashboardService interface {
	Variants() []domain.Variant
	Variant(name string) (domain.Variant, error)

	Reload(ctx context.Context, variant string) (*domain.Snapshot, error)
	ReloadAll(ctx context.Context) error
	Snapshot(variant string) (*domain.Snapshot, error)

	Summary(ctx context.Context, params SummaryParams) (*domain.Summary, error)
	Records(ctx context.Context, params ListRecordsParams) (*domain.RecordPage, error)
	Export(ctx context.Context, params QueryParams) (*domain.ExportTable, error)
	FilterOptions(ctx context.Context, variant string) (*domain.FilterOptions, error)
}

// AssistantService answers natural-language questions about the data.
type AssistantService interface {
	Ask(ctx context.Context, params AskParams) (*domain.Answer, error)
}
