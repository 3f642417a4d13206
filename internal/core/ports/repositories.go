package ports

import (
	"context"
	"time"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
)

// RecordSource delivers the raw export of a dashboard variant.
type RecordSource interface {
	// Fetch returns the variant's export. Implementations return
	// apperrors.ErrNotArray when the stored document is not a JSON array.
	Fetch(ctx context.Context, variant string) ([]domain.RawRecord, error)
	// Name identifies the source in logs and snapshots.
	Name() string
}

// HealthChecker is implemented by sources backed by a remote store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AggregateCache stores computed summaries keyed by variant, snapshot
// version and filter.
type AggregateCache interface {
	Get(ctx context.Context, key string) (*domain.Summary, bool, error)
	Set(ctx context.Context, key string, summary *domain.Summary, ttl time.Duration) error
}

// LanguageModel completes a prompt. It backs the assistant when no
// deterministic answer exists.
type LanguageModel interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// EventBroadcaster fans events out to connected dashboards.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
