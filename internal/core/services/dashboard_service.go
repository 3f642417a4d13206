package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/engine"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500

	reloadConcurrency = 4
)

// DashboardService keeps one snapshot per variant and serves filtered views
// of it. Snapshots are swapped atomically so queries never see a partial
// reload.
type DashboardService struct {
	source      ports.RecordSource
	broadcaster ports.EventBroadcaster
	cache       ports.AggregateCache
	cacheTTL    time.Duration

	variants  map[string]domain.Variant
	order     []string
	snapshots map[string]*atomic.Pointer[domain.Snapshot]
	version   atomic.Int64

	logger *slog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a dashboard service over the given variants.
// broadcaster may be nil.
func NewDashboardService(
	source ports.RecordSource,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
	variants ...domain.Variant,
) *DashboardService {
	s := &DashboardService{
		source:      source,
		broadcaster: broadcaster,
		variants:    make(map[string]domain.Variant, len(variants)),
		snapshots:   make(map[string]*atomic.Pointer[domain.Snapshot], len(variants)),
		logger:      logger.With("service", "dashboard"),
	}
	for _, v := range variants {
		if _, dup := s.variants[v.Name]; !dup {
			s.order = append(s.order, v.Name)
		}
		s.variants[v.Name] = v
		s.snapshots[v.Name] = &atomic.Pointer[domain.Snapshot]{}
	}
	return s
}

// WithCache enables summary caching. A nil cache disables it.
func (s *DashboardService) WithCache(cache ports.AggregateCache, ttl time.Duration) *DashboardService {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// Variants returns the configured variants in registration order.
func (s *DashboardService) Variants() []domain.Variant {
	out := make([]domain.Variant, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.variants[name])
	}
	return out
}

// Variant looks up a variant by name.
func (s *DashboardService) Variant(name string) (domain.Variant, error) {
	v, ok := s.variants[name]
	if !ok {
		return domain.Variant{}, apperrors.ErrVariantNotFound
	}
	return v, nil
}

// Reload fetches, normalizes and publishes a fresh snapshot. On failure the
// previous snapshot stays in place.
func (s *DashboardService) Reload(ctx context.Context, variant string) (*domain.Snapshot, error) {
	slot, ok := s.snapshots[variant]
	if !ok {
		return nil, apperrors.ErrVariantNotFound
	}

	start := time.Now()
	raw, err := s.source.Fetch(ctx, variant)
	if err != nil {
		s.logger.Error("failed to load records",
			"variant", variant,
			"source", s.source.Name(),
			"error", err,
		)
		s.broadcast(domain.Event{
			Type:      domain.EventReloadFailed,
			Variant:   variant,
			Message:   err.Error(),
			CreatedAt: time.Now().UTC(),
		})
		return nil, fmt.Errorf("reload %s: %w", variant, err)
	}

	records := engine.WithDateKey(engine.Normalize(raw))
	snap := &domain.Snapshot{
		Variant:     variant,
		Version:     s.version.Add(1),
		LoadedAt:    time.Now().UTC(),
		Source:      s.source.Name(),
		Fingerprint: domain.Fingerprint(raw),
		Records:     records,
	}
	slot.Store(snap)

	s.logger.Info("snapshot loaded",
		"variant", variant,
		"version", snap.Version,
		"fingerprint", snap.Fingerprint,
		"raw_records", len(raw),
		"records", len(records),
		"dropped", len(raw)-len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.broadcast(domain.NewSnapshotEvent(snap))
	return snap, nil
}

// ReloadAll reloads every variant concurrently and reports the first
// failure. A failing variant does not stop the others.
func (s *DashboardService) ReloadAll(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(reloadConcurrency)
	for _, name := range s.order {
		g.Go(func() error {
			_, err := s.Reload(ctx, name)
			return err
		})
	}
	return g.Wait()
}

// Snapshot returns the current snapshot of a variant.
func (s *DashboardService) Snapshot(variant string) (*domain.Snapshot, error) {
	slot, ok := s.snapshots[variant]
	if !ok {
		return nil, apperrors.ErrVariantNotFound
	}
	snap := slot.Load()
	if snap == nil {
		return nil, apperrors.ErrSnapshotNotLoaded
	}
	return snap, nil
}

// Summary aggregates the filtered view of a variant.
func (s *DashboardService) Summary(ctx context.Context, params ports.SummaryParams) (*domain.Summary, error) {
	v, snap, err := s.view(params.QueryParams)
	if err != nil {
		return nil, err
	}
	if params.TrendWindow != nil {
		v.TrendWindow = *params.TrendWindow
	}

	key := summaryKey(snap, v, params.Filter)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("summary cache read failed", "variant", v.Name, "error", err)
		} else if ok {
			// Another process may have stored it; report our own version.
			cached.Version = snap.Version
			return cached, nil
		}
	}

	filtered := engine.Apply(snap.Records, params.Filter, v.SearchFields)
	summary := &domain.Summary{
		Variant: v.Name,
		Version: snap.Version,
		Filter:  params.Filter,
		Matched: len(filtered),
		Total:   snap.Len(),
		Result:  engine.Aggregate(filtered, v),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("summary cache write failed", "variant", v.Name, "error", err)
		}
	}
	return summary, nil
}

// Records pages through the filtered view in source order.
func (s *DashboardService) Records(ctx context.Context, params ports.ListRecordsParams) (*domain.RecordPage, error) {
	v, snap, err := s.view(params.QueryParams)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := max(params.Offset, 0)

	filtered := engine.Apply(snap.Records, params.Filter, v.SearchFields)
	start := min(offset, len(filtered))
	end := min(start+limit, len(filtered))

	return &domain.RecordPage{
		Items:  filtered[start:end],
		Total:  len(filtered),
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Export lays out the filtered view for CSV download.
func (s *DashboardService) Export(ctx context.Context, params ports.QueryParams) (*domain.ExportTable, error) {
	v, snap, err := s.view(params)
	if err != nil {
		return nil, err
	}
	table := engine.ExportTable(engine.Apply(snap.Records, params.Filter, v.SearchFields))
	return &table, nil
}

// FilterOptions lists the dropdown values of the whole snapshot.
func (s *DashboardService) FilterOptions(ctx context.Context, variant string) (*domain.FilterOptions, error) {
	if _, err := s.Variant(variant); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(variant)
	if err != nil {
		return nil, err
	}
	opts := engine.Options(snap.Records)
	return &opts, nil
}

// view resolves the variant and snapshot of a query and checks its filter.
func (s *DashboardService) view(params ports.QueryParams) (domain.Variant, *domain.Snapshot, error) {
	v, err := s.Variant(params.Variant)
	if err != nil {
		return domain.Variant{}, nil, err
	}
	if err := params.Filter.Validate(); err != nil {
		return domain.Variant{}, nil, err
	}
	for _, c := range params.Filter.Constraints {
		if !v.HasFilterField(c.Field) {
			return domain.Variant{}, nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownFilterField, c.Field)
		}
	}
	snap, err := s.Snapshot(params.Variant)
	if err != nil {
		return domain.Variant{}, nil, err
	}
	return v, snap, nil
}

func (s *DashboardService) broadcast(event domain.Event) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("failed to broadcast event", "event_type", event.Type, "error", err)
	}
}

// summaryKey is shared by every process using the same cache, so it is
// built from the data and the variant settings, never from process state.
func summaryKey(snap *domain.Snapshot, v domain.Variant, filter domain.FilterSpec) string {
	settings, _ := json.Marshal(v)
	return "summary:" + v.Name +
		":d" + snap.Fingerprint +
		":c" + strconv.FormatUint(xxhash.Sum64(settings), 16) +
		":" + filter.CanonicalKey()
}
