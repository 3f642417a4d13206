package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/validation"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/services"
	"github.com/sgk-rpa/rpa-dashboard/internal/infrastructure/logging"
)

// MaxTrendWindow bounds the trend query parameter.
const MaxTrendWindow = 3660

// reservedParams are query parameters that are not field constraints.
var reservedParams = map[string]bool{
	"from": true, "to": true, "q": true, "trend": true,
	"limit": true, "offset": true, "format": true,
}

// DashboardHandler serves the read side of the dashboards.
type DashboardHandler struct {
	dashboards   ports.DashboardService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards ports.DashboardService, errorHandler *ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards:   dashboards,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes mounts the dashboard routes.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/variants", h.HandleListVariants)

	r.Route("/dashboards/{variant}", func(r chi.Router) {
		r.Get("/summary", h.HandleSummary)
		r.Get("/records", h.HandleRecords)
		r.Get("/export", h.HandleExport)
		r.Get("/options", h.HandleOptions)
	})

	r.Get("/data/{variant}", h.HandleRawData)
}

// VariantDTO describes a dashboard and the state of its snapshot.
type VariantDTO struct {
	domain.Variant
	Loaded   bool       `json:"loaded"`
	Version  int64      `json:"version,omitempty"`
	Records  int        `json:"records"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
}

// HandleListVariants lists the configured dashboards.
func (h *DashboardHandler) HandleListVariants(w http.ResponseWriter, r *http.Request) {
	variants := h.dashboards.Variants()
	out := make([]VariantDTO, 0, len(variants))
	for _, v := range variants {
		dto := VariantDTO{Variant: v}
		if snap, err := h.dashboards.Snapshot(v.Name); err == nil {
			loadedAt := snap.LoadedAt
			dto.Loaded = true
			dto.Version = snap.Version
			dto.Records = snap.Len()
			dto.LoadedAt = &loadedAt
		}
		out = append(out, dto)
	}
	WriteList(w, out)
}

// HandleSummary aggregates a filtered view.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	trend, err := validation.ParseIntQueryParam(r, "trend")
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if trend != nil {
		v := validation.NewValidator().Range("trend", *trend, 0, MaxTrendWindow)
		if v.HasErrors() {
			h.errorHandler.Handle(w, r, v.Errors())
			return
		}
	}

	summary, err := h.dashboards.Summary(r.Context(), ports.SummaryParams{
		QueryParams: query,
		TrendWindow: trend,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, summary)
}

// HandleRecords pages through a filtered view.
func (h *DashboardHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	page := validation.ParsePagination(r, services.DefaultPageSize, services.MaxPageSize)

	result, err := h.dashboards.Records(r.Context(), ports.ListRecordsParams{
		QueryParams: query,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WritePaginated(w, result.Items, result.Limit, result.Offset, int64(result.Total))
}

// HandleExport returns the filtered view as a table, or as CSV with
// ?format=csv.
func (h *DashboardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	table, err := h.dashboards.Export(r.Context(), query)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		filename := "rpa_" + query.Variant + "_" + time.Now().Format("20060102") + ".csv"
		if err := WriteCSV(w, filename, table.Header, table.Rows); err != nil {
			h.logger.WarnContext(r.Context(), "csv export interrupted", "error", err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, table)
}

// HandleOptions returns the filter dropdown values.
func (h *DashboardHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")

	options, err := h.dashboards.FilterOptions(r.Context(), variant)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, options)
}

// HandleRawData returns the loaded records as delivered by the source.
func (h *DashboardHandler) HandleRawData(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	ctx := logging.WithVariant(r.Context(), variant)

	snap, err := h.dashboards.Snapshot(variant)
	if HandleError(w, r.WithContext(ctx), err, h.errorHandler) {
		return
	}

	raw := make([]domain.RawRecord, 0, snap.Len())
	for i := range snap.Records {
		raw = append(raw, snap.Records[i].Raw)
	}
	WriteJSON(w, http.StatusOK, raw)
}

// parseQuery reads the variant from the path and the filter from the query
// string. Every non-reserved parameter becomes an equality constraint; the
// service rejects fields the variant does not filter on.
func parseQuery(r *http.Request) (ports.QueryParams, error) {
	values := r.URL.Query()

	v := validation.NewValidator().
		DateKey("from", values.Get("from")).
		DateKey("to", values.Get("to")).
		MaxLength("q", values.Get("q"), 200)
	if v.HasErrors() {
		return ports.QueryParams{}, v.Errors()
	}

	filter := domain.FilterSpec{
		From:  values.Get("from"),
		To:    values.Get("to"),
		Query: values.Get("q"),
	}

	fields := make([]string, 0, len(values))
	for field := range values {
		if !reservedParams[field] {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	for _, field := range fields {
		filter.Constraints = append(filter.Constraints, domain.Constraint{
			Field: field,
			Value: values.Get(field),
		})
	}

	return ports.QueryParams{
		Variant: chi.URLParam(r, "variant"),
		Filter:  filter,
	}, nil
}
