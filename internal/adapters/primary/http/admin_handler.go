package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
	"github.com/sgk-rpa/rpa-dashboard/internal/infrastructure/logging"
)

// AdminHandler triggers snapshot reloads. Routes must be mounted behind
// JWTMiddleware and RequireScope.
type AdminHandler struct {
	dashboards   ports.DashboardService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(dashboards ports.DashboardService, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		dashboards:   dashboards,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

// RegisterRoutes mounts the admin routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reload", h.HandleReloadAll)
	r.Post("/reload/{variant}", h.HandleReload)
}

// SnapshotDTO describes a loaded snapshot.
type SnapshotDTO struct {
	Variant  string    `json:"variant"`
	Version  int64     `json:"version"`
	Records  int       `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
}

func toSnapshotDTO(s *domain.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		Variant:  s.Variant,
		Version:  s.Version,
		Records:  s.Len(),
		Source:   s.Source,
		LoadedAt: s.LoadedAt,
	}
}

// HandleReload reloads one variant from its source.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	variant := chi.URLParam(r, "variant")
	ctx := logging.WithVariant(r.Context(), variant)
	r = r.WithContext(ctx)

	snap, err := h.dashboards.Reload(ctx, variant)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(ctx, "snapshot reloaded by operator",
		"version", snap.Version,
		"records", snap.Len(),
	)
	WriteJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

// HandleReloadAll reloads every variant. Variants that fail keep their
// previous snapshot.
func (h *AdminHandler) HandleReloadAll(w http.ResponseWriter, r *http.Request) {
	err := h.dashboards.ReloadAll(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	variants := h.dashboards.Variants()
	out := make([]SnapshotDTO, 0, len(variants))
	for _, v := range variants {
		if snap, err := h.dashboards.Snapshot(v.Name); err == nil {
			out = append(out, toSnapshotDTO(snap))
		}
	}
	h.logger.InfoContext(r.Context(), "all snapshots reloaded by operator", "variants", len(out))
	WriteList(w, out)
}
