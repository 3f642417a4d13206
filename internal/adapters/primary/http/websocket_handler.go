package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	wsAdapter "github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/websocket"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/infrastructure/logging"
)

// WebSocketHandler handles WebSocket connection upgrades
type WebSocketHandler struct {
	hub          *wsAdapter.Hub
	upgrader     websocket.Upgrader
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// WebSocketConfig holds configuration for the WebSocket handler
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	IsDevelopment   bool
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	cfg WebSocketConfig,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub:          hub,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "websocket"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg WebSocketConfig) func(r *http.Request) bool {
	allowedOrigins := cfg.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if cfg.IsDevelopment {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:]
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP upgrades the connection and joins the variant named by the
// ?variant query parameter, or every variant when it is absent.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	variants := h.hub.Variants()
	if name := r.URL.Query().Get("variant"); name != "" {
		if !h.hub.IsVariant(name) {
			h.errorHandler.Handle(w, r, apperrors.ErrVariantNotFound)
			return
		}
		variants = []string{name}
		ctx = logging.WithVariant(ctx, name)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error
		h.logger.WarnContext(ctx, "failed to upgrade websocket connection", "error", err)
		return
	}

	client := wsAdapter.NewClient(h.hub, conn, h.logger)
	if !h.hub.Join(client) {
		h.logger.WarnContext(ctx, "websocket hub stopped, closing connection")
		_ = conn.Close()
		return
	}
	for _, v := range variants {
		client.Subscribe(v)
	}

	h.logger.InfoContext(ctx, "websocket connection established",
		"client_id", client.ID,
		"variants", variants,
		"remote_addr", r.RemoteAddr,
	)

	go client.WritePump()
	go client.ReadPump()
}
