package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/validation"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// MaxQuestionLength bounds assistant questions in characters.
const MaxQuestionLength = 1000

// ChatHandler serves the assistant.
type ChatHandler struct {
	assistant    ports.AssistantService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant ports.AssistantService, errorHandler *ErrorHandler, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		assistant:    assistant,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "chat"),
	}
}

// RegisterRoutes mounts the chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{scope}", h.HandleAsk)
}

// AskRequest is the body of a chat question.
type AskRequest struct {
	Question string `json:"question"`
}

// Validate checks the request.
func (req *AskRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("question", req.Question).
		MaxLength("question", req.Question, MaxQuestionLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleAsk answers one question about a dashboard scope.
func (h *ChatHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[AskRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if HandleError(w, r, req.Validate(), h.errorHandler) {
		return
	}

	answer, err := h.assistant.Ask(r.Context(), ports.AskParams{
		Scope:    chi.URLParam(r, "scope"),
		Question: req.Question,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if answer.ModelError != "" {
		h.logger.WarnContext(r.Context(), "assistant answered without model",
			"scope", answer.Scope,
			"model_error", answer.ModelError,
		)
	}
	WriteJSON(w, http.StatusOK, answer)
}
