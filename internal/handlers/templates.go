package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/scene-forge/internal/composer"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

type TemplateListResponse struct {
	Templates []string `json:"templates"`
}

// TemplatesHandler serves the list of loaded scene templates.
//
// Routes:
// GET /v1/templates - List template names
type TemplatesHandler struct {
	composer *composer.Composer
	logger   *slog.Logger
}

func NewTemplatesHandler(c *composer.Composer, logger *slog.Logger) *TemplatesHandler {
	return &TemplatesHandler{composer: c, logger: logger}
}

func (h *TemplatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for templates endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	response := TemplateListResponse{Templates: h.composer.TemplateNames()}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode template list", "error", err)
	}
}
