package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/scene-forge/internal/composer"
	"github.com/jwebster45206/scene-forge/pkg/quality"
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// SceneHandler drives scene generation and the active-scene cache.
//
// Routes:
// POST /v1/scenes        - Generate a new scene
// GET /v1/scenes/{id}    - Read a cached scene
// PUT /v1/scenes/{id}    - Regenerate the scene under an existing id
// DELETE /v1/scenes/{id} - Drop a cached scene
type SceneHandler struct {
	composer *composer.Composer
	logger   *slog.Logger
}

func NewSceneHandler(c *composer.Composer, logger *slog.Logger) *SceneHandler {
	return &SceneHandler{composer: c, logger: logger}
}

func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/scenes")
	var sceneID uuid.UUID
	if idStr := strings.Trim(path, "/"); idStr != "" {
		var err error
		sceneID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid scene ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid scene ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleGenerate(w, r)

	case http.MethodGet:
		if sceneID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Scene ID is required for GET requests")
			return
		}
		h.handleRead(w, r, sceneID)

	case http.MethodPut:
		if sceneID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Scene ID is required for PUT requests")
			return
		}
		h.handleUpdate(w, r, sceneID)

	case http.MethodDelete:
		if sceneID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Scene ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, sceneID)

	default:
		h.logger.Warn("Method not allowed for scenes endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, PUT, DELETE")
	}
}

func decodeGenerateRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (composer.GenerateRequest, bool) {
	var req composer.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, logger, http.StatusBadRequest, "Invalid JSON in request body")
		return req, false
	}
	if req.Template == "" {
		writeError(w, logger, http.StatusBadRequest, "template field is required")
		return req, false
	}
	if req.Quality == "" {
		req.Quality = quality.Medium
	}
	return req, true
}

func (h *SceneHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGenerateRequest(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.composer.GenerateScene(r.Context(), req)
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	h.logger.Debug("Scene generated", "scene_id", result.Scene.ID, "template", req.Template)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode scene response", "error", err)
	}
}

func (h *SceneHandler) handleRead(w http.ResponseWriter, r *http.Request, sceneID uuid.UUID) {
	sc, err := h.composer.Scene(r.Context(), sceneID)
	if err != nil {
		if errors.Is(err, composer.ErrSceneNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Scene not found")
			return
		}
		h.logger.Error("Failed to load scene", "error", err, "scene_id", sceneID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load scene")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(sc); err != nil {
		h.logger.Error("Failed to encode scene response", "error", err)
	}
}

func (h *SceneHandler) handleUpdate(w http.ResponseWriter, r *http.Request, sceneID uuid.UUID) {
	req, ok := decodeGenerateRequest(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.composer.UpdateScene(r.Context(), sceneID, req)
	if err != nil {
		if errors.Is(err, composer.ErrSceneNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Scene not found")
			return
		}
		h.writeGenerateError(w, err)
		return
	}

	h.logger.Debug("Scene regenerated", "scene_id", sceneID, "template", req.Template)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("Failed to encode scene response", "error", err)
	}
}

func (h *SceneHandler) handleDelete(w http.ResponseWriter, r *http.Request, sceneID uuid.UUID) {
	if err := h.composer.DeleteScene(r.Context(), sceneID); err != nil {
		h.logger.Error("Failed to delete scene", "error", err, "scene_id", sceneID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete scene")
		return
	}
	h.logger.Debug("Scene deleted", "scene_id", sceneID)
	w.WriteHeader(http.StatusNoContent)
}

// writeGenerateError maps generation failures: bad caller input is 400,
// authored-content defects are 422, everything else is 500.
func (h *SceneHandler) writeGenerateError(w http.ResponseWriter, err error) {
	var structural *scene.StructuralError

	switch {
	case errors.Is(err, composer.ErrTemplateNotFound),
		errors.Is(err, quality.ErrUnknownTier):
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.As(err, &structural):
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Scene generation failed", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Scene generation failed")
	}
}
