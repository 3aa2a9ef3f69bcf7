package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/scene-forge/internal/composer"
	"github.com/jwebster45206/scene-forge/internal/services"
	"github.com/jwebster45206/scene-forge/internal/storage"
	"github.com/jwebster45206/scene-forge/pkg/quality"
	"github.com/jwebster45206/scene-forge/pkg/scene"
	"github.com/jwebster45206/scene-forge/pkg/template"
	"github.com/jwebster45206/scene-forge/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testComposer(t *testing.T) (*composer.Composer, *services.MockLocationProvider, *storage.MockStore) {
	t.Helper()

	dir := t.TempDir()
	tmpl := `{
		"name": "dungeon_room",
		"lights": [{"type": "ambient", "intensity": 0.4}],
		"objects": [{"name": "altar", "geometry": {"type": "BoxGeometry", "parameters": [1, 1, 1]}}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dungeon_room.json"), []byte(tmpl), 0o644))

	location := services.NewMockLocationProvider()
	scenes := storage.NewMockStore()
	c := composer.New(
		template.NewStore(dir, testLogger()),
		location,
		services.NewMockAssetResolver(),
		scenes,
		quality.Defaults(),
		composer.DefaultOptions(),
		testLogger(),
	)
	return c, location, scenes
}

func generateScene(t *testing.T, h *SceneHandler, body string) composer.GenerateResult {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/scenes", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result composer.GenerateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestSceneHandler_Generate(t *testing.T) {
	c, location, _ := testComposer(t)
	locID := uuid.New()
	location.Locations[locID] = &world.LocationData{
		Type: "dungeon",
		Size: world.Size{Width: 10, Length: 10},
	}
	h := NewSceneHandler(c, testLogger())

	body := `{"location_id": "` + locID.String() + `", "template": "dungeon_room", "quality": "high", "seed": 5}`
	result := generateScene(t, h, body)

	assert.NotEqual(t, uuid.Nil, result.Scene.ID)
	assert.Equal(t, "dungeon_room", result.Scene.Template)
	assert.True(t, result.Scene.HasObject("ground"))
	assert.NotNil(t, result.Scene.Environment.Fog)
}

func TestSceneHandler_Generate_DefaultsQuality(t *testing.T) {
	c, _, _ := testComposer(t)
	h := NewSceneHandler(c, testLogger())

	result := generateScene(t, h, `{"template": "dungeon_room"}`)
	assert.Equal(t, quality.Medium, result.Scene.Quality)
}

func TestSceneHandler_Generate_BadRequests(t *testing.T) {
	c, _, _ := testComposer(t)
	h := NewSceneHandler(c, testLogger())

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{not json`, http.StatusBadRequest},
		{"missing template", `{"quality": "low"}`, http.StatusBadRequest},
		{"unknown template", `{"template": "throne_room"}`, http.StatusBadRequest},
		{"unknown tier", `{"template": "dungeon_room", "quality": "cinematic"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/scenes", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSceneHandler_ReadUpdateDelete(t *testing.T) {
	c, _, _ := testComposer(t)
	h := NewSceneHandler(c, testLogger())

	created := generateScene(t, h, `{"template": "dungeon_room", "quality": "low"}`)
	id := created.Scene.ID.String()

	// Read.
	req := httptest.NewRequest(http.MethodGet, "/v1/scenes/"+id, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded scene.SceneDefinition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, created.Scene.ID, loaded.ID)

	// Update keeps the id, changes the tier.
	req = httptest.NewRequest(http.MethodPut, "/v1/scenes/"+id,
		bytes.NewBufferString(`{"template": "dungeon_room", "quality": "ultra"}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var updated composer.GenerateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.Scene.ID, updated.Scene.ID)
	assert.Equal(t, quality.Ultra, updated.Scene.Quality)

	// Delete.
	req = httptest.NewRequest(http.MethodDelete, "/v1/scenes/"+id, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/scenes/"+id, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSceneHandler_PathErrors(t *testing.T) {
	c, _, _ := testComposer(t)
	h := NewSceneHandler(c, testLogger())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"invalid id", http.MethodGet, "/v1/scenes/not-a-uuid", http.StatusBadRequest},
		{"get without id", http.MethodGet, "/v1/scenes", http.StatusBadRequest},
		{"put without id", http.MethodPut, "/v1/scenes", http.StatusBadRequest},
		{"delete without id", http.MethodDelete, "/v1/scenes", http.StatusBadRequest},
		{"patch not allowed", http.MethodPatch, "/v1/scenes", http.StatusMethodNotAllowed},
		{"unknown scene", http.MethodGet, "/v1/scenes/" + uuid.NewString(), http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestSceneHandler_UpdateMissing(t *testing.T) {
	c, _, _ := testComposer(t)
	h := NewSceneHandler(c, testLogger())

	req := httptest.NewRequest(http.MethodPut, "/v1/scenes/"+uuid.NewString(),
		bytes.NewBufferString(`{"template": "dungeon_room", "quality": "low"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTemplatesHandler(t *testing.T) {
	c, _, _ := testComposer(t)
	h := NewTemplatesHandler(c, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/templates", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TemplateListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"dungeon_room"}, resp.Templates)

	req = httptest.NewRequest(http.MethodPost, "/v1/templates", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthHandler(t *testing.T) {
	store := storage.NewMockStore()
	h := NewHealthHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "scene-forge", resp.Service)
	assert.Equal(t, "healthy", resp.Components["scene_cache"])

	store.PingErr = context.DeadlineExceeded
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
