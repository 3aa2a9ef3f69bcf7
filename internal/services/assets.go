package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Texture is a resolvable texture asset reference.
type Texture struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// Model is a resolvable 3D model asset reference.
type Model struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Style string    `json:"style,omitempty"`
}

// AssetResolver resolves asset type tags to concrete asset references.
// A (nil, nil) return means no asset of that type is registered; callers
// fall back or substitute a placeholder, they do not fail generation.
type AssetResolver interface {
	GetTexture(ctx context.Context, textureType string) (*Texture, error)
	GetModel(ctx context.Context, modelType, style string) (*Model, error)
}

// registryFile is the on-disk shape of dataDir/assets/registry.json.
type registryFile struct {
	Textures []Texture `json:"textures"`
	Models   []Model   `json:"models"`
}

// FileAssetRegistry is a JSON-backed asset registry loaded once at startup.
type FileAssetRegistry struct {
	textures map[string]*Texture
	models   []Model
	logger   *slog.Logger
}

var _ AssetResolver = (*FileAssetRegistry)(nil)

// NewFileAssetRegistry loads the registry file. A missing or unreadable
// registry leaves the resolver empty; every lookup then misses, which
// callers already tolerate.
func NewFileAssetRegistry(dataDir string, logger *slog.Logger) *FileAssetRegistry {
	r := &FileAssetRegistry{
		textures: make(map[string]*Texture),
		logger:   logger,
	}

	path := filepath.Join(dataDir, "assets", "registry.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Failed to read asset registry", "path", path, "error", err)
		}
		return r
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		logger.Error("Failed to unmarshal asset registry", "path", path, "error", err)
		return r
	}

	for i := range file.Textures {
		t := file.Textures[i]
		r.textures[t.Type] = &t
	}
	r.models = file.Models
	logger.Info("Loaded asset registry", "textures", len(r.textures), "models", len(r.models))
	return r
}

func (r *FileAssetRegistry) GetTexture(ctx context.Context, textureType string) (*Texture, error) {
	return r.textures[textureType], nil
}

// GetModel prefers a style-matched model, falling back to the first model of
// the requested type.
func (r *FileAssetRegistry) GetModel(ctx context.Context, modelType, style string) (*Model, error) {
	var typeMatch *Model
	for i := range r.models {
		m := &r.models[i]
		if m.Type != modelType {
			continue
		}
		if m.Style == style {
			return m, nil
		}
		if typeMatch == nil {
			typeMatch = m
		}
	}
	return typeMatch, nil
}

// MockAssetResolver is an in-memory AssetResolver for tests.
type MockAssetResolver struct {
	Textures map[string]*Texture
	Models   map[string]*Model // keyed by type
	Err      error
}

var _ AssetResolver = (*MockAssetResolver)(nil)

// NewMockAssetResolver creates an empty mock resolver.
func NewMockAssetResolver() *MockAssetResolver {
	return &MockAssetResolver{
		Textures: make(map[string]*Texture),
		Models:   make(map[string]*Model),
	}
}

// AddTexture registers a texture under the given type tag with a fresh id.
func (m *MockAssetResolver) AddTexture(textureType string) *Texture {
	t := &Texture{ID: uuid.New(), Name: textureType, Type: textureType}
	m.Textures[textureType] = t
	return t
}

// AddModel registers a model under the given type tag with a fresh id.
func (m *MockAssetResolver) AddModel(modelType string) *Model {
	mdl := &Model{ID: uuid.New(), Name: fmt.Sprintf("%s_model", modelType), Type: modelType}
	m.Models[modelType] = mdl
	return mdl
}

func (m *MockAssetResolver) GetTexture(ctx context.Context, textureType string) (*Texture, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Textures[textureType], nil
}

func (m *MockAssetResolver) GetModel(ctx context.Context, modelType, style string) (*Model, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Models[modelType], nil
}
