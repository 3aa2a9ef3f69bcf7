package composer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/scene-forge/internal/services"
	"github.com/jwebster45206/scene-forge/internal/storage"
	"github.com/jwebster45206/scene-forge/pkg/animation"
	"github.com/jwebster45206/scene-forge/pkg/quality"
	"github.com/jwebster45206/scene-forge/pkg/scene"
	"github.com/jwebster45206/scene-forge/pkg/template"
)

var (
	// ErrTemplateNotFound is returned when the requested template does not
	// resolve. Unlike a missing pattern, a missing template fails the whole
	// generation.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrSceneNotFound is returned by update/get for an id with no cached
	// scene.
	ErrSceneNotFound = errors.New("scene not found")
)

// Options tunes the procedural layers of scene generation.
type Options struct {
	// MossRadius is the minimum mutual distance between moss patches.
	MossRadius float64
	// MossBudget bounds the number of scattered moss patches.
	MossBudget int
	// PoissonAttempts is the candidate budget per active point.
	PoissonAttempts int
}

// DefaultOptions returns the standard scatter tuning.
func DefaultOptions() Options {
	return Options{
		MossRadius:      2.0,
		MossBudget:      100,
		PoissonAttempts: 30,
	}
}

// GenerateRequest asks for a scene to be composed for a location.
type GenerateRequest struct {
	LocationID uuid.UUID `json:"location_id"`
	Template   string    `json:"template"`
	Quality    string    `json:"quality"`

	// Seed drives the procedural layers. Zero means time-seeded.
	Seed int64 `json:"seed,omitempty"`
}

// GenerateResult is the composed scene plus every distinct asset identifier
// the caller must resolve before rendering.
type GenerateResult struct {
	Scene          *scene.SceneDefinition `json:"scene"`
	RequiredAssets []string               `json:"required_assets"`
}

// Composer orchestrates scene generation: template resolution, pattern
// application, location layering, quality settings, asset collection, and
// caching of the finished scene.
//
// The template store and quality presets are read-only after startup, so a
// single Composer is safe for concurrent generation requests.
type Composer struct {
	templates *template.Store
	location  services.LocationProvider
	assets    services.AssetResolver
	scenes    storage.SceneStore
	presets   quality.Presets
	opts      Options
	logger    *slog.Logger

	// mu serializes update against delete. UpdateScene reads then writes the
	// cache entry; the store only locks per operation, so without this a
	// delete landing between the load and the save would be overwritten by
	// the save, resurrecting the scene.
	mu sync.Mutex
}

// New creates a Composer over its collaborators.
func New(
	templates *template.Store,
	location services.LocationProvider,
	assets services.AssetResolver,
	scenes storage.SceneStore,
	presets quality.Presets,
	opts Options,
	logger *slog.Logger,
) *Composer {
	return &Composer{
		templates: templates,
		location:  location,
		assets:    assets,
		scenes:    scenes,
		presets:   presets,
		opts:      opts,
		logger:    logger,
	}
}

// GenerateScene composes a new scene and caches it under a fresh scene id.
func (c *Composer) GenerateScene(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	return c.generate(ctx, req, uuid.New(), time.Now())
}

// UpdateScene regenerates the scene cached under id, replacing the cached
// entry. The scene keeps its id and creation time; everything else is
// rebuilt from the request.
func (c *Composer) UpdateScene(ctx context.Context, id uuid.UUID, req GenerateRequest) (*GenerateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.scenes.LoadScene(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	return c.generate(ctx, req, id, existing.CreatedAt)
}

// Scene returns the cached scene under id.
func (c *Composer) Scene(ctx context.Context, id uuid.UUID) (*scene.SceneDefinition, error) {
	sc, err := c.scenes.LoadScene(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, id)
	}
	return sc, nil
}

// DeleteScene drops the cached scene under id. A delete never runs inside an
// update's read-then-write window; once it returns, the entry stays gone.
func (c *Composer) DeleteScene(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenes.DeleteScene(ctx, id)
}

// TemplateNames lists the loaded template names.
func (c *Composer) TemplateNames() []string {
	return c.templates.Names()
}

func (c *Composer) generate(ctx context.Context, req GenerateRequest, id uuid.UUID, createdAt time.Time) (*GenerateResult, error) {
	tmpl, err := c.templates.Get(req.Template)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, req.Template)
	}

	settings, err := c.presets.Get(req.Quality)
	if err != nil {
		return nil, err
	}

	cam, err := decodeCamera(tmpl.Camera)
	if err != nil {
		return nil, fmt.Errorf("template %q camera: %w", req.Template, err)
	}

	sc := &scene.SceneDefinition{
		ID:         id,
		LocationID: req.LocationID,
		Template:   req.Template,
		Quality:    req.Quality,
		Camera:     cam,
		CreatedAt:  createdAt,
	}
	if err := decodeInto(tmpl.Lights, &sc.Lights); err != nil {
		return nil, fmt.Errorf("template %q lights: %w", req.Template, err)
	}
	if err := decodeInto(tmpl.Environment, &sc.Environment); err != nil {
		return nil, fmt.Errorf("template %q environment: %w", req.Template, err)
	}

	for _, inv := range tmpl.Patterns {
		c.templates.ApplyPattern(sc, inv.Name, inv.Parameters)
	}

	b := &build{
		c:    c,
		sc:   sc,
		rng:  rand.New(rand.NewSource(seedFor(req))),
		used: make(map[string]bool),
	}
	for i := range sc.Objects {
		b.used[sc.Objects[i].Name] = true
	}

	for _, spec := range tmpl.Objects {
		obj, err := decodeObjectSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("template %q object: %w", req.Template, err)
		}
		b.add(*obj)
	}

	if err := b.addTemplateAnimations(tmpl.Animations); err != nil {
		return nil, err
	}

	loc, err := c.location.GetLocationData(ctx, req.LocationID)
	if err != nil {
		// Location trouble degrades generation, it does not abort it.
		c.logger.Warn("Failed to fetch location data", "location_id", req.LocationID, "error", err)
		loc = nil
	}
	if loc == nil {
		c.logger.Warn("No location data, generating from template only", "location_id", req.LocationID)
	} else {
		if err := b.addLocationLayers(ctx, loc); err != nil {
			return nil, err
		}
	}

	applyQuality(sc, settings)

	if err := c.scenes.SaveScene(ctx, id, sc); err != nil {
		return nil, err
	}

	return &GenerateResult{
		Scene:          sc,
		RequiredAssets: collectAssets(sc),
	}, nil
}

func seedFor(req GenerateRequest) int64 {
	if req.Seed != 0 {
		return req.Seed
	}
	return time.Now().UnixNano()
}

// addTemplateAnimations registers template-declared sequences and chains and
// attaches them to the scene. Registration validates fail-fast: an undefined
// transition target or a chain referencing an unregistered sequence aborts
// generation here rather than surfacing at playback.
func (b *build) addTemplateAnimations(specs []map[string]any) error {
	sys := animation.NewSystem()

	for _, spec := range specs {
		var att scene.AnimationAttachment
		if err := decodeInto(spec, &att); err != nil {
			return fmt.Errorf("animation attachment: %w", err)
		}
		if att.Target == "" {
			att.Target = "scene"
		}

		switch {
		case att.Type == "sequence" && att.Sequence != nil:
			registered, err := sys.CreateSequence(*att.Sequence)
			if err != nil {
				return err
			}
			att.Sequence = registered
			b.sc.Animations = append(b.sc.Animations, att)
		case att.Type == "chain" && att.Chain != nil:
			registered, err := sys.CreateChain(*att.Chain)
			if err != nil {
				return err
			}
			att.Chain = registered
			b.sc.Animations = append(b.sc.Animations, att)
		default:
			b.c.logger.Warn("Skipping malformed animation attachment", "type", att.Type)
		}
	}
	return nil
}

// applyQuality pushes tier settings onto shadow-casting light types and
// appends the tier's post-processing effects. Effects added by earlier layers
// (particles, volumetric light) are kept.
func applyQuality(sc *scene.SceneDefinition, settings quality.Settings) {
	for i := range sc.Lights {
		switch sc.Lights[i].Type {
		case scene.LightDirectional, scene.LightSpot:
			sc.Lights[i].CastShadow = settings.Shadows
			sc.Lights[i].ShadowMapSize = settings.ShadowMapSize
		}
	}

	if settings.AmbientOcclusion {
		sc.PostProcessing = append(sc.PostProcessing, scene.PostProcessingEffect{
			Type:       "ssao",
			Parameters: map[string]any{"radius": 4.0, "intensity": 1.5},
		})
	}
	if settings.Bloom {
		sc.PostProcessing = append(sc.PostProcessing, scene.PostProcessingEffect{
			Type:       "bloom",
			Parameters: map[string]any{"intensity": 1.0, "threshold": 0.85},
		})
	}
}

// collectAssets gathers every distinct asset identifier referenced by the
// scene: object models, material texture maps, and the skybox map. Sorted
// for deterministic output.
func collectAssets(sc *scene.SceneDefinition) []string {
	seen := make(map[string]bool)

	for i := range sc.Objects {
		obj := &sc.Objects[i]
		if obj.ModelID != "" {
			seen[obj.ModelID] = true
		}
		if m := obj.Material; m != nil {
			for _, id := range []string{m.Map, m.NormalMap, m.RoughnessMap} {
				if id != "" {
					seen[id] = true
				}
			}
		}
	}
	if mapID, ok := sc.Environment.Skybox["map_id"].(string); ok && mapID != "" {
		seen[mapID] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// decodeCamera binds a template camera spec over renderer defaults.
func decodeCamera(spec map[string]any) (scene.CameraDefinition, error) {
	cam := scene.CameraDefinition{
		Type:     "perspective",
		Position: scene.Vector3{Y: 5, Z: 10},
		FOV:      75,
		Near:     0.1,
		Far:      1000,
	}
	if len(spec) > 0 {
		// Unmarshal over the prefilled struct so absent keys keep defaults.
		if err := decodeInto(spec, &cam); err != nil {
			return scene.CameraDefinition{}, err
		}
	}
	return cam, nil
}

// decodeInto round-trips a decoded-JSON value into a typed destination.
func decodeInto(spec, dst any) error {
	data, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func decodeObjectSpec(spec map[string]any) (*scene.ObjectDefinition, error) {
	var obj scene.ObjectDefinition
	if err := decodeInto(spec, &obj); err != nil {
		return nil, err
	}
	if obj.Scale == (scene.Vector3{}) {
		obj.Scale = scene.UnitScale()
	}
	return &obj, nil
}
