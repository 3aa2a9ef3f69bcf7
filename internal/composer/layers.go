package composer

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jwebster45206/scene-forge/pkg/scene"
	"github.com/jwebster45206/scene-forge/pkg/spatial"
	"github.com/jwebster45206/scene-forge/pkg/world"
)

// build is the per-request generation state: the scene under construction,
// the seeded RNG, and the name registry that keeps generated instance names
// from colliding with template-supplied ones.
type build struct {
	c    *Composer
	sc   *scene.SceneDefinition
	rng  *rand.Rand
	used map[string]bool

	wallCount   int
	pillarCount int
}

// add appends an object, renaming it with a numeric suffix if its name is
// already taken. Object names are unique within one scene.
func (b *build) add(obj scene.ObjectDefinition) {
	base := obj.Name
	for n := 2; b.used[obj.Name]; n++ {
		obj.Name = fmt.Sprintf("%s_%d", base, n)
	}
	b.used[obj.Name] = true
	b.sc.Objects = append(b.sc.Objects, obj)
}

// addLocationLayers populates the scene from location data in a fixed order.
// Later layers may reference earlier ones (torch lights follow torch
// placement), so the order is part of the output contract.
func (b *build) addLocationLayers(ctx context.Context, loc *world.LocationData) error {
	b.addTerrain(ctx, loc)
	b.addArchitecture(loc)
	if err := b.addDecorations(ctx, loc); err != nil {
		return err
	}
	if err := b.addInteractiveObjects(ctx, loc); err != nil {
		return err
	}
	b.addAmbientLife(loc)
	b.addEnvironmentEffects(loc)
	return nil
}

func (b *build) addTerrain(ctx context.Context, loc *world.LocationData) {
	width, length := loc.Size.Width, loc.Size.Length
	if width <= 0 {
		width = 50
	}
	if length <= 0 {
		length = 50
	}
	roughness := loc.Terrain.Roughness
	if roughness == 0 {
		roughness = 0.8
	}

	b.add(scene.ObjectDefinition{
		Name: "ground",
		Geometry: &scene.GeometryDefinition{
			Type:       scene.GeometryPlane,
			Parameters: []float64{width, length},
		},
		Material: &scene.MaterialDefinition{
			Type:      scene.MaterialStandard,
			Color:     "#808080",
			Roughness: roughness,
			Metalness: 0.1,
		},
		Rotation:      scene.Vector3{X: -math.Pi / 2},
		Scale:         scene.UnitScale(),
		ReceiveShadow: true,
	})

	for _, feature := range loc.Terrain.Features {
		switch feature {
		case "cracks":
			b.addTerrainCracks(ctx, width, length)
		case "moss":
			b.addTerrainMoss(ctx, width, length)
		}
	}
}

// addTerrainCracks scatters crack decals over the ground, one per 25 square
// units, each randomly rotated and scaled.
func (b *build) addTerrainCracks(ctx context.Context, width, length float64) {
	material := scene.MaterialDefinition{
		Type:         scene.MaterialStandard,
		Color:        "#505050",
		Roughness:    1.0,
		Opacity:      ptr(0.8),
		Transparent:  true,
		Map:          b.textureID(ctx, "terrain_cracks"),
		NormalMap:    b.textureID(ctx, "terrain_cracks_normal"),
		RoughnessMap: b.textureID(ctx, "terrain_cracks_roughness"),
	}

	count := int(width * length / 25)
	for i := 0; i < count; i++ {
		x := b.rng.Float64()*width - width/2
		z := b.rng.Float64()*length - length/2
		yaw := b.rng.Float64() * 2 * math.Pi
		size := 2 * (0.8 + b.rng.Float64()*0.7)

		mat := material
		b.add(scene.ObjectDefinition{
			Name: fmt.Sprintf("crack_decal_%d", i),
			Geometry: &scene.GeometryDefinition{
				Type:       scene.GeometryPlane,
				Parameters: []float64{size, size},
			},
			Material:      &mat,
			Position:      scene.Vector3{X: x, Y: 0.01, Z: z},
			Rotation:      scene.Vector3{X: -math.Pi / 2, Y: yaw},
			Scale:         scene.UnitScale(),
			ReceiveShadow: true,
			// Decals render after the ground plane.
			RenderOrder: 1,
		})
	}
}

// addTerrainMoss scatters moss patches as a single instanced mesh. Patch
// positions come from Poisson-disk sampling so no two patches crowd each
// other.
func (b *build) addTerrainMoss(ctx context.Context, width, length float64) {
	points := spatial.SampleDisk(b.rng, width, length, spatial.DiskOptions{
		Radius:    b.c.opts.MossRadius,
		MaxPoints: b.c.opts.MossBudget,
		Attempts:  b.c.opts.PoissonAttempts,
	})
	if len(points) == 0 {
		return
	}

	instances := &scene.InstanceData{
		Positions: make([]scene.Vector3, len(points)),
		Rotations: make([]scene.Vector3, len(points)),
		Scales:    make([]scene.Vector3, len(points)),
	}
	for i, p := range points {
		instances.Positions[i] = scene.Vector3{X: p.X, Z: p.Z}
		instances.Rotations[i] = scene.Vector3{Y: b.rng.Float64() * 2 * math.Pi}
		s := 0.5 + b.rng.Float64()
		instances.Scales[i] = scene.Vector3{X: s, Y: s, Z: s}
	}

	b.add(scene.ObjectDefinition{
		Name: "moss_patches",
		Geometry: &scene.GeometryDefinition{
			Type: scene.GeometryInstanced,
			BaseGeometry: &scene.GeometryDefinition{
				Type:       scene.GeometryPlane,
				Parameters: []float64{1, 1},
			},
			InstanceCount: len(points),
		},
		Material: &scene.MaterialDefinition{
			Type:        scene.MaterialStandard,
			Color:       "#2d4f1e",
			Roughness:   1.0,
			Transparent: true,
			AlphaTest:   ptr(0.5),
			Map:         b.textureID(ctx, "terrain_moss"),
			NormalMap:   b.textureID(ctx, "terrain_moss_normal"),
		},
		Position:      scene.Vector3{Y: 0.02},
		Rotation:      scene.Vector3{X: -math.Pi / 2},
		Scale:         scene.UnitScale(),
		ReceiveShadow: true,
		InstanceData:  instances,
	})
}

func (b *build) addArchitecture(loc *world.LocationData) {
	for _, element := range loc.Architecture.Elements {
		switch element.Type {
		case "wall":
			segments := spatial.WallSegments(element.Positions, "wall", b.wallCount)
			b.wallCount += len(segments)
			for _, seg := range segments {
				b.add(seg)
			}
		case "pillar":
			pillars := spatial.Pillars(element.Positions, "pillar", b.pillarCount)
			b.pillarCount += len(pillars)
			for _, p := range pillars {
				b.add(p)
			}
		default:
			b.c.logger.Warn("Skipping unknown architecture element", "type", element.Type)
		}
	}
}

func (b *build) addDecorations(ctx context.Context, loc *world.LocationData) error {
	style := loc.Architecture.Style

	for _, dec := range loc.Decorations {
		switch dec.Type {
		case "torch":
			for _, pos := range dec.Positions {
				if err := b.addTorch(ctx, pos, style); err != nil {
					return err
				}
			}
		case "chest":
			if err := b.addChestProp(ctx, dec, style); err != nil {
				return err
			}
		default:
			b.c.logger.Warn("Skipping unknown decoration", "type", dec.Type)
		}
	}
	return nil
}

// addTorch places a torch model with a flickering-flame animation and its
// paired point light just above the flame.
func (b *build) addTorch(ctx context.Context, pos [2]float64, style string) error {
	modelID, err := b.modelID(ctx, "torch", style)
	if err != nil {
		return err
	}

	b.add(scene.ObjectDefinition{
		Name:       fmt.Sprintf("torch_%g_%g", pos[0], pos[1]),
		ModelID:    modelID,
		Position:   scene.Vector3{X: pos[0], Y: 2.0, Z: pos[1]},
		Scale:      scene.UnitScale(),
		CastShadow: true,
		Animations: []map[string]any{
			{
				"type":      "flame",
				"intensity": 0.8 + b.rng.Float64()*0.4,
			},
		},
	})

	b.sc.Lights = append(b.sc.Lights, scene.LightDefinition{
		Type:          scene.LightPoint,
		Color:         "#ff6600",
		Intensity:     0.8,
		Position:      &scene.Vector3{X: pos[0], Y: 2.2, Z: pos[1]},
		CastShadow:    true,
		ShadowMapSize: 512,
	})
	return nil
}

// addChestProp places a static chest decoration. Interactive chests with a
// full state machine come from the interactive-object layer instead.
func (b *build) addChestProp(ctx context.Context, dec world.Decoration, style string) error {
	modelID, err := b.modelID(ctx, "chest", style)
	if err != nil {
		return err
	}

	b.add(scene.ObjectDefinition{
		Name:          fmt.Sprintf("chest_%g_%g", dec.Position[0], dec.Position[1]),
		ModelID:       modelID,
		Position:      scene.Vector3{X: dec.Position[0], Y: 0.5, Z: dec.Position[1]},
		Scale:         scene.UnitScale(),
		CastShadow:    true,
		ReceiveShadow: true,
		Interactive:   true,
	})
	return nil
}

func (b *build) addAmbientLife(loc *world.LocationData) {
	for _, particle := range loc.Ambient.Particles {
		switch particle {
		case "dust":
			b.sc.PostProcessing = append(b.sc.PostProcessing, scene.PostProcessingEffect{
				Type: "particles",
				Parameters: map[string]any{
					"system":   "dust",
					"count":    1000,
					"size":     0.02,
					"color":    "#cccccc",
					"opacity":  0.3,
					"velocity": map[string]any{"x": 0.0, "y": -0.01, "z": 0.0},
				},
			})
		case "embers":
			b.sc.PostProcessing = append(b.sc.PostProcessing, scene.PostProcessingEffect{
				Type: "particles",
				Parameters: map[string]any{
					"system":   "embers",
					"count":    50,
					"size":     0.05,
					"color":    "#ff4400",
					"opacity":  0.6,
					"velocity": map[string]any{"x": 0.0, "y": 0.05, "z": 0.0},
					"lifetime": map[string]any{"min": 1, "max": 3},
				},
			})
		}
	}
}

// addEnvironmentEffects tunes fog to the location type, adds volumetric
// light shafts when torches are present, and registers ambient sounds.
func (b *build) addEnvironmentEffects(loc *world.LocationData) {
	switch loc.Type {
	case "dungeon":
		b.sc.Environment.Fog = &scene.FogSettings{
			Type:    "exponential",
			Color:   "#222222",
			Density: 0.05,
		}
	case "cave":
		b.sc.Environment.Fog = &scene.FogSettings{
			Type:    "exponential",
			Color:   "#111111",
			Density: 0.08,
		}
	}

	if loc.HasDecoration("torch") {
		b.sc.PostProcessing = append(b.sc.PostProcessing, scene.PostProcessingEffect{
			Type: "volumetricLight",
			Parameters: map[string]any{
				"density": 0.05,
				"decay":   0.95,
				"weight":  0.5,
			},
		})
	}

	for _, sound := range loc.Ambient.Sounds {
		b.sc.Environment.Sounds = append(b.sc.Environment.Sounds, scene.AmbientSound{
			Type:    sound,
			Volume:  0.5,
			Loop:    true,
			Spatial: true,
		})
	}
}

// textureFallbacks maps specific texture tags to generic substitutes tried
// before giving up on a lookup.
var textureFallbacks = map[string]string{
	"terrain_cracks":           "generic_cracks",
	"terrain_cracks_normal":    "generic_normal",
	"terrain_cracks_roughness": "generic_roughness",
	"terrain_moss":             "generic_moss",
	"terrain_moss_normal":      "generic_normal",
}

// textureID resolves a texture tag, trying the fallback table on a miss. A
// final miss yields the nil-uuid placeholder rather than failing generation.
func (b *build) textureID(ctx context.Context, textureType string) string {
	tex, err := b.c.assets.GetTexture(ctx, textureType)
	if err != nil {
		b.c.logger.Error("Texture lookup failed", "type", textureType, "error", err)
		return uuid.Nil.String()
	}
	if tex == nil {
		if fallback, ok := textureFallbacks[textureType]; ok {
			tex, err = b.c.assets.GetTexture(ctx, fallback)
			if err != nil {
				b.c.logger.Error("Texture lookup failed", "type", fallback, "error", err)
				return uuid.Nil.String()
			}
		}
	}
	if tex == nil {
		b.c.logger.Warn("No texture found, using placeholder", "type", textureType)
		return uuid.Nil.String()
	}
	return tex.ID.String()
}

// modelID resolves a model tag for the location's architectural style. A
// miss yields the nil-uuid placeholder.
func (b *build) modelID(ctx context.Context, modelType, style string) (string, error) {
	model, err := b.c.assets.GetModel(ctx, modelType, style)
	if err != nil {
		return "", fmt.Errorf("model lookup for %q: %w", modelType, err)
	}
	if model == nil {
		b.c.logger.Warn("No model found, using placeholder", "type", modelType, "style", style)
		return uuid.Nil.String(), nil
	}
	return model.ID.String(), nil
}

func ptr(f float64) *float64 {
	return &f
}
