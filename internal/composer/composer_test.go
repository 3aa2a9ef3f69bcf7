package composer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// writeTemplates lays template JSON files into a fresh directory and returns
// a store over it.
func writeTemplates(t *testing.T, files map[string]string) *template.Store {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return template.NewStore(dir, testLogger())
}

const dungeonRoomTemplate = `{
	"name": "dungeon_room",
	"camera": {"position": {"x": 0, "y": 8, "z": 12}, "fov": 60},
	"lights": [
		{"type": "ambient", "color": "#404040", "intensity": 0.4},
		{"type": "directional", "color": "#ffffff", "intensity": 0.6}
	],
	"environment": {"background": "#000000"},
	"objects": [
		{
			"name": "altar",
			"geometry": {"type": "BoxGeometry", "parameters": [2, 1, 1]},
			"material": {"type": "MeshStandardMaterial", "color": "#553311"},
			"position": {"x": 0, "y": 0.5, "z": -3}
		}
	]
}`

type fixture struct {
	composer *Composer
	location *services.MockLocationProvider
	assets   *services.MockAssetResolver
	scenes   *storage.MockStore
}

func newFixture(t *testing.T, templates map[string]string) *fixture {
	t.Helper()
	f := &fixture{
		location: services.NewMockLocationProvider(),
		assets:   services.NewMockAssetResolver(),
		scenes:   storage.NewMockStore(),
	}
	f.composer = New(
		writeTemplates(t, templates),
		f.location,
		f.assets,
		f.scenes,
		quality.Defaults(),
		DefaultOptions(),
		testLogger(),
	)
	return f
}

func dungeonLocation() *world.LocationData {
	return &world.LocationData{
		Type: "dungeon",
		Size: world.Size{Width: 20, Length: 20},
		Terrain: world.Terrain{
			Type:      "stone",
			Roughness: 0.7,
		},
		Architecture: world.Architecture{
			Style: "gothic",
			Elements: []world.ArchitectureElement{
				{Type: "wall", Positions: [][2]float64{{0, 0}, {10, 0}}},
			},
		},
		Decorations: []world.Decoration{
			{Type: "torch", Positions: [][2]float64{{2, 0}}},
		},
	}
}

func TestGenerateScene_EndToEnd(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})
	locID := uuid.New()
	f.location.Locations[locID] = dungeonLocation()
	torch := f.assets.AddModel("torch")

	result, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: locID,
		Template:   "dungeon_room",
		Quality:    quality.Medium,
		Seed:       42,
	})
	require.NoError(t, err)
	sc := result.Scene

	// One wall element spanning two waypoints yields exactly one segment.
	var wallNames []string
	for _, obj := range sc.Objects {
		if strings.HasPrefix(obj.Name, "wall_") {
			wallNames = append(wallNames, obj.Name)
		}
	}
	assert.Equal(t, []string{"wall_0"}, wallNames)

	// The torch model and its paired point light.
	torchObj := sc.Object("torch_2_0")
	require.NotNil(t, torchObj)
	assert.Equal(t, torch.ID.String(), torchObj.ModelID)
	require.Len(t, torchObj.Animations, 1)
	assert.Equal(t, "flame", torchObj.Animations[0]["type"])

	var pointLights []scene.LightDefinition
	for _, l := range sc.Lights {
		if l.Type == scene.LightPoint {
			pointLights = append(pointLights, l)
		}
	}
	require.Len(t, pointLights, 1)
	assert.Equal(t, "#ff6600", pointLights[0].Color)
	assert.InDelta(t, 2.2, pointLights[0].Position.Y, 0.001)

	// Dungeon fog.
	require.NotNil(t, sc.Environment.Fog)
	assert.Equal(t, "#222222", sc.Environment.Fog.Color)
	assert.Equal(t, "exponential", sc.Environment.Fog.Type)

	// Torches bring volumetric light shafts.
	var effectTypes []string
	for _, e := range sc.PostProcessing {
		effectTypes = append(effectTypes, e.Type)
	}
	assert.Contains(t, effectTypes, "volumetricLight")

	// Template content survives layering.
	assert.True(t, sc.HasObject("ground"))
	assert.True(t, sc.HasObject("altar"))
	assert.Equal(t, 60.0, sc.Camera.FOV)

	// The finished scene is cached under its id.
	cached, err := f.scenes.LoadScene(context.Background(), sc.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, sc.Template, cached.Template)

	assert.Contains(t, result.RequiredAssets, torch.ID.String())
}

func TestGenerateScene_TemplateNotFound(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})

	_, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "throne_room",
		Quality:    quality.Low,
	})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestGenerateScene_UnknownQualityTier(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})

	_, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "dungeon_room",
		Quality:    "cinematic",
	})
	assert.ErrorIs(t, err, quality.ErrUnknownTier)
}

func TestGenerateScene_GracefulDegradation(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})

	// Location provider has no data for this id.
	result, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "dungeon_room",
		Quality:    quality.Low,
	})
	require.NoError(t, err)
	sc := result.Scene

	assert.NotEmpty(t, sc.Camera.Type)
	assert.NotEmpty(t, sc.Lights)
	assert.True(t, sc.HasObject("altar"))
	// No location layers without location data.
	assert.False(t, sc.HasObject("ground"))
}

func TestGenerateScene_AssetDedup(t *testing.T) {
	// Two objects share one texture id; a third references a distinct one.
	tmpl := `{
		"name": "textured",
		"objects": [
			{"name": "a", "material": {"type": "MeshStandardMaterial", "map": "tex_shared"}},
			{"name": "b", "material": {"type": "MeshStandardMaterial", "map": "tex_shared"}},
			{"name": "c", "material": {"type": "MeshStandardMaterial", "map": "tex_other"}}
		]
	}`
	f := newFixture(t, map[string]string{"textured.json": tmpl})

	result, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "textured",
		Quality:    quality.Low,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tex_other", "tex_shared"}, result.RequiredAssets)
}

func TestGenerateScene_QualityEffects(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})
	locID := uuid.New()
	loc := dungeonLocation()
	loc.Ambient.Particles = []string{"dust"}
	f.location.Locations[locID] = loc

	tests := []struct {
		tier       string
		wantSSAO   bool
		wantBloom  bool
		wantShadow bool
	}{
		{tier: quality.Low},
		{tier: quality.Medium, wantBloom: true, wantShadow: true},
		{tier: quality.High, wantSSAO: true, wantBloom: true, wantShadow: true},
		{tier: quality.Ultra, wantSSAO: true, wantBloom: true, wantShadow: true},
	}

	for _, tc := range tests {
		t.Run(tc.tier, func(t *testing.T) {
			result, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
				LocationID: locID,
				Template:   "dungeon_room",
				Quality:    tc.tier,
				Seed:       7,
			})
			require.NoError(t, err)
			sc := result.Scene

			effects := map[string]bool{}
			for _, e := range sc.PostProcessing {
				effects[e.Type] = true
			}
			assert.Equal(t, tc.wantSSAO, effects["ssao"])
			assert.Equal(t, tc.wantBloom, effects["bloom"])
			// Tier effects append; ambient particles survive.
			assert.True(t, effects["particles"])

			for _, l := range sc.Lights {
				if l.Type == scene.LightDirectional {
					assert.Equal(t, tc.wantShadow, l.CastShadow)
				}
			}
		})
	}
}

func TestGenerateScene_Determinism(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})
	locID := uuid.New()
	loc := dungeonLocation()
	loc.Terrain.Features = []string{"cracks", "moss"}
	f.location.Locations[locID] = loc

	req := GenerateRequest{
		LocationID: locID,
		Template:   "dungeon_room",
		Quality:    quality.Low,
		Seed:       99,
	}
	first, err := f.composer.GenerateScene(context.Background(), req)
	require.NoError(t, err)
	second, err := f.composer.GenerateScene(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(first.Scene.Objects), len(second.Scene.Objects))
	for i := range first.Scene.Objects {
		assert.Equal(t, first.Scene.Objects[i].Name, second.Scene.Objects[i].Name)
		assert.Equal(t, first.Scene.Objects[i].Position, second.Scene.Objects[i].Position)
	}
}

func TestGenerateScene_TemplateAnimations(t *testing.T) {
	tmpl := `{
		"name": "animated",
		"animations": [
			{
				"type": "sequence",
				"sequence": {
					"name": "ambient_glow",
					"loop": true,
					"animations": [
						{"state": {"name": "dim", "duration": 2.0, "keyframes": [{"time": 0}, {"time": 2.0}]}}
					]
				}
			},
			{
				"type": "chain",
				"target": "scene",
				"chain": {
					"name": "intro",
					"stages": [
						{"animations": [{"ref": "ambient_glow"}]}
					]
				}
			}
		]
	}`
	f := newFixture(t, map[string]string{"animated.json": tmpl})

	result, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "animated",
		Quality:    quality.Low,
	})
	require.NoError(t, err)

	require.Len(t, result.Scene.Animations, 2)
	seq := result.Scene.Animations[0]
	assert.Equal(t, "sequence", seq.Type)
	assert.Equal(t, "scene", seq.Target)
	require.NotNil(t, seq.Sequence)
	assert.Equal(t, "ambient_glow", seq.Sequence.Name)
	assert.True(t, seq.Sequence.Loop)

	chain := result.Scene.Animations[1]
	assert.Equal(t, "chain", chain.Type)
	require.NotNil(t, chain.Chain)
	assert.Equal(t, "intro", chain.Chain.Name)
}

func TestGenerateScene_BadChainRef(t *testing.T) {
	// The chain references a sequence that was never registered.
	tmpl := `{
		"name": "broken",
		"animations": [
			{
				"type": "chain",
				"chain": {
					"name": "intro",
					"stages": [
						{"animations": [{"ref": "missing_sequence"}]}
					]
				}
			}
		]
	}`
	f := newFixture(t, map[string]string{"broken.json": tmpl})

	_, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "broken",
		Quality:    quality.Low,
	})
	require.Error(t, err)
	var structural *scene.StructuralError
	assert.ErrorAs(t, err, &structural)
}

func TestUpdateScene(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})
	locID := uuid.New()
	f.location.Locations[locID] = dungeonLocation()

	req := GenerateRequest{
		LocationID: locID,
		Template:   "dungeon_room",
		Quality:    quality.Low,
		Seed:       1,
	}
	first, err := f.composer.GenerateScene(context.Background(), req)
	require.NoError(t, err)
	id := first.Scene.ID

	req.Quality = quality.Ultra
	updated, err := f.composer.UpdateScene(context.Background(), id, req)
	require.NoError(t, err)

	assert.Equal(t, id, updated.Scene.ID)
	assert.Equal(t, quality.Ultra, updated.Scene.Quality)
	assert.Equal(t, first.Scene.CreatedAt, updated.Scene.CreatedAt)

	cached, err := f.scenes.LoadScene(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, quality.Ultra, cached.Quality)
}

// pausingStore holds the first LoadScene open until released, widening the
// window between an update's read of the cache entry and its write back.
type pausingStore struct {
	storage.SceneStore
	loading chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *pausingStore) LoadScene(ctx context.Context, id uuid.UUID) (*scene.SceneDefinition, error) {
	p.once.Do(func() {
		close(p.loading)
		<-p.release
	})
	return p.SceneStore.LoadScene(ctx, id)
}

func TestUpdateScene_DeleteDuringUpdate(t *testing.T) {
	store := &pausingStore{
		SceneStore: storage.NewMockStore(),
		loading:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	comp := New(
		writeTemplates(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate}),
		services.NewMockLocationProvider(),
		services.NewMockAssetResolver(),
		store,
		quality.Defaults(),
		DefaultOptions(),
		testLogger(),
	)

	req := GenerateRequest{
		LocationID: uuid.New(),
		Template:   "dungeon_room",
		Quality:    quality.Low,
		Seed:       1,
	}
	first, err := comp.GenerateScene(context.Background(), req)
	require.NoError(t, err)
	id := first.Scene.ID

	// Update pauses inside its cache read; a delete for the same id arrives
	// while it is held open.
	updateDone := make(chan error, 1)
	go func() {
		_, err := comp.UpdateScene(context.Background(), id, req)
		updateDone <- err
	}()
	<-store.loading

	deleteDone := make(chan error, 1)
	go func() {
		deleteDone <- comp.DeleteScene(context.Background(), id)
	}()
	close(store.release)

	require.NoError(t, <-updateDone)
	require.NoError(t, <-deleteDone)

	// The delete must win: the update's write back may not resurrect the
	// entry after DeleteScene has returned.
	_, err = comp.Scene(context.Background(), id)
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestGenerateScene_MalformedCamera(t *testing.T) {
	tmpl := `{
		"name": "bad_camera",
		"camera": {"fov": "wide"}
	}`
	f := newFixture(t, map[string]string{"bad_camera.json": tmpl})

	_, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "bad_camera",
		Quality:    quality.Low,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "camera")
}

func TestUpdateScene_NotFound(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})

	_, err := f.composer.UpdateScene(context.Background(), uuid.New(), GenerateRequest{
		Template: "dungeon_room",
		Quality:  quality.Low,
	})
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

func TestSceneAndDelete(t *testing.T) {
	f := newFixture(t, map[string]string{"dungeon_room.json": dungeonRoomTemplate})

	result, err := f.composer.GenerateScene(context.Background(), GenerateRequest{
		LocationID: uuid.New(),
		Template:   "dungeon_room",
		Quality:    quality.Low,
	})
	require.NoError(t, err)
	id := result.Scene.ID

	loaded, err := f.composer.Scene(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ID)

	require.NoError(t, f.composer.DeleteScene(context.Background(), id))
	_, err = f.composer.Scene(context.Background(), id)
	assert.ErrorIs(t, err, ErrSceneNotFound)
}
