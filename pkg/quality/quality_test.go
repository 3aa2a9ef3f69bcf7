package quality

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	presets := Defaults()

	tests := []struct {
		tier          string
		shadows       bool
		shadowMapSize int
		drawDistance  float64
		rayTracing    bool
	}{
		{Low, false, 512, 100, false},
		{Medium, true, 1024, 200, false},
		{High, true, 2048, 500, false},
		{Ultra, true, 4096, 1000, true},
	}

	for _, tc := range tests {
		t.Run(tc.tier, func(t *testing.T) {
			s, err := presets.Get(tc.tier)
			if err != nil {
				t.Fatal(err)
			}
			if s.Shadows != tc.shadows {
				t.Errorf("shadows: expected %v, got %v", tc.shadows, s.Shadows)
			}
			if s.ShadowMapSize != tc.shadowMapSize {
				t.Errorf("shadow map size: expected %d, got %d", tc.shadowMapSize, s.ShadowMapSize)
			}
			if s.DrawDistance != tc.drawDistance {
				t.Errorf("draw distance: expected %g, got %g", tc.drawDistance, s.DrawDistance)
			}
			if s.RayTracing != tc.rayTracing {
				t.Errorf("ray tracing: expected %v, got %v", tc.rayTracing, s.RayTracing)
			}
		})
	}
}

func TestGet_UnknownTier(t *testing.T) {
	_, err := Defaults().Get("potato")
	if !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestLoad_NoPath(t *testing.T) {
	presets, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(presets) != 4 {
		t.Fatalf("expected 4 built-in tiers, got %d", len(presets))
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	body := `
ultra:
  shadows: true
  shadow_map_size: 8192
  ambient_occlusion: true
  bloom: true
  anti_aliasing: true
  texture_quality: ultra
  draw_distance: 2000
  ray_tracing: true
potato:
  shadow_map_size: 256
  texture_quality: low
  draw_distance: 50
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	presets, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	// Overridden tier replaces the default wholesale.
	ultra, err := presets.Get(Ultra)
	if err != nil {
		t.Fatal(err)
	}
	if ultra.ShadowMapSize != 8192 || ultra.DrawDistance != 2000 {
		t.Fatalf("override not applied: %+v", ultra)
	}

	// New tiers from the file are available.
	potato, err := presets.Get("potato")
	if err != nil {
		t.Fatal(err)
	}
	if potato.ShadowMapSize != 256 {
		t.Fatalf("custom tier not loaded: %+v", potato)
	}

	// Untouched tiers keep their defaults.
	low, err := presets.Get(Low)
	if err != nil {
		t.Fatal(err)
	}
	if low.ShadowMapSize != 512 {
		t.Fatalf("default tier mutated: %+v", low)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing presets file")
	}
}
