package quality

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownTier is returned when a caller requests a tier that is not
// defined. Requesting an undefined tier is a caller error, never a silent
// default.
var ErrUnknownTier = errors.New("unknown quality tier")

// Tier names.
const (
	Low    = "low"
	Medium = "medium"
	High   = "high"
	Ultra  = "ultra"
)

// Settings is one tier's bundle of render-fidelity knobs.
type Settings struct {
	Shadows          bool    `json:"shadows" yaml:"shadows"`
	ShadowMapSize    int     `json:"shadow_map_size" yaml:"shadow_map_size"`
	AmbientOcclusion bool    `json:"ambient_occlusion" yaml:"ambient_occlusion"`
	Bloom            bool    `json:"bloom" yaml:"bloom"`
	AntiAliasing     bool    `json:"anti_aliasing" yaml:"anti_aliasing"`
	TextureQuality   string  `json:"texture_quality" yaml:"texture_quality"`
	DrawDistance     float64 `json:"draw_distance" yaml:"draw_distance"`
	RayTracing       bool    `json:"ray_tracing,omitempty" yaml:"ray_tracing"`
}

// Presets maps tier name to settings.
type Presets map[string]Settings

// Defaults returns the built-in low/medium/high/ultra tiers.
func Defaults() Presets {
	return Presets{
		Low: {
			ShadowMapSize:  512,
			TextureQuality: Low,
			DrawDistance:   100,
		},
		Medium: {
			Shadows:        true,
			ShadowMapSize:  1024,
			Bloom:          true,
			AntiAliasing:   true,
			TextureQuality: Medium,
			DrawDistance:   200,
		},
		High: {
			Shadows:          true,
			ShadowMapSize:    2048,
			AmbientOcclusion: true,
			Bloom:            true,
			AntiAliasing:     true,
			TextureQuality:   High,
			DrawDistance:     500,
		},
		Ultra: {
			Shadows:          true,
			ShadowMapSize:    4096,
			AmbientOcclusion: true,
			Bloom:            true,
			AntiAliasing:     true,
			TextureQuality:   Ultra,
			DrawDistance:     1000,
			RayTracing:       true,
		},
	}
}

// Get resolves a tier by name.
func (p Presets) Get(tier string) (Settings, error) {
	settings, ok := p[tier]
	if !ok {
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	return settings, nil
}

// Load reads per-tier overrides from a YAML file and merges them over the
// built-in defaults. Tiers present in the file replace the default tier
// wholesale; absent tiers keep their defaults.
func Load(path string) (Presets, error) {
	presets := Defaults()
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	var overrides map[string]Settings
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse presets file: %w", err)
	}
	for tier, settings := range overrides {
		presets[tier] = settings
	}
	return presets, nil
}
