package scene

import (
	"time"

	"github.com/google/uuid"
)

// CameraDefinition is the scene camera configuration.
type CameraDefinition struct {
	Type     string  `json:"type"` // "perspective" or "orthographic"
	Position Vector3 `json:"position"`
	Target   Vector3 `json:"target"`
	FOV      float64 `json:"fov,omitempty"`
	Near     float64 `json:"near,omitempty"`
	Far      float64 `json:"far,omitempty"`
}

// LightDefinition is one light source in the scene.
type LightDefinition struct {
	Type          LightType `json:"type"`
	Color         string    `json:"color,omitempty"`
	Intensity     float64   `json:"intensity"`
	Position      *Vector3  `json:"position,omitempty"`
	CastShadow    bool      `json:"cast_shadow,omitempty"`
	ShadowMapSize int       `json:"shadow_map_size,omitempty"`
}

// FogSettings tunes scene fog; Type is "linear" or "exponential".
type FogSettings struct {
	Type    string  `json:"type"`
	Color   string  `json:"color"`
	Density float64 `json:"density,omitempty"`
	Near    float64 `json:"near,omitempty"`
	Far     float64 `json:"far,omitempty"`
}

// AmbientSound is a looping environmental sound descriptor.
type AmbientSound struct {
	Type    string  `json:"type"`
	Volume  float64 `json:"volume"`
	Loop    bool    `json:"loop"`
	Spatial bool    `json:"spatial"`
}

// EnvironmentDefinition is the scene's environment block.
type EnvironmentDefinition struct {
	Background string         `json:"background,omitempty"`
	Fog        *FogSettings   `json:"fog,omitempty"`
	Skybox     map[string]any `json:"skybox,omitempty"`
	Sounds     []AmbientSound `json:"sounds,omitempty"`
}

// PostProcessingEffect is one entry of the post-processing stack
// (ssao, bloom, particles, volumetricLight).
type PostProcessingEffect struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// InteractionSystem describes how the renderer should wire up picking and
// highlighting for interactive objects.
type InteractionSystem struct {
	Raycaster struct {
		Enabled bool     `json:"enabled"`
		Layers  []string `json:"layers"`
	} `json:"raycaster"`
	PointerEvents struct {
		Enabled         bool `json:"enabled"`
		CaptureMovement bool `json:"capture_movement"`
	} `json:"pointer_events"`
	Highlight struct {
		Enabled   bool    `json:"enabled"`
		Color     string  `json:"color"`
		Intensity float64 `json:"intensity"`
	} `json:"highlight"`
}

// SceneDefinition is the aggregate output of scene generation: everything a
// renderer needs to build the scene, minus the assets it must resolve.
type SceneDefinition struct {
	ID         uuid.UUID `json:"id"`
	LocationID uuid.UUID `json:"location_id"`
	Template   string    `json:"template"`
	Quality    string    `json:"quality"`

	Camera            CameraDefinition       `json:"camera"`
	Lights            []LightDefinition      `json:"lights"`
	Objects           []ObjectDefinition     `json:"objects"`
	Environment       EnvironmentDefinition  `json:"environment"`
	PostProcessing    []PostProcessingEffect `json:"post_processing,omitempty"`
	Animations        []AnimationAttachment  `json:"animations,omitempty"`
	InteractionSystem *InteractionSystem     `json:"interaction_system,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Object returns the named object, or nil. Object names are unique within a
// scene, so the first match is the only match.
func (s *SceneDefinition) Object(name string) *ObjectDefinition {
	for i := range s.Objects {
		if s.Objects[i].Name == name {
			return &s.Objects[i]
		}
	}
	return nil
}

// HasObject reports whether the named object exists in the scene.
func (s *SceneDefinition) HasObject(name string) bool {
	return s.Object(name) != nil
}
