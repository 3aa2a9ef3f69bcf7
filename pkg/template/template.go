package template

// PatternInvocation names a pattern and the parameters a template applies
// it with.
type PatternInvocation struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// SceneTemplate is a named, inheritable blueprint for a scene's base
// content. Object, light, camera and animation specs stay as decoded JSON
// until pattern substitution has run; they are only bound to concrete scene
// types at composition time.
type SceneTemplate struct {
	Name         string              `json:"name"`
	BaseTemplate string              `json:"base_template,omitempty"`
	Objects      []map[string]any    `json:"objects,omitempty"`
	Lights       []map[string]any    `json:"lights,omitempty"`
	Camera       map[string]any      `json:"camera,omitempty"`
	Environment  map[string]any      `json:"environment,omitempty"`
	Animations   []map[string]any    `json:"animations,omitempty"`
	Patterns     []PatternInvocation `json:"patterns,omitempty"`
	Variables    map[string]any      `json:"variables,omitempty"`
}

// merge resolves inheritance between a base and an overriding child:
// list and object fields take the child's value when the child has one,
// variables are a key-wise union with child precedence.
func merge(base, override *SceneTemplate) *SceneTemplate {
	merged := &SceneTemplate{
		Name:         override.Name,
		BaseTemplate: override.BaseTemplate,
		Objects:      override.Objects,
		Lights:       override.Lights,
		Camera:       override.Camera,
		Environment:  override.Environment,
		Animations:   override.Animations,
		Patterns:     override.Patterns,
	}
	if len(merged.Objects) == 0 {
		merged.Objects = base.Objects
	}
	if len(merged.Lights) == 0 {
		merged.Lights = base.Lights
	}
	if len(merged.Camera) == 0 {
		merged.Camera = base.Camera
	}
	if len(merged.Environment) == 0 {
		merged.Environment = base.Environment
	}
	if len(merged.Animations) == 0 {
		merged.Animations = base.Animations
	}
	if len(merged.Patterns) == 0 {
		merged.Patterns = base.Patterns
	}

	if len(base.Variables) > 0 || len(override.Variables) > 0 {
		merged.Variables = make(map[string]any, len(base.Variables)+len(override.Variables))
		for k, v := range base.Variables {
			merged.Variables[k] = v
		}
		for k, v := range override.Variables {
			merged.Variables[k] = v
		}
	}
	return merged
}
