package template

import (
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// Pattern kinds.
const (
	PatternObjectGroup       = "object_group"
	PatternAnimationSequence = "animation_sequence"
)

// Pattern is a reusable, parameterized fragment applied on top of a
// template: a group of object specs or a set of animation specs, both
// carrying "$token" placeholders. Patterns are read-only after load.
type Pattern struct {
	Type       string           `json:"type"`
	Objects    []map[string]any `json:"objects,omitempty"`
	Animations []map[string]any `json:"animations,omitempty"`
}

// ApplyPattern applies the named pattern to sc. An unknown pattern name is a
// warning and a no-op; the scene is still produced without it.
func (s *Store) ApplyPattern(sc *scene.SceneDefinition, name string, parameters map[string]any) {
	pattern, ok := s.patterns[name]
	if !ok {
		s.logger.Warn("Pattern not found", "pattern", name)
		return
	}

	switch pattern.Type {
	case PatternObjectGroup:
		s.applyObjectPattern(sc, pattern, parameters)
	case PatternAnimationSequence:
		s.applyAnimationPattern(sc, pattern, parameters)
	default:
		s.logger.Warn("Pattern has unknown type", "pattern", name, "type", pattern.Type)
	}
}

func (s *Store) applyObjectPattern(sc *scene.SceneDefinition, pattern *Pattern, parameters map[string]any) {
	transform, _ := parameters["transform"].(map[string]any)

	for _, spec := range pattern.Objects {
		substituted, ok := Substitute(spec, parameters).(map[string]any)
		if !ok {
			continue
		}
		obj, err := decodeObject(substituted)
		if err != nil {
			s.logger.Error("Failed to decode pattern object", "error", err)
			continue
		}
		if len(transform) > 0 {
			applyTransform(obj, transform)
		}
		sc.Objects = append(sc.Objects, *obj)
	}
}

func (s *Store) applyAnimationPattern(sc *scene.SceneDefinition, pattern *Pattern, parameters map[string]any) {
	for _, target := range targetNames(parameters) {
		obj := sc.Object(target)
		if obj == nil {
			// Missing targets are skipped, not errors.
			continue
		}
		for _, anim := range pattern.Animations {
			substituted, ok := Substitute(anim, parameters).(map[string]any)
			if !ok {
				continue
			}
			obj.Animations = append(obj.Animations, substituted)
		}
	}
}

// targetNames reads parameters["targets"] whether it arrived as []string
// (programmatic caller) or []any (decoded JSON).
func targetNames(parameters map[string]any) []string {
	switch targets := parameters["targets"].(type) {
	case []string:
		return targets
	case []any:
		names := make([]string, 0, len(targets))
		for _, t := range targets {
			if name, ok := t.(string); ok {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}

// applyTransform composes a rigid transform onto an object: translate and
// rotate add, scale multiplies.
func applyTransform(obj *scene.ObjectDefinition, transform map[string]any) {
	if pos, ok := transform["position"].(map[string]any); ok {
		obj.Position = obj.Position.Add(toVector3(pos, 0))
	}
	if rot, ok := transform["rotation"].(map[string]any); ok {
		obj.Rotation = obj.Rotation.Add(toVector3(rot, 0))
	}
	if sc, ok := transform["scale"].(map[string]any); ok {
		obj.Scale = obj.Scale.Mul(toVector3(sc, 1))
	}
}

// toVector3 reads x/y/z from a decoded-JSON map, using def for absent axes.
func toVector3(m map[string]any, def float64) scene.Vector3 {
	return scene.Vector3{
		X: floatOr(m["x"], def),
		Y: floatOr(m["y"], def),
		Z: floatOr(m["z"], def),
	}
}

func floatOr(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return def
}
