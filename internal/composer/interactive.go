package composer

import (
	"context"
	"fmt"
	"math"

	"github.com/jwebster45206/scene-forge/pkg/scene"
	"github.com/jwebster45206/scene-forge/pkg/world"
)

// addInteractiveObjects wires the scene's interaction system descriptor and
// places every interactive prop with its own animation state machine.
func (b *build) addInteractiveObjects(ctx context.Context, loc *world.LocationData) error {
	if len(loc.InteractiveObjects) == 0 {
		return nil
	}

	system := &scene.InteractionSystem{}
	system.Raycaster.Enabled = true
	system.Raycaster.Layers = []string{"interactive", "pickable", "ui"}
	system.PointerEvents.Enabled = true
	system.PointerEvents.CaptureMovement = true
	system.Highlight.Enabled = true
	system.Highlight.Color = "#ffff00"
	system.Highlight.Intensity = 0.5
	b.sc.InteractionSystem = system

	for _, obj := range loc.InteractiveObjects {
		var err error
		switch obj.Type {
		case "door":
			err = b.addDoor(ctx, obj)
		case "lever":
			err = b.addLever(ctx, obj)
		case "chest":
			err = b.addChest(ctx, obj)
		case "button":
			err = b.addButton(ctx, obj)
		default:
			b.c.logger.Warn("Skipping unknown interactive object", "type", obj.Type)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// addDoor builds a two-state door: closed at rest, swung a quarter turn when
// open, with a one-second eased swing either way.
func (b *build) addDoor(ctx context.Context, cfg world.InteractiveObject) error {
	modelID, err := b.modelID(ctx, "door", cfg.Style)
	if err != nil {
		return err
	}
	pos := cfg.Position

	states := []scene.AnimationState{
		{
			Name: "closed",
			Keyframes: []scene.KeyframeData{
				{Rotation: &scene.Vector3{}},
			},
			Transitions: map[string]scene.TransitionSpec{
				"opening": {Target: "open", Duration: 1.0, Easing: scene.EaseInOutQuad},
			},
		},
		{
			Name: "open",
			Keyframes: []scene.KeyframeData{
				{Rotation: &scene.Vector3{Y: math.Pi / 2}},
			},
			Transitions: map[string]scene.TransitionSpec{
				"closing": {Target: "closed", Duration: 1.0, Easing: scene.EaseInOutQuad},
			},
		},
	}

	b.add(scene.ObjectDefinition{
		Name:          fmt.Sprintf("door_%g_%g", pos[0], pos[2]),
		ModelID:       modelID,
		Position:      scene.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
		Scale:         scene.UnitScale(),
		CastShadow:    true,
		ReceiveShadow: true,
		Interactive:   true,
		InteractionData: &scene.InteractionData{
			Type:         "door",
			States:       states,
			CurrentState: "closed",
			Highlight:    true,
			Events: map[string]any{
				"onClick": map[string]any{
					"type":   "toggle_state",
					"states": []string{"open", "closed"},
				},
				"onHover": map[string]any{
					"type":      "highlight",
					"intensity": 0.5,
				},
			},
		},
	})
	return nil
}

// addLever builds a two-state lever that snaps a third of a turn with a
// bounce when pulled.
func (b *build) addLever(ctx context.Context, cfg world.InteractiveObject) error {
	modelID, err := b.modelID(ctx, "lever", cfg.Style)
	if err != nil {
		return err
	}
	pos := cfg.Position

	triggerEvent := cfg.TriggerEvent
	if triggerEvent == "" {
		triggerEvent = "none"
	}

	states := []scene.AnimationState{
		{
			Name: "off",
			Keyframes: []scene.KeyframeData{
				{Rotation: &scene.Vector3{}},
			},
			Transitions: map[string]scene.TransitionSpec{
				"activate": {Target: "on", Duration: 0.5, Easing: scene.EaseOutBounce},
			},
		},
		{
			Name: "on",
			Keyframes: []scene.KeyframeData{
				{Rotation: &scene.Vector3{Z: -math.Pi / 3}},
			},
			Transitions: map[string]scene.TransitionSpec{
				"deactivate": {Target: "off", Duration: 0.5, Easing: scene.EaseOutBounce},
			},
		},
	}

	b.add(scene.ObjectDefinition{
		Name:          fmt.Sprintf("lever_%g_%g", pos[0], pos[2]),
		ModelID:       modelID,
		Position:      scene.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
		Scale:         scene.UnitScale(),
		CastShadow:    true,
		ReceiveShadow: true,
		Interactive:   true,
		InteractionData: &scene.InteractionData{
			Type:         "lever",
			States:       states,
			CurrentState: "off",
			Highlight:    true,
			Events: map[string]any{
				"onClick": map[string]any{
					"type":   "toggle_state",
					"states": []string{"on", "off"},
					"sound":  "lever_click",
				},
				"onStateChange": map[string]any{
					"type":  "trigger_event",
					"event": triggerEvent,
				},
				"onHover": map[string]any{
					"type":      "highlight",
					"intensity": 0.5,
				},
			},
		},
	})
	return nil
}

// addChest builds a three-state chest. The open transition is gated on the
// is_locked variable; a locked chest stays closed when clicked.
func (b *build) addChest(ctx context.Context, cfg world.InteractiveObject) error {
	modelID, err := b.modelID(ctx, "chest", cfg.Style)
	if err != nil {
		return err
	}
	pos := cfg.Position

	lootTable := cfg.LootTable
	if lootTable == "" {
		lootTable = "common"
	}

	lidOpen := scene.Vector3{X: -math.Pi / 3}
	states := []scene.AnimationState{
		{
			Name: "closed",
			Keyframes: []scene.KeyframeData{
				{Rotation: &scene.Vector3{}},
			},
			Transitions: map[string]scene.TransitionSpec{
				"open": {
					Target:     "opening",
					Duration:   0.5,
					Conditions: map[string]any{"is_locked": false},
				},
			},
		},
		{
			Name:     "opening",
			Duration: 0.5,
			Keyframes: []scene.KeyframeData{
				{Rotation: &scene.Vector3{}, Easing: scene.EaseOutQuad},
				{Time: 0.5, Rotation: &lidOpen, Easing: scene.EaseOutBounce},
			},
			Transitions: map[string]scene.TransitionSpec{
				"complete": {Target: "open"},
			},
		},
		{
			Name: "open",
			Keyframes: []scene.KeyframeData{
				{Rotation: &lidOpen},
			},
			Transitions: map[string]scene.TransitionSpec{
				"close": {Target: "closed", Duration: 0.3, Easing: scene.EaseInQuad},
			},
		},
	}

	b.add(scene.ObjectDefinition{
		Name:          fmt.Sprintf("chest_%g_%g", pos[0], pos[2]),
		ModelID:       modelID,
		Position:      scene.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
		Scale:         scene.UnitScale(),
		CastShadow:    true,
		ReceiveShadow: true,
		Interactive:   true,
		InteractionData: &scene.InteractionData{
			Type:         "chest",
			States:       states,
			CurrentState: "closed",
			Variables: map[string]any{
				"is_locked":  cfg.Locked,
				"loot_table": lootTable,
			},
			Highlight: true,
			Events: map[string]any{
				"onClick": []any{
					map[string]any{
						"type":      "check_condition",
						"condition": "is_locked",
						"success":   map[string]any{"type": "play_sound", "sound": "chest_locked"},
						"failure":   map[string]any{"type": "change_state", "target": "opening"},
					},
				},
				"onStateChange": map[string]any{
					"open": map[string]any{"type": "generate_loot", "table": "loot_table"},
				},
				"onHover": map[string]any{
					"type":      "highlight",
					"intensity": 0.5,
				},
			},
		},
	})
	return nil
}

// addButton builds a two-state button that depresses slightly and springs
// back.
func (b *build) addButton(ctx context.Context, cfg world.InteractiveObject) error {
	modelID, err := b.modelID(ctx, "button", cfg.Style)
	if err != nil {
		return err
	}
	pos := cfg.Position

	triggerEvent := cfg.TriggerEvent
	if triggerEvent == "" {
		triggerEvent = "none"
	}

	states := []scene.AnimationState{
		{
			Name: "up",
			Keyframes: []scene.KeyframeData{
				{Position: &scene.Vector3{X: pos[0], Y: pos[1], Z: pos[2]}},
			},
			Transitions: map[string]scene.TransitionSpec{
				"press": {Target: "down", Duration: 0.1, Easing: scene.EaseInQuad},
			},
		},
		{
			Name:     "down",
			Duration: 0.2,
			Keyframes: []scene.KeyframeData{
				{Position: &scene.Vector3{X: pos[0], Y: pos[1] - 0.05, Z: pos[2]}, Easing: scene.EaseOutElastic},
			},
			Transitions: map[string]scene.TransitionSpec{
				"release": {Target: "up", Duration: 0.2},
			},
		},
	}

	b.add(scene.ObjectDefinition{
		Name:          fmt.Sprintf("button_%g_%g", pos[0], pos[2]),
		ModelID:       modelID,
		Position:      scene.Vector3{X: pos[0], Y: pos[1], Z: pos[2]},
		Scale:         scene.UnitScale(),
		CastShadow:    true,
		ReceiveShadow: true,
		Interactive:   true,
		InteractionData: &scene.InteractionData{
			Type:         "button",
			States:       states,
			CurrentState: "up",
			Highlight:    true,
			Events: map[string]any{
				"onClick": []any{
					map[string]any{"type": "change_state", "target": "down"},
					map[string]any{"type": "trigger_event", "event": triggerEvent},
					map[string]any{"type": "play_sound", "sound": "button_click"},
				},
				"onHover": map[string]any{
					"type":      "highlight",
					"intensity": 0.5,
				},
			},
		},
	})
	return nil
}
