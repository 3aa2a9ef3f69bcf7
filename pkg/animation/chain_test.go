package animation

import (
	"reflect"
	"testing"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

func registerChain(t *testing.T, parallel bool) *System {
	t.Helper()
	sys := NewSystem()
	chain := scene.AnimationChain{
		Name:     "trap",
		Parallel: parallel,
		Stages: []scene.ChainStage{
			{
				Animations: []scene.StageAnimation{{State: &scene.AnimationState{Name: "arm"}}},
				Conditions: map[string]any{"armed": true},
			},
			{
				Animations: []scene.StageAnimation{{State: &scene.AnimationState{Name: "spring"}}},
				Conditions: map[string]any{"triggered": true},
			},
			{
				Animations: []scene.StageAnimation{{State: &scene.AnimationState{Name: "reset"}}},
			},
		},
	}
	if _, err := sys.CreateChain(chain); err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestChainController_Sequential(t *testing.T) {
	sys := registerChain(t, false)
	ctrl, err := NewChainController(sys, "trap")
	if err != nil {
		t.Fatal(err)
	}

	// Nothing happens until stage 0's conditions hold.
	if started := ctrl.Tick(map[string]any{}); started != nil {
		t.Fatalf("expected no dispatch, got %v", started)
	}
	if ctrl.CurrentStage() != 0 {
		t.Fatalf("stage advanced without dispatch: %d", ctrl.CurrentStage())
	}

	// Stage 1's conditions holding early does not let it jump the queue.
	if started := ctrl.Tick(map[string]any{"triggered": true}); started != nil {
		t.Fatalf("later stage dispatched out of order: %v", started)
	}

	vars := map[string]any{"armed": true, "triggered": true}
	if started := ctrl.Tick(vars); !reflect.DeepEqual(started, []int{0}) {
		t.Fatalf("expected stage 0, got %v", started)
	}
	if ctrl.CurrentStage() != 1 {
		t.Fatalf("expected advance to stage 1, got %d", ctrl.CurrentStage())
	}

	if started := ctrl.Tick(vars); !reflect.DeepEqual(started, []int{1}) {
		t.Fatalf("expected stage 1, got %v", started)
	}
	// The unconditioned final stage dispatches on the next tick.
	if started := ctrl.Tick(nil); !reflect.DeepEqual(started, []int{2}) {
		t.Fatalf("expected stage 2, got %v", started)
	}

	if !ctrl.Dispatched(0) || !ctrl.Dispatched(1) || !ctrl.Dispatched(2) {
		t.Fatal("all stages should be dispatched")
	}
	// The chain is exhausted.
	if started := ctrl.Tick(vars); started != nil {
		t.Fatalf("exhausted chain dispatched %v", started)
	}
}

func TestChainController_Parallel(t *testing.T) {
	sys := registerChain(t, true)
	ctrl, err := NewChainController(sys, "trap")
	if err != nil {
		t.Fatal(err)
	}

	// Every eligible stage dispatches in one tick, regardless of order.
	started := ctrl.Tick(map[string]any{"triggered": true})
	if !reflect.DeepEqual(started, []int{1, 2}) {
		t.Fatalf("expected stages 1 and 2, got %v", started)
	}
	// Parallel mode never advances the stage pointer.
	if ctrl.CurrentStage() != 0 {
		t.Fatalf("parallel chain advanced current stage: %d", ctrl.CurrentStage())
	}

	// A dispatched stage does not re-dispatch.
	started = ctrl.Tick(map[string]any{"armed": true, "triggered": true})
	if !reflect.DeepEqual(started, []int{0}) {
		t.Fatalf("expected only stage 0, got %v", started)
	}
}

func TestNewChainController_Unregistered(t *testing.T) {
	if _, err := NewChainController(NewSystem(), "ghost"); err == nil {
		t.Fatal("expected error for unregistered chain")
	}
}

func TestConditionsMet(t *testing.T) {
	tests := []struct {
		name       string
		conditions map[string]any
		vars       map[string]any
		want       bool
	}{
		{"empty conditions", nil, nil, true},
		{"bool match", map[string]any{"on": true}, map[string]any{"on": true}, true},
		{"bool mismatch", map[string]any{"on": true}, map[string]any{"on": false}, false},
		{"unbound variable", map[string]any{"on": true}, map[string]any{}, false},
		{"numeric cross-type", map[string]any{"count": 3}, map[string]any{"count": 3.0}, true},
		{"string match", map[string]any{"phase": "night"}, map[string]any{"phase": "night"}, true},
		{"string mismatch", map[string]any{"phase": "night"}, map[string]any{"phase": "day"}, false},
		{
			"all must hold",
			map[string]any{"a": true, "b": true},
			map[string]any{"a": true, "b": false},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := conditionsMet(tc.conditions, tc.vars); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
