package animation

import (
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// Instance is one object's animation state machine at runtime. The model
// itself has no current state; every instance owns its own pointer plus the
// variables its transition conditions are evaluated against.
type Instance struct {
	states  map[string]scene.AnimationState
	current string
	vars    map[string]any
}

// NewInstance builds an instance over a validated state set. The initial
// state must be one of the given states.
func NewInstance(states []scene.AnimationState, initial string, vars map[string]any) (*Instance, error) {
	if err := ValidateStates(states); err != nil {
		return nil, err
	}
	byName := make(map[string]scene.AnimationState, len(states))
	for _, st := range states {
		byName[st.Name] = st
	}
	if _, ok := byName[initial]; !ok {
		return nil, scene.Structuralf("initial state %q is not in the state set", initial)
	}
	if vars == nil {
		vars = map[string]any{}
	}
	return &Instance{states: byName, current: initial, vars: vars}, nil
}

// Current returns the name of the instance's current state.
func (i *Instance) Current() string {
	return i.current
}

// State returns the current state's full definition.
func (i *Instance) State() scene.AnimationState {
	return i.states[i.current]
}

// SetVar binds a variable used in transition conditions.
func (i *Instance) SetVar(name string, value any) {
	i.vars[name] = value
}

// Fire attempts the named transition from the current state. It returns the
// transition spec and true when the transition fired. A transition that is
// not listed on the current state, or whose conditions do not match the
// bound variables, leaves the state unchanged: clicking a locked chest does
// not advance it toward opening.
func (i *Instance) Fire(transition string) (scene.TransitionSpec, bool) {
	tr, ok := i.states[i.current].Transitions[transition]
	if !ok {
		return scene.TransitionSpec{}, false
	}
	if !conditionsMet(tr.Conditions, i.vars) {
		return scene.TransitionSpec{}, false
	}
	target := i.states[tr.Target]
	if !conditionsMet(target.Conditions, i.vars) {
		return scene.TransitionSpec{}, false
	}
	i.current = tr.Target
	return tr, true
}
