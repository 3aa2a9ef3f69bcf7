package animation

import (
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// ValidateState checks a single state: keyframe times must be non-decreasing
// and easing tags must be known.
func ValidateState(st *scene.AnimationState) error {
	if st.Name == "" {
		return scene.Structuralf("animation state without a name")
	}
	var prev float64
	for i, kf := range st.Keyframes {
		if kf.Time < prev {
			return scene.Structuralf("state %q keyframe %d time %g precedes %g", st.Name, i, kf.Time, prev)
		}
		prev = kf.Time
		if err := kf.Easing.Validate(); err != nil {
			return err
		}
	}
	for name, tr := range st.Transitions {
		if tr.Target == "" {
			return scene.Structuralf("state %q transition %q has no target", st.Name, name)
		}
		if err := tr.Easing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStates checks a set of states that form one machine: each state is
// valid on its own and every transition target names a state in the set.
// A transition to an undefined state is rejected here, at construction time,
// not at playback time.
func ValidateStates(states []scene.AnimationState) error {
	known := make(map[string]bool, len(states))
	for i := range states {
		if err := ValidateState(&states[i]); err != nil {
			return err
		}
		if known[states[i].Name] {
			return scene.Structuralf("duplicate animation state %q", states[i].Name)
		}
		known[states[i].Name] = true
	}
	for i := range states {
		for name, tr := range states[i].Transitions {
			if !known[tr.Target] {
				return scene.Structuralf("state %q transition %q targets undefined state %q",
					states[i].Name, name, tr.Target)
			}
		}
	}
	return nil
}

// validateSequence walks a sequence and its nested sequences. Transition
// targets inside a sequence element are resolved against that element's
// siblings; a sequence of bare states with no transitions is valid.
func validateSequence(seq *scene.AnimationSequence) error {
	if seq.Name == "" {
		return scene.Structuralf("animation sequence without a name")
	}
	var states []scene.AnimationState
	for i, el := range seq.Animations {
		switch {
		case el.State != nil && el.Sequence != nil:
			return scene.Structuralf("sequence %q element %d is both state and sequence", seq.Name, i)
		case el.State != nil:
			states = append(states, *el.State)
		case el.Sequence != nil:
			if err := validateSequence(el.Sequence); err != nil {
				return err
			}
		default:
			return scene.Structuralf("sequence %q element %d is empty", seq.Name, i)
		}
	}
	return ValidateStates(states)
}

// TotalDuration is the sequence's full playback length: the keyframe span of
// every element plus the transition time between consecutive elements.
// Looping sequences report the length of a single pass.
func TotalDuration(seq *scene.AnimationSequence) float64 {
	var total float64
	for i, el := range seq.Animations {
		switch {
		case el.State != nil:
			total += el.State.Span()
		case el.Sequence != nil:
			total += TotalDuration(el.Sequence)
		}
		if i < len(seq.Animations)-1 {
			total += seq.TransitionTime
		}
	}
	return total
}
