package scene

// KeyframeData is a time-stamped pose/appearance delta within an animation
// state. Time is a timestamp in seconds from the start of the state's track,
// not a per-keyframe duration. Times are non-decreasing within a state;
// consumers rely on monotonicity for playback.
type KeyframeData struct {
	Time     float64  `json:"time"`
	Position *Vector3 `json:"position,omitempty"`
	Rotation *Vector3 `json:"rotation,omitempty"`
	Scale    *Vector3 `json:"scale,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Color    string   `json:"color,omitempty"`
	Easing   Easing   `json:"easing,omitempty"`
}

// TransitionSpec describes one outgoing edge of an animation state. The
// transition fires only when its conditions (if any) match the instance's
// bound variables.
type TransitionSpec struct {
	Target     string         `json:"target"`
	Duration   float64        `json:"duration"`
	Easing     Easing         `json:"easing,omitempty"`
	Conditions map[string]any `json:"conditions,omitempty"`
}

// AnimationState is a named node in an object's state machine.
type AnimationState struct {
	Name        string                    `json:"name"`
	Duration    float64                   `json:"duration"`
	Keyframes   []KeyframeData            `json:"keyframes"`
	Transitions map[string]TransitionSpec `json:"transitions,omitempty"`
	Conditions  map[string]any            `json:"conditions,omitempty"` // entry gate
}

// Span is the playback length of the state's keyframe track: the timestamp
// of the last keyframe, which is the largest under the monotonicity rule.
func (s *AnimationState) Span() float64 {
	if len(s.Keyframes) == 0 {
		return 0
	}
	return s.Keyframes[len(s.Keyframes)-1].Time
}

// SequenceElement is one entry of a sequence: a state or a nested sequence.
// Exactly one field is set.
type SequenceElement struct {
	State    *AnimationState    `json:"state,omitempty"`
	Sequence *AnimationSequence `json:"sequence,omitempty"`
}

// AnimationSequence plays its elements in order, with TransitionTime between
// consecutive elements. Looping sequences never terminate on their own.
type AnimationSequence struct {
	Name           string            `json:"name"`
	Animations     []SequenceElement `json:"animations"`
	Loop           bool              `json:"loop,omitempty"`
	TransitionTime float64           `json:"transition_time,omitempty"`
	Events         map[string]any    `json:"events,omitempty"` // on_start, on_complete hooks
}

// StageAnimation is one animation inside a chain stage: a reference to a
// registered sequence or an inline state. Exactly one field is set.
type StageAnimation struct {
	Ref   string          `json:"ref,omitempty"`
	State *AnimationState `json:"state,omitempty"`
}

// ChainStage holds a set of animations and the conditions gating their
// activation.
type ChainStage struct {
	Animations []StageAnimation `json:"animations"`
	Conditions map[string]any   `json:"conditions,omitempty"`
}

// AnimationChain is a staged animation structure. In non-parallel mode the
// controller advances through stages strictly in order; in parallel mode any
// stage whose conditions hold may be active.
type AnimationChain struct {
	Name     string         `json:"name"`
	Stages   []ChainStage   `json:"stages"`
	Parallel bool           `json:"parallel,omitempty"`
	Events   map[string]any `json:"events,omitempty"`
}

// AnimationAttachment ties a sequence or chain to a target object, or to the
// scene as a whole when Target is "scene".
type AnimationAttachment struct {
	Type     string             `json:"type"` // "sequence" or "chain"
	Target   string             `json:"target"`
	Sequence *AnimationSequence `json:"sequence,omitempty"`
	Chain    *AnimationChain    `json:"chain,omitempty"`
}
