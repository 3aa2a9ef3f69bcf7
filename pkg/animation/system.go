package animation

import (
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// System is a registry of sequences and chains for one scene generation.
// Structures are validated on registration so that defects surface at
// construction time; a registered sequence or chain is known-good.
//
// A System is built per generation request and is not shared across
// concurrent generations.
type System struct {
	sequences map[string]*scene.AnimationSequence
	chains    map[string]*scene.AnimationChain
}

// NewSystem creates an empty animation registry.
func NewSystem() *System {
	return &System{
		sequences: make(map[string]*scene.AnimationSequence),
		chains:    make(map[string]*scene.AnimationChain),
	}
}

// CreateSequence validates and registers a sequence.
func (s *System) CreateSequence(seq scene.AnimationSequence) (*scene.AnimationSequence, error) {
	if err := validateSequence(&seq); err != nil {
		return nil, err
	}
	registered := seq
	s.sequences[seq.Name] = &registered
	return &registered, nil
}

// CreateChain validates and registers a chain. Sequence references inside
// stages must already be registered; inline states are validated in place.
func (s *System) CreateChain(chain scene.AnimationChain) (*scene.AnimationChain, error) {
	if chain.Name == "" {
		return nil, scene.Structuralf("animation chain without a name")
	}
	for i, stage := range chain.Stages {
		for j, anim := range stage.Animations {
			switch {
			case anim.Ref != "" && anim.State != nil:
				return nil, scene.Structuralf("chain %q stage %d animation %d is both ref and state", chain.Name, i, j)
			case anim.Ref != "":
				if _, ok := s.sequences[anim.Ref]; !ok {
					return nil, scene.Structuralf("chain %q stage %d references undefined sequence %q", chain.Name, i, anim.Ref)
				}
			case anim.State != nil:
				if err := ValidateState(anim.State); err != nil {
					return nil, err
				}
			default:
				return nil, scene.Structuralf("chain %q stage %d animation %d is empty", chain.Name, i, j)
			}
		}
	}
	registered := chain
	s.chains[chain.Name] = &registered
	return &registered, nil
}

// Sequence returns a registered sequence, or nil.
func (s *System) Sequence(name string) *scene.AnimationSequence {
	return s.sequences[name]
}

// Chain returns a registered chain, or nil.
func (s *System) Chain(name string) *scene.AnimationChain {
	return s.chains[name]
}
