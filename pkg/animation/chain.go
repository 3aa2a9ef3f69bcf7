package animation

import (
	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// ChainController drives a chain's stages. The controller has no internal
// timer; the caller ticks it, and eligibility is evaluated once per tick.
type ChainController struct {
	chain      *scene.AnimationChain
	current    int
	dispatched []bool
}

// NewChainController wraps a chain that was registered (and therefore
// validated) on the given system.
func NewChainController(sys *System, name string) (*ChainController, error) {
	chain := sys.Chain(name)
	if chain == nil {
		return nil, scene.Structuralf("chain %q is not registered", name)
	}
	return &ChainController{
		chain:      chain,
		dispatched: make([]bool, len(chain.Stages)),
	}, nil
}

// CurrentStage returns the index of the stage the controller is waiting on.
// Once every stage has run it equals the stage count.
func (c *ChainController) CurrentStage() int {
	return c.current
}

// Dispatched reports whether the given stage has been started.
func (c *ChainController) Dispatched(stage int) bool {
	return stage >= 0 && stage < len(c.dispatched) && c.dispatched[stage]
}

// Tick evaluates stage eligibility against vars and returns the indexes of
// stages dispatched by this tick.
//
// Non-parallel chains consider only the current stage; when its conditions
// hold it is dispatched and current_stage advances. Parallel chains consider
// every undispatched stage, and current_stage does not advance.
func (c *ChainController) Tick(vars map[string]any) []int {
	var started []int

	if c.chain.Parallel {
		for i, stage := range c.chain.Stages {
			if c.dispatched[i] {
				continue
			}
			if conditionsMet(stage.Conditions, vars) {
				c.dispatched[i] = true
				started = append(started, i)
			}
		}
		return started
	}

	if c.current >= len(c.chain.Stages) {
		return nil
	}
	stage := c.chain.Stages[c.current]
	if conditionsMet(stage.Conditions, vars) {
		c.dispatched[c.current] = true
		started = append(started, c.current)
		c.current++
	}
	return started
}
