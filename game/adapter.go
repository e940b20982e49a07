package game

import "context"

// EngineAdapter is the pluggable grid-generation capability. Implementations
// are studio-supplied and treated as opaque: given the same config and an rng
// yielding the same sequence, Play must return the same grid and winning
// combinations. Errors propagate unchanged to the caller.
//
// The orchestrator never inspects grid layout rules; it only forwards the
// result and hands the winning combinations to settlement.
type EngineAdapter interface {
	Play(ctx context.Context, cfg *SlotGameConfig, rng func() float64) (*EngineResult, error)
}

// EngineFunc adapts a plain function to the EngineAdapter interface.
type EngineFunc func(ctx context.Context, cfg *SlotGameConfig, rng func() float64) (*EngineResult, error)

// Play implements EngineAdapter.
func (f EngineFunc) Play(ctx context.Context, cfg *SlotGameConfig, rng func() float64) (*EngineResult, error) {
	return f(ctx, cfg, rng)
}
