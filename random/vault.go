package random

import (
	"context"
	"sync"
)

// SeedVault stores pending (committed but unrevealed) server seeds, keyed by
// player+game. Take is single-use: a consumed seed is gone, which is what
// makes a commitment valid for exactly one spin cycle.
type SeedVault interface {
	Put(ctx context.Context, key, serverSeed string) error
	// Take returns the pending seed and removes it. ok is false when no
	// commitment is pending for the key.
	Take(ctx context.Context, key string) (serverSeed string, ok bool, err error)
}

// MemoryVault is an in-process SeedVault for tests and single-node dev runs.
type MemoryVault struct {
	mu    sync.Mutex
	seeds map[string]string
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{seeds: make(map[string]string)}
}

// Put stores a pending seed, replacing any previous one for the key.
func (v *MemoryVault) Put(ctx context.Context, key, serverSeed string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seeds[key] = serverSeed
	return nil
}

// Take removes and returns the pending seed for the key.
func (v *MemoryVault) Take(ctx context.Context, key string) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	seed, ok := v.seeds[key]
	if ok {
		delete(v.seeds, key)
	}
	return seed, ok, nil
}
