package game

import (
	"fmt"
	"sync"
)

// Registry holds the game definitions this runtime can serve.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*GameDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*GameDefinition)}
}

// Register adds a definition, replacing any previous one for the same
// studio/game identity.
func (r *Registry) Register(def *GameDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[registryKey(def.StudioID, def.GameID)] = def
}

// Find returns the definition for a studio/game identity.
func (r *Registry) Find(studioID, gameID string) (*GameDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[registryKey(studioID, gameID)]
	return def, ok
}

// All returns every registered definition.
func (r *Registry) All() []*GameDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*GameDefinition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	return out
}

func registryKey(studioID, gameID string) string {
	return fmt.Sprintf("%s/%s", studioID, gameID)
}
