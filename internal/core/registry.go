// Package core defines the ActionRegistry shared between an Engine's owner and
// its dispatch goroutine.
package core

import (
	"sort"
	"sync"
)

// Action is a zero-argument side effect run after a transition commits.
type Action func()

// ActionRegistry maps action names to callbacks.
// Safe for concurrent Register/Lookup; a lookup sees either the previous or
// the fully registered callback for a name, never a partial write.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// NewActionRegistry creates an empty ActionRegistry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[string]Action)}
}

// Register inserts or overwrites the action stored under name.
// A nil action removes the entry.
func (r *ActionRegistry) Register(name string, action Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if action == nil {
		delete(r.actions, name)
		return
	}
	r.actions[name] = action
}

// Lookup returns the action registered under name.
func (r *ActionRegistry) Lookup(name string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered action names, sorted.
func (r *ActionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered actions.
func (r *ActionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
