package language

import (
	"fmt"
	"sync"
)

// Registry holds the configured language descriptors.
type Registry struct {
	byID  map[string]Descriptor
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a registry pre-populated with the built-in
// languages.
func NewRegistry() *Registry {
	r := &Registry{
		byID: make(map[string]Descriptor),
	}
	r.registerBuiltins()
	return r
}

// Register validates and adds a descriptor. Ids are unique; built-ins
// cannot be redefined.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[d.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateLanguage, d.ID)
	}
	r.byID[d.ID] = d
	r.order = append(r.order, d.ID)
	return nil
}

// Get returns the descriptor for an id.
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

// IDs returns all registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Extensions returns the distinct source extensions in registration
// order. The diagnostic parser constrains file matches to this set.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool, len(r.order))
	exts := make([]string, 0, len(r.order))
	for _, id := range r.order {
		ext := r.byID[id].Extension
		if seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}

func (r *Registry) registerBuiltins() {
	builtins := []Descriptor{
		{
			ID:        "swift",
			Name:      "Swift",
			Extension: "swift",
			Command:   []string{"/usr/bin/env", "swift", ScriptPlaceholder},
		},
		{
			ID:        "kotlin",
			Name:      "Kotlin",
			Extension: "kts",
			Command:   []string{"kotlinc", "-script", ScriptPlaceholder},
		},
	}
	for _, d := range builtins {
		_ = r.Register(d)
	}
}
