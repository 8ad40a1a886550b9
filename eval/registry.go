package eval

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps evaluator names to evaluators so runs can be
// configured by name, for example from a CLI flag.
type Registry struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{evaluators: make(map[string]Evaluator)}
}

// Register adds an evaluator under its own name. Registering the same
// name twice is an error.
func (r *Registry) Register(ev Evaluator) error {
	if ev == nil {
		return fmt.Errorf("evaluator is required")
	}
	name := ev.Name()
	if name == "" {
		return fmt.Errorf("evaluator name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.evaluators[name]; ok {
		return fmt.Errorf("evaluator %q is already registered", name)
	}
	r.evaluators[name] = ev
	return nil
}

// Get returns the named evaluator.
func (r *Registry) Get(name string) (Evaluator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.evaluators[name]
	return ev, ok
}

// Names returns the registered evaluator names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.evaluators))
	for name := range r.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves evaluator names for a run. An unknown name is an
// error listing the registered ones. With no names, every registered
// evaluator is returned in name order.
func (r *Registry) Select(names ...string) ([]Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(names) == 0 {
		names = r.namesLocked()
	}

	selected := make([]Evaluator, 0, len(names))
	for _, name := range names {
		ev, ok := r.evaluators[name]
		if !ok {
			return nil, fmt.Errorf("unknown evaluator %q (registered: %s)",
				name, strings.Join(r.namesLocked(), ", "))
		}
		selected = append(selected, ev)
	}
	return selected, nil
}
