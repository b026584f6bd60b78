package goadmin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps model names to their ModelAdmin descriptors. It is the single
// source of truth for which models the panel manages: handlers look models up
// here on every request, so registering and unregistering take effect
// immediately.
//
// All methods are safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	admins       map[string]ModelAdmin
	onUnregister []func(model string)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{admins: make(map[string]ModelAdmin)}
}

// Register adds a descriptor under its ModelName. Registering a name twice is
// an error; Unregister first when replacing a descriptor at runtime.
func (r *Registry) Register(admin ModelAdmin) error {
	name := admin.ModelName()
	if name == "" {
		return fmt.Errorf("model admin %T has no model name", admin)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[name]; ok {
		return fmt.Errorf("model %q is already registered", name)
	}
	r.admins[name] = admin
	return nil
}

// MustRegister is Register for program start-up, where a clash is a bug.
func (r *Registry) MustRegister(admin ModelAdmin) {
	if err := r.Register(admin); err != nil {
		panic(err)
	}
}

// Unregister removes a model and reports whether it was present. Sessions
// belonging to the model are invalidated through the registered hooks, so
// users signed in via a removed model lose access at once.
func (r *Registry) Unregister(model string) bool {
	r.mu.Lock()
	_, ok := r.admins[model]
	delete(r.admins, model)
	hooks := r.onUnregister
	r.mu.Unlock()

	if ok {
		for _, hook := range hooks {
			hook(model)
		}
	}
	return ok
}

// Get returns the descriptor registered under model.
func (r *Registry) Get(model string) (ModelAdmin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.admins[model]
	return admin, ok
}

// Names returns the registered model names, sorted for stable output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.admins))
	for name := range r.admins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins)
}

// OnUnregister adds a hook called after a model has been removed. New wires
// the session cascade through this.
func (r *Registry) OnUnregister(hook func(model string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUnregister = append(r.onUnregister, hook)
}
