package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/marmos91/triggerfish/pkg/mc"
)

// Registry manages the named microcontrollers available for deployment.
// It provides thread-safe registration and lookup.
//
// Controllers are registered once at startup; deployments reference
// them by name. Registration after the engine starts serving events is
// allowed but unusual.
//
// Example usage:
//
//	reg := engine.NewRegistry()
//	reg.MustRegister(prefetching.New())
//
//	controller, _ := reg.Get("prefetching")
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]mc.Microcontroller
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controllers: make(map[string]mc.Microcontroller),
	}
}

// Register adds a microcontroller to the registry under its own name.
// Returns an error if a controller with the same name already exists.
func (r *Registry) Register(controller mc.Microcontroller) error {
	if controller == nil {
		return fmt.Errorf("cannot register nil controller")
	}
	name := controller.Name()
	if name == "" {
		return fmt.Errorf("cannot register controller with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.controllers[name]; exists {
		return fmt.Errorf("controller %q already registered", name)
	}

	r.controllers[name] = controller
	return nil
}

// MustRegister adds a microcontroller and panics on error. Intended for
// wiring built-in controllers at startup, where a clash is a bug.
func (r *Registry) MustRegister(controller mc.Microcontroller) {
	if err := r.Register(controller); err != nil {
		panic(err)
	}
}

// Get retrieves a controller by name.
// Returns nil, error if the controller doesn't exist.
func (r *Registry) Get(name string) (mc.Microcontroller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controller, exists := r.controllers[name]
	if !exists {
		return nil, fmt.Errorf("controller %q not found", name)
	}
	return controller, nil
}

// Has checks if a controller with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.controllers[name]
	return exists
}

// Names returns all registered controller names, sorted.
// The returned slice is a copy and safe to modify.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns all registered controllers ordered by name.
// The returned slice is a copy and safe to modify.
func (r *Registry) List() []mc.Microcontroller {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)

	controllers := make([]mc.Microcontroller, 0, len(names))
	for _, name := range names {
		controllers = append(controllers, r.controllers[name])
	}
	return controllers
}

// Count returns the number of registered controllers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controllers)
}
