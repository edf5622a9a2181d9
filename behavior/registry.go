package behavior

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownInstance is returned when an event names an unregistered instance.
var ErrUnknownInstance = errors.New("unknown behavior instance")

// Registry maps instance ids to their drivers. Ids are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds a driver under id. Registering the same id twice is an error.
func (r *Registry) Register(id string, d Driver) error {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return errors.New("behavior instance id must not be empty")
	}
	if d == nil {
		return fmt.Errorf("nil driver for instance %q", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[key]; ok {
		return fmt.Errorf("behavior instance %q already registered", id)
	}
	r.drivers[key] = d
	return nil
}

// Get returns the driver registered under id, or nil.
func (r *Registry) Get(id string) Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drivers[strings.ToLower(strings.TrimSpace(id))]
}

// IDs returns all registered instance ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.drivers))
	for id := range r.drivers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drivers)
}

// Dispatch routes a press or release to the instance named by ev.
func (r *Registry) Dispatch(ev BindingEvent, pressed bool) (Result, error) {
	d := r.Get(ev.Instance)
	if d == nil {
		return NotHandled, fmt.Errorf("%w: %q", ErrUnknownInstance, ev.Instance)
	}
	if pressed {
		return d.BindingPressed(ev), nil
	}
	return d.BindingReleased(ev), nil
}
