package describe

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Factory constructs an empty instance of a registered type. The instance is
// fully usable for deserialization (ports allocated, fields zeroed) but not
// yet wired into any model.
type Factory func() any

// registry maps composite type names to factories. Population happens via
// init-time registration in the packages that define node kinds; lookups
// happen during model loading.
type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var global = &registry{factories: make(map[string]Factory)}

// Register adds a factory under the given composite type name. Registering
// the same name twice is an error: it would make serialized models ambiguous.
func Register(typeName string, f Factory) error {
	if typeName == "" || f == nil {
		return fmt.Errorf("register %q: empty type name or nil factory", typeName)
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	if _, exists := global.factories[typeName]; exists {
		return fmt.Errorf("register %q: already registered", typeName)
	}
	global.factories[typeName] = f
	return nil
}

// MustRegister is Register for init-time use; it panics on error since a
// duplicate registration is a programming bug, not a runtime condition.
func MustRegister(typeName string, f Factory) {
	if err := Register(typeName, f); err != nil {
		panic(err)
	}
}

// Create instantiates the type registered under typeName.
func Create(typeName string) (any, error) {
	global.mu.RLock()
	f, ok := global.factories[typeName]
	global.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("create %q: unknown type", typeName)
	}
	return f(), nil
}

// Registered returns all registered type names in sorted order.
func Registered() []string {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return slices.Sorted(maps.Keys(global.factories))
}
