// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about model computation, transformation, and storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetModelHooks(&myModelHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Callers emit events around operations:
//
//	observability.Model().OnComputeStart(ctx, nodeCount)
//	// ... run the model ...
//	observability.Model().OnComputeComplete(ctx, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Model Hooks
// =============================================================================

// ModelHooks receives events from model computation and transformation.
type ModelHooks interface {
	// Compute events
	OnComputeStart(ctx context.Context, nodeCount int)
	OnComputeComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)

	// Transform events
	OnTransformStart(ctx context.Context, nodeCount int)
	OnTransformComplete(ctx context.Context, inCount, outCount int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from model store operations.
type StoreHooks interface {
	// OnStorePut records a stored snapshot and its payload size.
	OnStorePut(ctx context.Context, backend, name string, size int)

	// OnStoreGet records a lookup. found is false when the name was unknown.
	OnStoreGet(ctx context.Context, backend, name string, found bool)

	// OnStoreDelete records a deletion.
	OnStoreDelete(ctx context.Context, backend, name string)
}

// =============================================================================
// Serve Hooks
// =============================================================================

// ServeHooks receives events from the HTTP model service.
type ServeHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopModelHooks is a no-op implementation of ModelHooks.
type NoopModelHooks struct{}

func (NoopModelHooks) OnComputeStart(context.Context, int)                          {}
func (NoopModelHooks) OnComputeComplete(context.Context, int, time.Duration, error) {}
func (NoopModelHooks) OnTransformStart(context.Context, int)                        {}
func (NoopModelHooks) OnTransformComplete(context.Context, int, int, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStorePut(context.Context, string, string, int)  {}
func (NoopStoreHooks) OnStoreGet(context.Context, string, string, bool) {}
func (NoopStoreHooks) OnStoreDelete(context.Context, string, string)    {}

// NoopServeHooks is a no-op implementation of ServeHooks.
type NoopServeHooks struct{}

func (NoopServeHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServeHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	modelHooks ModelHooks = NoopModelHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	serveHooks ServeHooks = NoopServeHooks{}
	hooksMu    sync.RWMutex
)

// SetModelHooks registers custom model hooks.
// This should be called once at application startup before any model operations.
func SetModelHooks(h ModelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		modelHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetServeHooks registers custom serve hooks.
// This should be called once at application startup before serving requests.
func SetServeHooks(h ServeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serveHooks = h
	}
}

// Model returns the registered model hooks.
func Model() ModelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return modelHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Serve returns the registered serve hooks.
func Serve() ServeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serveHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	modelHooks = NoopModelHooks{}
	storeHooks = NoopStoreHooks{}
	serveHooks = NoopServeHooks{}
}
