// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about gesture classification, emitted
// intents, collision searches, and frame rendering.
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
//   - Keeps the engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs, ...)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnIntent("create_connection", from+"->"+to)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the canvas interaction engine. The engine
// calls these synchronously on its event-handling goroutine, so
// implementations must be cheap and non-blocking.
type EngineHooks interface {
	// OnGesture records a classified pointer gesture ("click", "drag",
	// "pan", "area_select", "wheel_zoom") with its screen-space travel.
	OnGesture(kind string, travel float64)

	// OnModeChange records an interaction mode transition.
	OnModeChange(from, to string)

	// OnIntent records an intent emitted to the external collaborator.
	OnIntent(kind, subject string)

	// OnCollisionSearch records a nearest-free-position query: whether the
	// desired position was already free, and how far the result moved.
	OnCollisionSearch(free bool, displacement float64)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from frame production and sinks.
type RenderHooks interface {
	// OnFrame records a produced frame with its primitive count.
	OnFrame(primitives int, duration time.Duration)

	// OnSink records an export through a sink ("svg", "png", "dot").
	OnSink(format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnGesture(string, float64)       {}
func (NoopEngineHooks) OnModeChange(string, string)     {}
func (NoopEngineHooks) OnIntent(string, string)         {}
func (NoopEngineHooks) OnCollisionSearch(bool, float64) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnFrame(int, time.Duration)               {}
func (NoopRenderHooks) OnSink(string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine use.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	renderHooks = NoopRenderHooks{}
}
