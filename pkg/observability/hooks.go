// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout generation and constraint translation.
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
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Engine().OnGenerateStart(atomCount)
//	// ... generate layout ...
//	observability.Engine().OnGenerateComplete(nodes, edges, conflict)
package observability

import "sync"

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from layout generation.
type EngineHooks interface {
	// OnGenerateStart records the beginning of a layout generation pass.
	OnGenerateStart(atomCount int)

	// OnConstraints records the non-cyclic constraint count, before the
	// cyclic search runs.
	OnConstraints(count int)

	// OnGenerateComplete records the finished layout. conflict is the
	// attached degradation error, or nil for a clean layout.
	OnGenerateComplete(nodeCount, edgeCount int, conflict error)
}

// =============================================================================
// Translate Hooks
// =============================================================================

// TranslateHooks receives events from constraint translation.
type TranslateHooks interface {
	// OnTranslate records the size of one translated layout.
	OnTranslate(nodeCount, edgeCount, constraintCount int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnGenerateStart(int)              {}
func (NoopEngineHooks) OnConstraints(int)                {}
func (NoopEngineHooks) OnGenerateComplete(int, int, error) {}

// NoopTranslateHooks is a no-op implementation of TranslateHooks.
type NoopTranslateHooks struct{}

func (NoopTranslateHooks) OnTranslate(int, int, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks    EngineHooks    = NoopEngineHooks{}
	translateHooks TranslateHooks = NoopTranslateHooks{}
	hooksMu        sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any layout runs.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetTranslateHooks registers custom translation hooks.
// This should be called once at application startup before any layout runs.
func SetTranslateHooks(h TranslateHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		translateHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Translate returns the registered translation hooks.
func Translate() TranslateHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return translateHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	translateHooks = NoopTranslateHooks{}
}
