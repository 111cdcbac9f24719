package backend

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/gogpu/rfscope"
)

// BackendFactory creates a new backend instance.
type BackendFactory func() RenderBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)

	// Native is only registered by hosts that own a GPU.
	backendPriority = []string{BackendNative, BackendSoftware}
)

// Register adds or replaces the factory for name.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) RenderBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// candidates returns registered names in selection order: backendPriority
// first, then the rest sorted. Caller must hold registryMu.
func candidates() []string {
	out := make([]string, 0, len(backends))
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			out = append(out, name)
		}
	}
	rest := make([]string, 0, len(backends))
	for name := range backends {
		if !slices.Contains(backendPriority, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Default returns an uninitialized instance of the first registered backend
// in priority order (native, software, then by name), or nil.
func Default() RenderBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range candidates() {
		if b := backends[name](); b != nil {
			return b
		}
	}
	return nil
}

// MustDefault returns the default backend or panics.
func MustDefault() RenderBackend {
	b := Default()
	if b == nil {
		panic("backend: no backend available")
	}
	return b
}

// InitDefault initializes backends in priority order and returns the first
// that comes up. A backend whose Init fails is skipped; if none succeeds the
// error joins every failure with ErrBackendNotAvailable.
func InitDefault() (RenderBackend, error) {
	registryMu.RLock()
	names := candidates()
	registryMu.RUnlock()

	errs := []error{ErrBackendNotAvailable}
	for _, name := range names {
		b := Get(name)
		if b == nil {
			continue
		}
		if err := b.Init(); err != nil {
			rfscope.Logger().Warn("backend init failed", "backend", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return b, nil
	}
	return nil, errors.Join(errs...)
}

// Open returns the named backend, initialized.
func Open(name string) (RenderBackend, error) {
	b := Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	if err := b.Init(); err != nil {
		return nil, err
	}
	return b, nil
}
