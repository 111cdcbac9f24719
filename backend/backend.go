package backend

import (
	"errors"

	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// RenderBackend pairs the device that holds a display's textures and
// buffers with the renderer that draws them. A scope.Display is created
// from both.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Init creates the device and renderer.
	// This should be called before Device or Renderer.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the resource device, or nil before Init.
	Device() gpucore.Device

	// Renderer returns the renderer, or nil before Init.
	Renderer() render.Renderer
}
