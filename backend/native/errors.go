package native

import "errors"

// Errors returned by the native backend.
var (
	// ErrNilHALDevice is returned when a device or queue is missing.
	ErrNilHALDevice = errors.New("native: HAL device is nil")

	// ErrNoHALProvider is returned when a provider does not expose HAL
	// types through HalDevice() and HalQueue().
	ErrNoHALProvider = errors.New("native: provider does not expose HAL types")

	// ErrNoTextureView is returned when a render target has no HAL view.
	ErrNoTextureView = errors.New("native: render target has no texture view")

	// ErrNilScene is returned when scene is nil.
	ErrNilScene = errors.New("native: nil scene")

	// ErrGPUTimeout is returned when a submission does not complete.
	ErrGPUTimeout = errors.New("native: timed out waiting for GPU")
)
