package backend

import (
	"fmt"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/backend/native"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
)

// NativeBackend draws with gogpu/wgpu HAL render passes on a device shared
// by a host application, such as a gogpu window.
//
// It is not registered by default because it needs the host's device
// handle:
//
//	backend.Register(backend.BackendNative, func() backend.RenderBackend {
//		return backend.NewNativeBackend(app)
//	})
type NativeBackend struct {
	handle   render.DeviceHandle
	device   *native.Device
	renderer *native.Renderer
}

// NewNativeBackend creates a backend over the host's device handle, which
// must also expose HalDevice() and HalQueue().
func NewNativeBackend(handle render.DeviceHandle) *NativeBackend {
	return &NativeBackend{handle: handle}
}

// Handle returns the host device handle the backend was created with.
func (b *NativeBackend) Handle() render.DeviceHandle {
	return b.handle
}

// Name returns the backend identifier.
func (b *NativeBackend) Name() string {
	return BackendNative
}

// Init wraps the handle's HAL device and builds the renderer.
func (b *NativeBackend) Init() error {
	if b.renderer != nil {
		return nil
	}
	dev, err := native.NewDeviceFromProvider(b.handle)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendNotAvailable, err)
	}
	r, err := native.NewRenderer(dev)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBackendNotAvailable, err)
	}
	b.device, b.renderer = dev, r
	rfscope.Logger().Info("backend: native renderer ready")
	return nil
}

// Close destroys the renderer. The shared device stays with its owner.
func (b *NativeBackend) Close() {
	if b.renderer != nil {
		b.renderer.Destroy()
	}
	b.device, b.renderer = nil, nil
}

// Device implements RenderBackend.
func (b *NativeBackend) Device() gpucore.Device {
	if b.device == nil {
		return nil
	}
	return b.device
}

// Renderer implements RenderBackend.
func (b *NativeBackend) Renderer() render.Renderer {
	if b.renderer == nil {
		return nil
	}
	return b.renderer
}
