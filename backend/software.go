package backend

import (
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend.
	BackendSoftware = "software"
	// BackendRecorder is the name of the command-recording backend.
	BackendRecorder = "recorder"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendNative = "native"
)

// SoftwareBackend draws on the CPU. Resources live in host memory and
// frames are rasterized into PixmapTargets.
type SoftwareBackend struct {
	device   *render.SoftwareDevice
	renderer *render.SoftwareRenderer
}

// RecorderBackend keeps resources in host memory like SoftwareBackend but
// only records draw commands. It is used to inspect frames without
// rasterizing them.
type RecorderBackend struct {
	device   *render.SoftwareDevice
	recorder *render.Recorder
}

// init registers the CPU backends on package import.
func init() {
	Register(BackendSoftware, func() RenderBackend {
		return &SoftwareBackend{}
	})
	Register(BackendRecorder, func() RenderBackend {
		return &RecorderBackend{}
	})
}

// NewSoftwareBackend creates a new software rendering backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init creates the device and renderer. Calling Init again is a no-op.
func (b *SoftwareBackend) Init() error {
	if b.device == nil {
		b.device = render.NewSoftwareDevice()
		b.renderer = render.NewParallelSoftwareRenderer(b.device, 0)
	}
	return nil
}

// Close releases all backend resources.
func (b *SoftwareBackend) Close() {
	if b.renderer != nil {
		b.renderer.Close()
	}
	b.device = nil
	b.renderer = nil
}

// Device implements RenderBackend.
func (b *SoftwareBackend) Device() gpucore.Device {
	if b.device == nil {
		return nil
	}
	return b.device
}

// Renderer implements RenderBackend.
func (b *SoftwareBackend) Renderer() render.Renderer {
	if b.renderer == nil {
		return nil
	}
	return b.renderer
}

// SoftwareDevice returns the concrete device for inspection.
// Returns nil before Init.
func (b *SoftwareBackend) SoftwareDevice() *render.SoftwareDevice {
	return b.device
}

// NewRecorderBackend creates a new recording backend.
func NewRecorderBackend() *RecorderBackend {
	return &RecorderBackend{}
}

// Name returns the backend identifier.
func (b *RecorderBackend) Name() string {
	return BackendRecorder
}

// Init creates the device and recorder. Calling Init again is a no-op.
func (b *RecorderBackend) Init() error {
	if b.device == nil {
		b.device = render.NewSoftwareDevice()
		b.recorder = render.NewRecorder()
	}
	return nil
}

// Close releases all backend resources.
func (b *RecorderBackend) Close() {
	b.device = nil
	b.recorder = nil
}

// Device implements RenderBackend.
func (b *RecorderBackend) Device() gpucore.Device {
	if b.device == nil {
		return nil
	}
	return b.device
}

// Renderer implements RenderBackend.
func (b *RecorderBackend) Renderer() render.Renderer {
	if b.recorder == nil {
		return nil
	}
	return b.recorder
}

// Recorder returns the recorder for inspection. Returns nil before Init.
func (b *RecorderBackend) Recorder() *render.Recorder {
	return b.recorder
}
