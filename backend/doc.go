// Package backend provides a pluggable rendering backend abstraction.
//
// A backend bundles the gpucore.Device that holds a display's textures and
// vertex buffer with the render.Renderer that executes its frames. The
// device and renderer of one backend always belong together: the renderer
// samples the device's textures directly.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The CPU backends are automatically registered on import:
//
//	import _ "github.com/gogpu/rfscope/backend"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Open() to request
// a specific backend by name:
//
//	b, err := backend.Open("software")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	d, err := scope.New(b.Device(), b.Renderer())
//
// # Available Backends
//
//   - "software": CPU rasterizer onto render.PixmapTarget (always available)
//   - "recorder": records draw commands without drawing (always available)
//   - "native": gogpu/wgpu HAL renderer on a host-provided device; register
//     it with NewNativeBackend
package backend
