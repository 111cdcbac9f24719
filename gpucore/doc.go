// Package gpucore provides the GPU resource abstraction shared by the
// rfscope display and its backends.
//
// The display never talks to a graphics API directly. It allocates,
// clears, maps and releases resources through the [Device] interface,
// which is implemented by:
//   - render.SoftwareDevice (in-memory, used by the CPU renderer and tests)
//   - backend/native.Device (gogpu/wgpu HAL)
//
// Resources are identified by opaque IDs. Each implementation maintains a
// mapping between IDs and its own handles; [InvalidID] is never issued.
//
//	               +-----------------+
//	               |     scope       |
//	               | (Display pool)  |
//	               +--------+--------+
//	                        |
//	                 gpucore.Device
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	| SoftwareDevice  |          |  native.Device  |
//	|  (host memory)  |          |  (hal.Device)   |
//	+-----------------+          +-----------------+
package gpucore
