package gpucore

import "errors"

// Errors reported by Device implementations.
var (
	// ErrInvalidDescriptor is returned for zero-sized or unknown-format resources.
	ErrInvalidDescriptor = errors.New("gpucore: invalid resource descriptor")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("gpucore: unknown resource")

	// ErrAlreadyMapped is returned when mapping a buffer that is mapped.
	ErrAlreadyMapped = errors.New("gpucore: buffer already mapped")

	// ErrRegionOutOfBounds is returned when a write exceeds the resource.
	ErrRegionOutOfBounds = errors.New("gpucore: region out of bounds")
)

// Device is the set of resource operations the display needs from a GPU.
//
// All methods are called from the render thread. Implementations are not
// required to be safe for concurrent use.
type Device interface {
	// CreateTexture allocates a texture with the given sampling state.
	// Contents are undefined until written.
	CreateTexture(desc TextureDesc) (TextureID, error)

	// WriteTexture uploads tightly packed texels into region r.
	WriteTexture(id TextureID, r Region, data []byte) error

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// CreateBuffer allocates a buffer. Contents are undefined until written.
	CreateBuffer(desc BufferDesc) (BufferID, error)

	// WriteBuffer uploads data at the given byte offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// MapBuffer exposes the buffer contents to the host. The returned
	// slice is valid until UnmapBuffer.
	MapBuffer(id BufferID, mode MapMode) ([]byte, error)

	// UnmapBuffer ends a mapping and publishes host writes to the device.
	UnmapBuffer(id BufferID) error

	// DestroyBuffer releases a buffer. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)

	// WaitIdle blocks until all submitted device work is complete.
	WaitIdle() error
}
