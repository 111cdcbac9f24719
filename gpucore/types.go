package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each device implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageMapRead indicates the buffer can be mapped for reading.
	BufferUsageMapRead BufferUsage = 1 << 0

	// BufferUsageMapWrite indicates the buffer can be mapped for writing.
	BufferUsageMapWrite BufferUsage = 1 << 1

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 3

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 5

	// BufferUsageDynamic hints that the contents change every frame.
	BufferUsageDynamic BufferUsage = 1 << 9
)

// Has reports whether all bits of flag are set.
func (u BufferUsage) Has(flag BufferUsage) bool { return u&flag == flag }

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatR32Float is 32-bit red channel only, floating point.
	TextureFormatR32Float
)

// BytesPerPixel returns the texel size of the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8Unorm, TextureFormatR32Float:
		return 4
	default:
		return 0
	}
}

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	case TextureFormatR32Float:
		return "R32Float"
	default:
		return "Unknown"
	}
}

// FilterMode selects texel filtering when a texture is sampled.
type FilterMode uint8

// Filter modes.
const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// AddressMode selects how texture coordinates outside [0,1] are resolved.
type AddressMode uint8

// Address modes.
const (
	AddressRepeat AddressMode = iota
	AddressClampToEdge
)

// MapMode selects the host access granted by Device.MapBuffer.
type MapMode uint8

// Map modes.
const (
	MapRead MapMode = iota + 1
	MapWrite
)

// TextureDesc describes a 2D texture together with its sampling state.
type TextureDesc struct {
	Label     string
	Width     int
	Height    int
	Format    TextureFormat
	MinFilter FilterMode
	MagFilter FilterMode
	WrapU     AddressMode
	WrapV     AddressMode
}

// Size returns the storage size of one full texture image in bytes.
func (d TextureDesc) Size() int {
	return d.Width * d.Height * d.Format.BytesPerPixel()
}

// BufferDesc describes a buffer.
type BufferDesc struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// Region is a rectangle of texels.
type Region struct {
	X, Y          int
	Width, Height int
}

// TileRegions splits a width x height texture into tile x tile regions,
// row by row. Edge tiles are clipped to the texture bounds.
func TileRegions(width, height, tile int) []Region {
	if width <= 0 || height <= 0 || tile <= 0 {
		return nil
	}
	out := make([]Region, 0, ((width+tile-1)/tile)*((height+tile-1)/tile))
	for y := 0; y < height; y += tile {
		h := min(tile, height-y)
		for x := 0; x < width; x += tile {
			out = append(out, Region{X: x, Y: y, Width: min(tile, width-x), Height: h})
		}
	}
	return out
}
