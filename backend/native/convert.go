package native

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rfscope/gpucore"
)

// convertBufferUsage converts gpucore.BufferUsage to gputypes.BufferUsage.
//
// Host mapping is served from a shadow copy (see Device.MapBuffer), so
// MapWrite is not forwarded: WebGPU only allows it together with CopySrc.
// CopyDst is always set because the shadow is uploaded with WriteBuffer.
func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	result := gputypes.BufferUsageCopyDst

	if usage&gpucore.BufferUsageVertex != 0 {
		result |= gputypes.BufferUsageVertex
	}
	if usage&gpucore.BufferUsageMapRead != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	return result
}

// convertTextureFormat converts gpucore.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format gpucore.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpucore.TextureFormatR32Float:
		return gputypes.TextureFormatR32Float
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

func convertFilter(f gpucore.FilterMode) gputypes.FilterMode {
	if f == gpucore.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

func convertAddress(m gpucore.AddressMode) gputypes.AddressMode {
	if m == gpucore.AddressClampToEdge {
		return gputypes.AddressModeClampToEdge
	}
	return gputypes.AddressModeRepeat
}

// filterable reports whether a format can be read through a filtering
// sampler. 32-bit float textures need an optional feature, so they are
// read with textureLoad and filtered in the shader.
func filterable(format gpucore.TextureFormat) bool {
	return format != gpucore.TextureFormatR32Float
}
