package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rfscope/render"
)

// NewViewTarget wraps a HAL texture view, such as the current surface
// texture of a window, as a render target.
func NewViewTarget(view hal.TextureView, width, height int, format gputypes.TextureFormat) *render.SurfaceTarget {
	return render.NewSurfaceTarget(width, height, format, view)
}

func halView(t render.RenderTarget) (hal.TextureView, bool) {
	v := t.TextureView()
	if v == nil {
		return nil, false
	}
	hv, ok := v.(hal.TextureView)
	return hv, ok && hv != nil
}
