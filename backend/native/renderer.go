package native

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rfscope"
	"github.com/gogpu/rfscope/gpucore"
	"github.com/gogpu/rfscope/render"
)

// Renderer implements render.Renderer with wgpu HAL render passes.
//
// Every Render call records one render pass that loads the target,
// draws the scene in command order and is submitted with a fence. Flush
// waits for all submitted passes and releases their per-frame resources.
//
// All draws share one shader and bind group layout; pipelines differ only
// in topology, blending and target format and are cached.
type Renderer struct {
	dev    *Device
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	cache      *pipelineCache

	// Placeholders bound when a draw samples nothing.
	blankSource hal.Texture
	blankView   hal.TextureView
	blankMask   hal.Texture
	blankMaskV  hal.TextureView
	maskSampler hal.Sampler

	pending []*frame
}

var _ render.CapableRenderer = (*Renderer)(nil)

// frame holds the GPU objects of one submitted render pass.
type frame struct {
	cmdBuf hal.CommandBuffer
	fence  hal.Fence

	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
	textures   []hal.Texture
	views      []hal.TextureView
}

// drawCall is one recorded draw.
type drawCall struct {
	key       pipelineKey
	bindGroup hal.BindGroup
	vertices  hal.Buffer // nil: use the frame vertex buffer
	first     uint32
	count     uint32
}

// NewRenderer creates a renderer drawing with dev's HAL device. The
// shader is compiled with naga and all pipelines are created lazily.
func NewRenderer(dev *Device) (*Renderer, error) {
	if dev == nil {
		return nil, ErrNilHALDevice
	}
	r := &Renderer{dev: dev, device: dev.device, queue: dev.queue}
	r.cache = newPipelineCache(r.createPipeline, r.device.DestroyRenderPipeline)
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	rfscope.Logger().Info("native: renderer created")
	return r, nil
}

func (r *Renderer) init() error {
	shader, err := createShaderModule(r.device, "scope_shader", scopeShaderSource)
	if err != nil {
		return fmt.Errorf("native: %w", err)
	}
	r.shader = shader

	// Bind group layout:
	//   Binding 0: Uniforms (uniform buffer, vertex+fragment)
	//   Binding 1: source data texture (unfilterable float, fragment)
	//   Binding 2: lookup table or text mask (float, fragment)
	//   Binding 3: sampler for binding 2 (fragment)
	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "scope_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "scope_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("native: create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	if r.blankSource, r.blankView, err = r.createTexture("scope_blank_source", 1, 1, gputypes.TextureFormatR32Float); err != nil {
		return err
	}
	if r.blankMask, r.blankMaskV, err = r.createTexture("scope_blank_mask", 1, 1, gputypes.TextureFormatR8Unorm); err != nil {
		return err
	}

	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "scope_mask_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("native: create mask sampler: %w", err)
	}
	r.maskSampler = sampler
	return nil
}

func (r *Renderer) createTexture(label string, w, h uint32, format gputypes.TextureFormat) (hal.Texture, hal.TextureView, error) {
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("native: create %s: %w", label, err)
	}
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("native: create %s view: %w", label, err)
	}
	return tex, view, nil
}

func (r *Renderer) createPipeline(key pipelineKey) (hal.RenderPipeline, error) {
	entry := "vs_main"
	layout := []gputypes.VertexBufferLayout{{
		ArrayStride: vertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
		},
	}}
	topology := gputypes.PrimitiveTopologyTriangleList

	switch key.prim {
	case primLines:
		topology = gputypes.PrimitiveTopologyLineList
	case primStrip:
		entry = "vs_strip"
		topology = gputypes.PrimitiveTopologyLineStrip
		layout = []gputypes.VertexBufferLayout{{
			ArrayStride: stripStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			},
		}}
	}

	target := gputypes.ColorTargetState{
		Format:    key.format,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if key.blend {
		premulBlend := gputypes.BlendStatePremultiplied()
		target.Blend = &premulBlend
	}

	return r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "scope_" + key.prim.String(),
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: entry,
			Buffers:    layout,
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

// Render implements render.Renderer. The target must expose a HAL
// texture view.
func (r *Renderer) Render(target render.RenderTarget, scene *render.Scene) error {
	if target == nil {
		return errors.New("native: nil target")
	}
	if scene == nil {
		return ErrNilScene
	}
	view, ok := halView(target)
	if !ok {
		return ErrNoTextureView
	}
	if scene.IsEmpty() {
		return nil
	}

	f := &frame{}
	calls, err := r.record(f, target, scene)
	if err != nil {
		r.release(f)
		return err
	}
	if err := r.submit(f, view, calls); err != nil {
		r.release(f)
		return err
	}
	r.pending = append(r.pending, f)
	return nil
}

// record builds the vertex data, uniforms and bind groups of every
// command.
func (r *Renderer) record(f *frame, target render.RenderTarget, scene *render.Scene) ([]drawCall, error) {
	format := target.Format()
	w, h := target.Width(), target.Height()

	var verts []byte
	calls := make([]drawCall, 0, scene.Len())

	for _, cmd := range scene.Commands() {
		u := uniforms{transform: rfscope.Identity(), width: w, height: h}
		call := drawCall{key: pipelineKey{prim: primTriangles, format: format}}
		source, lut, sampler := r.blankView, r.blankMaskV, r.maskSampler
		first := uint32(len(verts) / vertexStride) //nolint:gosec // bounded by frame size

		switch c := cmd.(type) {
		case render.QuadCmd:
			u.transform = c.Transform
			u.color = c.Color
			call.key.blend = c.Blend == render.BlendAlpha
			if cm := c.Colormap; cm != nil {
				src, ok := r.dev.texture(cm.Source)
				if !ok {
					return nil, fmt.Errorf("native: %w: source texture %d", gpucore.ErrUnknownResource, cm.Source)
				}
				tbl, ok := r.dev.texture(cm.LUT)
				if !ok || tbl.sampler == nil {
					return nil, fmt.Errorf("native: %w: lookup texture %d", gpucore.ErrUnknownResource, cm.LUT)
				}
				source, lut, sampler = src.view, tbl.view, tbl.sampler
				u.mode = modeColormap
				u.scale, u.offset = cm.Scale, cm.Offset
				u.filter = filterFor(cm.Mode)
				u.repeatU = src.desc.WrapU == gpucore.AddressRepeat
				u.repeatV = src.desc.WrapV == gpucore.AddressRepeat
			}
			verts = appendQuad(verts, c.Rect, c.U0, c.V0, c.U1, c.V1)

		case render.LinesCmd:
			u.transform = c.Transform
			u.color = c.Color
			call.key.prim = primLines
			call.key.blend = c.Blend == render.BlendAlpha
			verts = appendLines(verts, c.Points)

		case render.LineStripCmd:
			b, ok := r.dev.buffer(c.Buffer)
			if !ok {
				return nil, fmt.Errorf("native: %w: buffer %d", gpucore.ErrUnknownResource, c.Buffer)
			}
			if c.First < 0 || c.Count < 0 || uint64(c.First+c.Count)*stripStride > b.desc.Size {
				return nil, fmt.Errorf("native: strip [%d,+%d) outside buffer %d", c.First, c.Count, c.Buffer)
			}
			u.transform = c.Transform
			u.color = c.Color
			call.key.prim = primStrip
			call.key.blend = c.Blend == render.BlendAlpha
			call.vertices = b.buf
			call.first = uint32(c.First) //nolint:gosec // validated above
			call.count = uint32(c.Count) //nolint:gosec // validated above

		case render.TextCmd:
			if c.Mask == nil || c.Mask.Bounds().Empty() {
				continue
			}
			mtex, mview, err := r.uploadMask(c.Mask)
			if err != nil {
				return nil, err
			}
			f.textures = append(f.textures, mtex)
			f.views = append(f.views, mview)
			lut = mview
			u.color = c.Color
			u.mode = modeMask
			call.key.blend = true
			verts = appendText(verts, c.Origin, c.Mask)

		default:
			continue
		}

		if call.vertices == nil {
			call.first = first
			call.count = uint32(len(verts)/vertexStride) - first //nolint:gosec // bounded by frame size
		}
		if call.count == 0 {
			continue
		}

		bg, err := r.bindGroup(f, u, source, lut, sampler)
		if err != nil {
			return nil, err
		}
		call.bindGroup = bg
		calls = append(calls, call)
	}

	if len(verts) > 0 {
		vb, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "scope_vertices",
			Size:  uint64(len(verts)),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("native: create vertex buffer: %w", err)
		}
		f.buffers = append(f.buffers, vb)
		r.queue.WriteBuffer(vb, 0, verts)
		for i := range calls {
			if calls[i].vertices == nil {
				calls[i].vertices = vb
			}
		}
	}
	return calls, nil
}

// uploadMask creates a single-channel texture holding a text mask.
func (r *Renderer) uploadMask(mask *image.Alpha) (hal.Texture, hal.TextureView, error) {
	b := mask.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // non-empty bounds
	tex, view, err := r.createTexture("scope_text_mask", w, h, gputypes.TextureFormatR8Unorm)
	if err != nil {
		return nil, nil, err
	}
	r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		maskPixels(mask),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return tex, view, nil
}

// bindGroup uploads one uniform block and binds it with its textures.
func (r *Renderer) bindGroup(f *frame, u uniforms, source, lut hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	ub, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "scope_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create uniform buffer: %w", err)
	}
	f.buffers = append(f.buffers, ub)
	r.queue.WriteBuffer(ub, 0, u.bytes())

	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "scope_bind_group",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uniformSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: source.NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: lut.NativeHandle()}},
			{Binding: 3, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create bind group: %w", err)
	}
	f.bindGroups = append(f.bindGroups, bg)
	return bg, nil
}

// submit encodes one render pass over view and submits it with a fence.
func (r *Renderer) submit(f *frame, view hal.TextureView, calls []drawCall) error {
	// Resolve pipelines before encoding so a failure leaves no open pass.
	pipelines := make([]hal.RenderPipeline, len(calls))
	for i, c := range calls {
		p, err := r.cache.get(c.key)
		if err != nil {
			return fmt.Errorf("native: %w", err)
		}
		pipelines[i] = p
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "scope_encoder",
	})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("scope_frame"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "scope_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	for i, c := range calls {
		rp.SetPipeline(pipelines[i])
		rp.SetBindGroup(0, c.bindGroup, nil)
		rp.SetVertexBuffer(0, c.vertices, 0)
		rp.Draw(c.count, 1, c.first, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	f.cmdBuf = cmdBuf

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	f.fence = fence

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	return nil
}

// Flush implements render.Renderer. It waits for every pass submitted
// since the previous Flush and frees their resources.
func (r *Renderer) Flush() error {
	var firstErr error
	for _, f := range r.pending {
		if firstErr == nil {
			ok, err := r.device.Wait(f.fence, 1, waitTimeout)
			switch {
			case err != nil:
				firstErr = fmt.Errorf("native: wait: %w", err)
			case !ok:
				firstErr = ErrGPUTimeout
			}
		}
		r.release(f)
	}
	r.pending = r.pending[:0]
	if firstErr != nil {
		rfscope.Logger().Warn("native: flush failed", "err", firstErr)
	}
	return firstErr
}

// release destroys the per-frame objects of f.
func (r *Renderer) release(f *frame) {
	if f.cmdBuf != nil {
		r.device.FreeCommandBuffer(f.cmdBuf)
	}
	if f.fence != nil {
		r.device.DestroyFence(f.fence)
	}
	for _, bg := range f.bindGroups {
		r.device.DestroyBindGroup(bg)
	}
	for _, b := range f.buffers {
		r.device.DestroyBuffer(b)
	}
	for _, v := range f.views {
		r.device.DestroyTextureView(v)
	}
	for _, t := range f.textures {
		r.device.DestroyTexture(t)
	}
	*f = frame{}
}

// Capabilities implements render.CapableRenderer.
func (r *Renderer) Capabilities() render.RendererCapabilities {
	return render.RendererCapabilities{
		IsGPU:                 true,
		SupportsLineSmoothing: false,
		SupportsBicubic:       false,
		MaxTextureSize:        8192,
	}
}

// PipelineStats returns the pipeline cache hit and miss counters.
func (r *Renderer) PipelineStats() (hits, misses uint64) {
	return r.cache.stats()
}

// Destroy waits for outstanding work and releases all GPU objects. The
// Device and the textures it owns are not affected.
func (r *Renderer) Destroy() {
	if r == nil || r.device == nil {
		return
	}
	_ = r.Flush()
	r.cache.clear()

	if r.maskSampler != nil {
		r.device.DestroySampler(r.maskSampler)
		r.maskSampler = nil
	}
	for _, v := range []hal.TextureView{r.blankView, r.blankMaskV} {
		if v != nil {
			r.device.DestroyTextureView(v)
		}
	}
	for _, t := range []hal.Texture{r.blankSource, r.blankMask} {
		if t != nil {
			r.device.DestroyTexture(t)
		}
	}
	r.blankView, r.blankMaskV, r.blankSource, r.blankMask = nil, nil, nil, nil

	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
