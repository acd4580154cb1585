// Pipelines implements the four GPU render paths named in spec.md 4.2:
// scale, shader, overlay and blend. Every texture here is
// TextureFormatBGRA8UnormSrgb, matching frame.ARGB's byte-for-byte BGRA
// layout exactly, so no swizzle happens inside this package; swizzling
// between true RGBA and the daemon's canonical BGRA byte order already
// happened once, at image decode and video demux, before a frame.ARGB
// ever reaches here (spec.md 4.2's "swizzle happens exactly at upload and
// at CPU readback, nowhere else").
//
// Grounded on this repository's own CreateShaderModule/CreateRenderPipeline
// surface (device.go, descriptor.go) and on the bind-group-entry shape
// used by integration_test.go; the WGSL sources live in shaders.go.
package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	wgpu "github.com/chikof/momoi"
	"github.com/chikof/momoi/internal/frame"
	"github.com/chikof/momoi/internal/overlay"
	"github.com/chikof/momoi/internal/shader"
	"github.com/chikof/momoi/internal/transition"
)

// workingFormat is used for every texture (input, intermediate and
// render-attachment output) so no format conversion is ever needed between
// pipeline stages.
const workingFormat = wgpu.TextureFormatBGRA8UnormSrgb

// copyBytesPerRowAlignment is the standard wgpu row-pitch alignment
// (spec.md 4.2's padding contract: "typically 256").
const copyBytesPerRowAlignment = 256

// Pipelines holds the four compiled render paths and the resources shared
// between them (one clamp/linear sampler, one device/queue pair).
type Pipelines struct {
	device *wgpu.Device

	sampler *wgpu.Sampler

	scale   pipelineSet
	shaderP pipelineSet
	overlay pipelineSet
	blend   pipelineSet
}

type pipelineSet struct {
	vs       *wgpu.ShaderModule
	fs       *wgpu.ShaderModule
	bgl      *wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

func (p *pipelineSet) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	if p.bgl != nil {
		p.bgl.Release()
	}
	if p.fs != nil {
		p.fs.Release()
	}
	if p.vs != nil {
		p.vs.Release()
	}
}

// NewPipelines compiles the four pipeline families against ctx's device.
// A non-nil error means the caller should treat the whole GPU path as
// unavailable for this run, per spec.md 4.2's acquisition-fallback rule.
func NewPipelines(ctx *Context) (*Pipelines, error) {
	device := ctx.Device()
	if device == nil {
		return nil, fmt.Errorf("gpu: no device")
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "momoi-clamp-linear",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler: %w", err)
	}

	p := &Pipelines{device: device, sampler: sampler}

	var buildErr error
	p.scale, buildErr = buildPipeline(device, "momoi-scale", scaleFS, []wgpu.BindGroupLayoutEntry{
		textureEntry(0),
		samplerEntry(1),
	})
	if buildErr != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: build scale pipeline: %w", buildErr)
	}

	p.shaderP, buildErr = buildPipeline(device, "momoi-shader", shaderFS, []wgpu.BindGroupLayoutEntry{
		uniformEntry(0),
	})
	if buildErr != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: build shader pipeline: %w", buildErr)
	}

	p.overlay, buildErr = buildPipeline(device, "momoi-overlay", overlayFS, []wgpu.BindGroupLayoutEntry{
		textureEntry(0),
		samplerEntry(1),
		uniformEntry(2),
	})
	if buildErr != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: build overlay pipeline: %w", buildErr)
	}

	p.blend, buildErr = buildPipeline(device, "momoi-blend", blendFS, []wgpu.BindGroupLayoutEntry{
		textureEntry(0),
		textureEntry(1),
		samplerEntry(2),
		uniformEntry(3),
	})
	if buildErr != nil {
		p.Release()
		return nil, fmt.Errorf("gpu: build blend pipeline: %w", buildErr)
	}

	return p, nil
}

// Release destroys every compiled pipeline and the shared sampler. It does
// not close the device itself; the Context owns that.
func (p *Pipelines) Release() {
	if p == nil {
		return
	}
	p.scale.release()
	p.shaderP.release()
	p.overlay.release()
	p.blend.release()
	if p.sampler != nil {
		p.sampler.Release()
	}
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		},
	}
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Sampler: &gputypes.SamplerBindingLayout{
			Type: gputypes.SamplerBindingTypeFiltering,
		},
	}
}

func uniformEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Buffer: &gputypes.BufferBindingLayout{
			Type: gputypes.BufferBindingTypeUniform,
		},
	}
}

func buildPipeline(device *wgpu.Device, label, fsSource string, entries []wgpu.BindGroupLayoutEntry) (pipelineSet, error) {
	var set pipelineSet

	vs, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{Label: label + "-vs", WGSL: fullscreenVS})
	if err != nil {
		return set, err
	}
	set.vs = vs

	fs, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{Label: label + "-fs", WGSL: fsSource})
	if err != nil {
		set.release()
		return set, err
	}
	set.fs = fs

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: label + "-bgl", Entries: entries})
	if err != nil {
		set.release()
		return set, err
	}
	set.bgl = bgl

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + "-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		set.release()
		return set, err
	}
	set.layout = layout

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{Module: vs, EntryPoint: "vs_main"},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{{Format: workingFormat}},
		},
	})
	if err != nil {
		set.release()
		return set, err
	}
	set.pipeline = pipeline

	return set, nil
}

// --- texture upload/readback, shared by every pipeline family ---

func alignUp(v, align uint32) uint32 {
	if r := v % align; r != 0 {
		return v + (align - r)
	}
	return v
}

func (p *Pipelines) uploadTexture(label string, pix []byte, width, height int) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := p.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        workingFormat,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: create texture: %w", err)
	}

	view, err := p.device.CreateTextureView(tex, &wgpu.TextureViewDescriptor{
		Label: label + "-view", Format: workingFormat,
		Dimension: gputypes.TextureViewDimension2D,
		MipLevelCount: 1, ArrayLayerCount: 1,
	})
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: create texture view: %w", err)
	}

	stride := alignUp(uint32(width)*4, copyBytesPerRowAlignment)
	padded := make([]byte, int(stride)*height)
	tight := width * 4
	for y := 0; y < height; y++ {
		copy(padded[int(stride)*y:int(stride)*y+tight], pix[y*tight:y*tight+tight])
	}

	staging, err := p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + "-upload",
		Size:  uint64(len(padded)),
		Usage: wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: create upload buffer: %w", err)
	}
	defer staging.Release()

	queue := p.device.Queue()
	if err := queue.WriteBuffer(staging, 0, padded); err != nil {
		view.Release()
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: write upload buffer: %w", err)
	}

	encoder, err := p.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label + "-upload-enc"})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: create upload encoder: %w", err)
	}
	encoder.CopyBufferToTexture(staging,
		wgpu.ImageDataLayout{BytesPerRow: stride, RowsPerImage: uint32(height)},
		tex, wgpu.Origin3D{}, wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1})

	cmd, err := encoder.Finish()
	if err != nil {
		view.Release()
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: finish upload encoder: %w", err)
	}
	if err := queue.Submit(cmd); err != nil {
		view.Release()
		tex.Release()
		return nil, nil, fmt.Errorf("gpu: submit upload: %w", err)
	}

	return tex, view, nil
}

// renderToFrame executes one draw call of a full-screen triangle against
// pipeline/bindGroup at (width, height) and reads the result back into a
// frame.ARGB, doing the blocking copy-to-staging/map/copy-out/unmap
// readback named in spec.md 4.2.
func (p *Pipelines) renderToFrame(label string, set *pipelineSet, bindGroup *wgpu.BindGroup, width, height int) (frame.ARGB, error) {
	outTex, err := p.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + "-out",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        workingFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: create output texture: %w", err)
	}
	defer outTex.Release()

	outView, err := p.device.CreateTextureView(outTex, &wgpu.TextureViewDescriptor{
		Label: label + "-out-view", Format: workingFormat,
		Dimension: gputypes.TextureViewDimension2D,
		MipLevelCount: 1, ArrayLayerCount: 1,
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: create output view: %w", err)
	}
	defer outView.Release()

	encoder, err := p.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label + "-enc"})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: create encoder: %w", err)
	}

	pass, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: label + "-pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       outView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: begin render pass: %w", err)
	}
	pass.SetPipeline(set.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Draw(3, 1, 0, 0)
	if err := pass.End(); err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: end render pass: %w", err)
	}

	stride := alignUp(uint32(width)*4, copyBytesPerRowAlignment)
	readback, err := p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + "-readback",
		Size:  uint64(stride) * uint64(height),
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: create readback buffer: %w", err)
	}
	defer readback.Release()

	encoder.CopyTextureToBuffer(outTex, wgpu.Origin3D{},
		wgpu.ImageDataLayout{BytesPerRow: stride, RowsPerImage: uint32(height)},
		readback, wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1})

	cmd, err := encoder.Finish()
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: finish encoder: %w", err)
	}
	if err := p.device.Queue().Submit(cmd); err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: submit render: %w", err)
	}

	padded := make([]byte, int(stride)*height)
	if err := p.device.Queue().ReadBuffer(readback, 0, padded); err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: read back: %w", err)
	}

	out := frame.New(width, height)
	tight := width * 4
	for y := 0; y < height; y++ {
		copy(out.Pix[y*tight:y*tight+tight], padded[int(stride)*y:int(stride)*y+tight])
	}
	return out, nil
}

func (p *Pipelines) createUniformBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	buf, err := p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label, Size: uint64(len(data)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	if err := p.device.Queue().WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// --- scale ---

// Scale resamples src to (outW, outH) with a linear, edge-clamped texture
// sample, the GPU equivalent of internal/imagesrc's Lanczos resize
// (spec.md 4.2).
func (p *Pipelines) Scale(src frame.ARGB, outW, outH int) (frame.ARGB, error) {
	tex, view, err := p.uploadTexture("momoi-scale-src", src.Pix, src.Width, src.Height)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer view.Release()
	defer tex.Release()

	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label: "momoi-scale-bg", Layout: p.scale.bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: p.sampler},
		},
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: scale bind group: %w", err)
	}
	defer bg.Release()

	return p.renderToFrame("momoi-scale", &p.scale, bg, outW, outH)
}

// --- shader ---

func shaderKindID(k shader.Kind) float32 {
	switch k {
	case shader.KindPlasma:
		return 0
	case shader.KindWaves:
		return 1
	case shader.KindGradient:
		return 2
	case shader.KindStarfield:
		return 3
	case shader.KindMatrix:
		return 4
	default:
		// raymarching/tunnel: no CPU implementation either (spec.md 4.5),
		// the GPU path falls back to the same neutral gradient.
		return 2
	}
}

func putF32(buf []byte, i int, v float32) {
	binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
}

func packShaderUniform(kind shader.Kind, params shader.Params, elapsed float64, width, height int) []byte {
	buf := make([]byte, 80) // 20 float32 fields, see shaders.go's ShaderUniform
	putF32(buf, 0, float32(elapsed*params.Speed))
	putF32(buf, 1, float32(width))
	putF32(buf, 2, float32(height))
	putF32(buf, 3, float32(params.Speed))
	putF32(buf, 4, params.Color1.R)
	putF32(buf, 5, params.Color1.G)
	putF32(buf, 6, params.Color1.B)
	putF32(buf, 7, float32(params.Scale))
	putF32(buf, 8, params.Color2.R)
	putF32(buf, 9, params.Color2.G)
	putF32(buf, 10, params.Color2.B)
	putF32(buf, 11, float32(params.Intensity))
	putF32(buf, 12, params.Color3.R)
	putF32(buf, 13, params.Color3.G)
	putF32(buf, 14, params.Color3.B)
	putF32(buf, 15, float32(params.Count))
	putF32(buf, 16, shaderKindID(kind))
	return buf
}

// RenderShader produces a frame for (kind, params) at elapsed seconds,
// the GPU equivalent of internal/shader.Source.Render (spec.md 4.2/4.5).
func (p *Pipelines) RenderShader(kind shader.Kind, params shader.Params, elapsed float64, width, height int) (frame.ARGB, error) {
	data := packShaderUniform(kind, params, elapsed, width, height)
	buf, err := p.createUniformBuffer("momoi-shader-uniform", data)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer buf.Release()

	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label: "momoi-shader-bg", Layout: p.shaderP.bgl,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf}},
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: shader bind group: %w", err)
	}
	defer bg.Release()

	return p.renderToFrame("momoi-shader", &p.shaderP, bg, width, height)
}

// --- overlay ---

func overlayParamsF32(effect overlay.Effect, params overlay.Params) (p1, p2 float32, r, g, b float32) {
	orD := func(v *float64, def float64) float32 {
		if v != nil {
			return float32(*v)
		}
		return float32(def)
	}
	switch effect {
	case overlay.Vignette:
		return orD(params.Strength, 0.7), 0, 0, 0, 0
	case overlay.Scanlines:
		return orD(params.Intensity, 0.3), orD(params.LineWidth, 2.0), 0, 0, 0
	case overlay.FilmGrain:
		return orD(params.Intensity, 0.1), 0, 0, 0, 0
	case overlay.ChromaticAberration:
		return orD(params.Offset, 2.0), 0, 0, 0, 0
	case overlay.CRT:
		return orD(params.Intensity, 0.3), 0, 0, 0, 0
	case overlay.Pixelate:
		def := 8.0
		if params.PixelSize != nil {
			def = float64(*params.PixelSize)
		}
		return float32(def), 0, 0, 0, 0
	case overlay.Tint:
		rv, gv, bv := 1.0, 0.8, 0.6
		if params.R != nil {
			rv = *params.R
		}
		if params.G != nil {
			gv = *params.G
		}
		if params.B != nil {
			bv = *params.B
		}
		return orD(params.Strength, 0.3), 0, float32(rv), float32(gv), float32(bv)
	default:
		return 0, 0, 0, 0, 0
	}
}

func packOverlayUniform(effect overlay.Effect, params overlay.Params, elapsed float64, width, height int) []byte {
	buf := make([]byte, 48) // 12 float32 fields, see shaders.go's OverlayUniform
	p1, p2, r, g, b := overlayParamsF32(effect, params)
	putF32(buf, 0, float32(elapsed))
	putF32(buf, 1, float32(width))
	putF32(buf, 2, float32(height))
	putF32(buf, 3, float32(effect))
	putF32(buf, 4, p1)
	putF32(buf, 5, p2)
	putF32(buf, 6, 0)
	putF32(buf, 7, 0)
	putF32(buf, 8, r)
	putF32(buf, 9, g)
	putF32(buf, 10, b)
	return buf
}

// ApplyOverlay renders effect over src, the GPU equivalent of
// internal/overlay.Overlay.Apply (spec.md 4.2/4.6).
func (p *Pipelines) ApplyOverlay(effect overlay.Effect, params overlay.Params, elapsed float64, src frame.ARGB) (frame.ARGB, error) {
	tex, view, err := p.uploadTexture("momoi-overlay-src", src.Pix, src.Width, src.Height)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer view.Release()
	defer tex.Release()

	data := packOverlayUniform(effect, params, elapsed, src.Width, src.Height)
	buf, err := p.createUniformBuffer("momoi-overlay-uniform", data)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer buf.Release()

	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label: "momoi-overlay-bg", Layout: p.overlay.bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: p.sampler},
			{Binding: 2, Buffer: buf},
		},
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: overlay bind group: %w", err)
	}
	defer bg.Release()

	return p.renderToFrame("momoi-overlay", &p.overlay, bg, src.Width, src.Height)
}

// --- blend ---

// BlendSupported reports whether kind is one of the transitions realised
// on the GPU (spec.md 4.2: fade, the four axis wipes, center, outer).
// Wipe-angle and random stay CPU-only.
func BlendSupported(k transition.Kind) bool {
	_, ok := blendTransitionID(k)
	return ok
}

func blendTransitionID(k transition.Kind) (float32, bool) {
	switch k {
	case transition.KindFade:
		return 0, true
	case transition.KindWipeLeft:
		return 1, true
	case transition.KindWipeRight:
		return 2, true
	case transition.KindWipeTop:
		return 3, true
	case transition.KindWipeBottom:
		return 4, true
	case transition.KindCenter:
		return 5, true
	case transition.KindOuter:
		return 6, true
	default:
		return 0, false
	}
}

func packBlendUniform(kind transition.Kind, progress float64, width, height int) []byte {
	id, _ := blendTransitionID(kind)
	buf := make([]byte, 16)
	putF32(buf, 0, float32(progress))
	putF32(buf, 1, id)
	putF32(buf, 2, float32(width))
	putF32(buf, 3, float32(height))
	return buf
}

// Blend renders the transition frame between old and new at progress, the
// GPU equivalent of internal/transition.Transition.Blend (spec.md 4.2/4.7).
// Callers must check BlendSupported(kind) first.
func (p *Pipelines) Blend(kind transition.Kind, progress float64, old, newFrame frame.ARGB) (frame.ARGB, error) {
	if !BlendSupported(kind) {
		return frame.ARGB{}, fmt.Errorf("gpu: blend: unsupported kind %v", kind)
	}

	oldTex, oldView, err := p.uploadTexture("momoi-blend-old", old.Pix, old.Width, old.Height)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer oldView.Release()
	defer oldTex.Release()

	newTex, newView, err := p.uploadTexture("momoi-blend-new", newFrame.Pix, newFrame.Width, newFrame.Height)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer newView.Release()
	defer newTex.Release()

	data := packBlendUniform(kind, progress, old.Width, old.Height)
	buf, err := p.createUniformBuffer("momoi-blend-uniform", data)
	if err != nil {
		return frame.ARGB{}, err
	}
	defer buf.Release()

	bg, err := p.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label: "momoi-blend-bg", Layout: p.blend.bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: oldView},
			{Binding: 1, TextureView: newView},
			{Binding: 2, Sampler: p.sampler},
			{Binding: 3, Buffer: buf},
		},
	})
	if err != nil {
		return frame.ARGB{}, fmt.Errorf("gpu: blend bind group: %w", err)
	}
	defer bg.Release()

	return p.renderToFrame("momoi-blend", &p.blend, bg, old.Width, old.Height)
}
