// package renderer provides the top-level facade over the toolkit. A Renderer
// owns the GPU context, shader registry, and resource manager, and exposes a
// simplified per-frame lifecycle: begin a frame to get an open render pass,
// record draws, end the frame to submit, then present (windowed) or read the
// pixels back (offscreen).
package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/gpu/buffer"
	"github.com/Carmen-Shannon/gpukit/gpu/command"
	"github.com/Carmen-Shannon/gpukit/gpu/pipeline"
	"github.com/Carmen-Shannon/gpukit/gpu/resource"
	"github.com/Carmen-Shannon/gpukit/gpu/shader"
	"github.com/Carmen-Shannon/gpukit/gpu/texture"
	"github.com/Carmen-Shannon/gpukit/window"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrFrameInProgress indicates BeginFrame was called while a frame was already open.
	ErrFrameInProgress = errors.New("frame already in progress")

	// ErrNoActiveFrame indicates EndFrame or Present was called without an open frame.
	ErrNoActiveFrame = errors.New("no active frame")

	// ErrComputeInProgress indicates BeginCompute was called while a compute batch was already open.
	ErrComputeInProgress = errors.New("compute batch already in progress")

	// ErrNoActiveCompute indicates a compute operation was issued without an open compute batch.
	ErrNoActiveCompute = errors.New("no active compute batch")

	// ErrNotOffscreen indicates ReadPixels was called on a windowed renderer.
	ErrNotOffscreen = errors.New("renderer has no offscreen target")
)

// copyAlignment is the required alignment of BytesPerRow in texture-to-buffer copies.
const copyAlignment = 256

// swapchainTexture is the part of *wgpu.Texture the frame lifecycle uses.
type swapchainTexture interface {
	CreateView(descriptor *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error)
	Release()
}

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu        *sync.Mutex
	ctx       gpu.Context
	shaders   shader.Registry
	resources resource.Manager

	win    window.Window
	width  uint32
	height uint32

	// Offscreen target, nil for windowed renderers.
	target texture.Texture

	targetFormat wgpu.TextureFormat
	depthEnabled bool
	depth        texture.Texture
	clearColor   wgpu.Color

	// Frame state, batched across the draw calls of one frame.
	frameRecorder command.Recorder
	framePass     command.RenderPass
	frameSurface  swapchainTexture
	frameView     *wgpu.TextureView

	// Compute batch state, batching all dispatches into one submission.
	computeRecorder command.Recorder

	// Named pipeline cache, released with the renderer.
	pipelines map[string]pipeline.RenderPipeline

	// construction inputs, applied by builder options
	ctxOpts []gpu.ContextBuilderOption
}

// Renderer defines the interface for the top-level rendering facade, windowed
// or offscreen. Frame and compute recording are single-threaded; drive each
// from one goroutine.
type Renderer interface {
	// Context retrieves the GPU context owned by the renderer.
	//
	// Returns:
	//   - gpu.Context: the shared device context
	Context() gpu.Context

	// Shaders retrieves the renderer's shader registry.
	//
	// Returns:
	//   - shader.Registry: the shader registry
	Shaders() shader.Registry

	// Resources retrieves the renderer's resource manager.
	//
	// Returns:
	//   - resource.Manager: the resource manager
	Resources() resource.Manager

	// Size retrieves the current render target dimensions in pixels.
	//
	// Returns:
	//   - uint32: the width in pixels
	//   - uint32: the height in pixels
	Size() (uint32, uint32)

	// TargetFormat retrieves the color target format: the surface format for
	// windowed renderers, the offscreen target format otherwise.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	TargetFormat() wgpu.TextureFormat

	// DepthFormat retrieves the depth attachment format, or TextureFormatUndefined
	// when the renderer was built without depth.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format, or TextureFormatUndefined
	DepthFormat() wgpu.TextureFormat

	// BeginFrame opens a frame: it acquires the frame's color target (the
	// swapchain texture for windowed renderers, the offscreen target otherwise),
	// opens a command recording, and begins a render pass cleared to the
	// renderer's clear color.
	//
	// Returns:
	//   - command.RenderPass: the open render pass for this frame's draws
	//   - error: ErrFrameInProgress, a surface acquisition error, or an encoder error
	BeginFrame() (command.RenderPass, error)

	// EndFrame closes the frame's render pass and submits the command buffer.
	// For windowed renderers, call Present afterwards to display the frame.
	//
	// Returns:
	//   - error: ErrNoActiveFrame or a submission error
	EndFrame() error

	// Present presents the surface and releases the swapchain texture. For
	// offscreen renderers Present is a no-op; read results with ReadPixels.
	//
	// Returns:
	//   - error: ErrNoActiveFrame if called before EndFrame completed a frame
	Present() error

	// ReadPixels copies the offscreen target into a staging buffer, blocks until
	// the copy completes, and returns tightly-packed row-major pixel bytes.
	//
	// Returns:
	//   - []byte: width*height*bytesPerPixel bytes of pixel data
	//   - error: ErrNotOffscreen for windowed renderers, or a map failure
	ReadPixels() ([]byte, error)

	// Resize reconfigures the render target for new pixel dimensions: the
	// surface for windowed renderers, a recreated offscreen target otherwise.
	// The depth texture is recreated either way. Must not be called mid-frame.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: ErrFrameInProgress or a recreation error
	Resize(width, height uint32) error

	// BeginCompute opens a compute batch: a command recording that collects all
	// dispatches and copies until EndCompute submits them together.
	//
	// Returns:
	//   - error: ErrComputeInProgress or an encoder error
	BeginCompute() error

	// Dispatch records one compute pass within the open batch: bind the
	// pipeline and its group, dispatch the given workgroup counts, close the pass.
	//
	// Parameters:
	//   - p: the compute pipeline with its bind group
	//   - workgroups: the workgroup counts on the x, y, and z axes
	//
	// Returns:
	//   - error: ErrNoActiveCompute or a recording error
	Dispatch(p *pipeline.SimpleComputePipeline, workgroups [3]uint32) error

	// CopyToStaging records a buffer-to-staging copy within the open batch,
	// after any dispatches already recorded.
	//
	// Parameters:
	//   - src: the source GPU buffer
	//   - dst: the staging buffer to copy into
	//   - size: the number of bytes to copy
	//
	// Returns:
	//   - error: ErrNoActiveCompute or a recording error
	CopyToStaging(src *wgpu.Buffer, dst buffer.StagingBuffer, size uint64) error

	// EndCompute submits the open compute batch.
	//
	// Returns:
	//   - error: ErrNoActiveCompute or a submission error
	EndCompute() error

	// AddPipeline caches a render pipeline under a name. Cached pipelines are
	// released with the renderer. Re-adding a name releases the previous pipeline.
	//
	// Parameters:
	//   - name: the cache name
	//   - p: the pipeline to cache
	AddPipeline(name string, p pipeline.RenderPipeline)

	// Pipeline retrieves a cached render pipeline.
	//
	// Parameters:
	//   - name: the cache name
	//
	// Returns:
	//   - pipeline.RenderPipeline: the cached pipeline
	//   - error: resource.ErrResourceNotFound if the name is unknown
	Pipeline(name string) (pipeline.RenderPipeline, error)

	// Release frees everything the renderer owns, including its context.
	Release()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a renderer. With WithWindow the renderer is windowed: it
// creates the context against the window's surface, configures it for the
// framebuffer size, and reconfigures on resize events. Without a window the
// renderer is offscreen and draws into a readable render target.
//
// Parameters:
//   - opts: optional RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the created renderer
//   - error: any context, surface, or target creation error
func NewRenderer(opts ...RendererBuilderOption) (Renderer, error) {
	r := &rendererImpl{
		mu:           &sync.Mutex{},
		width:        800,
		height:       600,
		targetFormat: wgpu.TextureFormatRGBA8UnormSrgb,
		depthEnabled: true,
		clearColor:   wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	for _, opt := range opts {
		opt(r)
	}

	ctxOpts := r.ctxOpts
	if r.win != nil {
		desc := r.win.SurfaceDescriptor()
		if desc == nil {
			return nil, fmt.Errorf("window has no surface descriptor")
		}
		ctxOpts = append(ctxOpts, gpu.WithSurfaceDescriptor(desc))
		r.width = uint32(r.win.Width())
		r.height = uint32(r.win.Height())
	}

	ctx, err := gpu.NewContext(ctxOpts...)
	if err != nil {
		return nil, err
	}
	r.ctx = ctx
	r.shaders = shader.NewRegistry(ctx)
	r.resources = resource.NewManager()

	if r.win != nil {
		if err := ctx.ConfigureSurface(r.width, r.height); err != nil {
			r.Release()
			return nil, err
		}
		format, err := ctx.SurfaceFormat()
		if err != nil {
			r.Release()
			return nil, err
		}
		r.targetFormat = format
		r.win.SetResizeCallback(func(width, height int) {
			if err := r.Resize(uint32(width), uint32(height)); err != nil {
				gpu.Logger().Warn("resize failed", "error", err)
			}
		})
	} else {
		target, err := texture.NewRenderTarget(ctx, "offscreen target", r.width, r.height,
			texture.WithFormat(r.targetFormat))
		if err != nil {
			r.Release()
			return nil, err
		}
		r.target = target
	}

	if r.depthEnabled {
		depth, err := texture.NewDepthTexture(ctx, "depth", r.width, r.height)
		if err != nil {
			r.Release()
			return nil, err
		}
		r.depth = depth
	}

	return r, nil
}

func (r *rendererImpl) Context() gpu.Context {
	return r.ctx
}

func (r *rendererImpl) Shaders() shader.Registry {
	return r.shaders
}

func (r *rendererImpl) Resources() resource.Manager {
	return r.resources
}

func (r *rendererImpl) Size() (uint32, uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *rendererImpl) TargetFormat() wgpu.TextureFormat {
	return r.targetFormat
}

func (r *rendererImpl) DepthFormat() wgpu.TextureFormat {
	if !r.depthEnabled {
		return wgpu.TextureFormatUndefined
	}
	return wgpu.TextureFormatDepth32Float
}

func (r *rendererImpl) BeginFrame() (command.RenderPass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameRecorder != nil {
		return nil, ErrFrameInProgress
	}

	var view *wgpu.TextureView
	if r.win != nil {
		// A frame that was ended but never presented still holds its
		// swapchain texture; drop it before acquiring the next one.
		r.releaseFrameSurface()

		surfaceTexture, err := r.ctx.CurrentSurfaceTexture()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire surface texture: %w", err)
		}
		view, err = surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return nil, fmt.Errorf("failed to create surface view: %w", err)
		}
		r.frameSurface = surfaceTexture
		r.frameView = view
	} else {
		view = r.target.View()
	}

	recorder := command.NewRecorder(r.ctx, "frame")
	if err := recorder.Begin(); err != nil {
		r.releaseFrameSurface()
		return nil, err
	}

	cfg := command.RenderPassConfig{
		ColorAttachments: []command.ColorAttachment{
			{View: view, ClearColor: &r.clearColor},
		},
	}
	if r.depth != nil {
		cfg.DepthAttachment = &command.DepthAttachment{
			View:       r.depth.View(),
			ClearValue: 1.0,
		}
	}

	pass, err := recorder.BeginRenderPass(cfg)
	if err != nil {
		recorder.Release()
		r.releaseFrameSurface()
		return nil, err
	}

	r.frameRecorder = recorder
	r.framePass = pass
	return pass, nil
}

func (r *rendererImpl) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameRecorder == nil {
		return ErrNoActiveFrame
	}

	// The caller may have ended the pass directly; an already-ended pass
	// still submits.
	if err := r.framePass.End(); err != nil && !errors.Is(err, command.ErrInvalidState) {
		return err
	}
	r.framePass = nil

	err := r.frameRecorder.Submit()
	r.frameRecorder = nil
	if r.frameView != nil {
		r.frameView.Release()
		r.frameView = nil
	}
	return err
}

func (r *rendererImpl) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.win == nil {
		return nil
	}
	if r.frameSurface == nil {
		return ErrNoActiveFrame
	}

	err := r.ctx.Present()
	r.frameSurface.Release()
	r.frameSurface = nil
	return err
}

func (r *rendererImpl) ReadPixels() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.target == nil {
		return nil, ErrNotOffscreen
	}

	bpp, err := texture.BytesPerPixel(r.targetFormat)
	if err != nil {
		return nil, err
	}

	// BytesPerRow must be 256-byte aligned for texture-to-buffer copies; the
	// padding is stripped after mapping.
	unpadded := r.width * bpp
	padded := (unpadded + copyAlignment - 1) / copyAlignment * copyAlignment
	size := uint64(padded) * uint64(r.height)

	staging, err := buffer.NewStagingBuffer(r.ctx, "pixel read-back", size)
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	recorder := command.NewRecorder(r.ctx, "pixel read-back")
	if err := recorder.Begin(); err != nil {
		return nil, err
	}
	err = recorder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  r.target.Raw(),
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: staging.Raw(),
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  padded,
				RowsPerImage: r.height,
			},
		},
		&wgpu.Extent3D{
			Width:              r.width,
			Height:             r.height,
			DepthOrArrayLayers: 1,
		},
	)
	if err != nil {
		recorder.Release()
		return nil, err
	}
	if err := recorder.Submit(); err != nil {
		return nil, err
	}

	raw, err := staging.Read()
	if err != nil {
		return nil, err
	}

	if padded == unpadded {
		return raw, nil
	}
	out := make([]byte, uint64(unpadded)*uint64(r.height))
	for row := uint32(0); row < r.height; row++ {
		copy(out[row*unpadded:(row+1)*unpadded], raw[row*padded:row*padded+unpadded])
	}
	return out, nil
}

func (r *rendererImpl) Resize(width, height uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameRecorder != nil {
		return ErrFrameInProgress
	}
	if width == 0 || height == 0 {
		// Minimized window; keep the previous configuration.
		return nil
	}

	if r.win != nil {
		if err := r.ctx.ConfigureSurface(width, height); err != nil {
			return err
		}
	} else {
		target, err := texture.NewRenderTarget(r.ctx, "offscreen target", width, height,
			texture.WithFormat(r.targetFormat))
		if err != nil {
			return err
		}
		r.target.Release()
		r.target = target
	}

	if r.depthEnabled {
		depth, err := texture.NewDepthTexture(r.ctx, "depth", width, height)
		if err != nil {
			return err
		}
		if r.depth != nil {
			r.depth.Release()
		}
		r.depth = depth
	}

	r.width = width
	r.height = height
	return nil
}

func (r *rendererImpl) BeginCompute() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.computeRecorder != nil {
		return ErrComputeInProgress
	}

	recorder := command.NewRecorder(r.ctx, "compute batch")
	if err := recorder.Begin(); err != nil {
		return err
	}
	r.computeRecorder = recorder
	return nil
}

func (r *rendererImpl) Dispatch(p *pipeline.SimpleComputePipeline, workgroups [3]uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.computeRecorder == nil {
		return ErrNoActiveCompute
	}

	pass, err := r.computeRecorder.BeginComputePass()
	if err != nil {
		return err
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.Group, nil)
	pass.Dispatch(workgroups[0], workgroups[1], workgroups[2])
	return pass.End()
}

func (r *rendererImpl) CopyToStaging(src *wgpu.Buffer, dst buffer.StagingBuffer, size uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.computeRecorder == nil {
		return ErrNoActiveCompute
	}
	if size > dst.SizeBytes() {
		return fmt.Errorf("%w: copy of %d bytes into staging buffer %q of %d bytes",
			buffer.ErrCapacityExceeded, size, dst.Key(), dst.SizeBytes())
	}
	return r.computeRecorder.CopyBufferToBuffer(src, 0, dst.Raw(), 0, size)
}

func (r *rendererImpl) EndCompute() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.computeRecorder == nil {
		return ErrNoActiveCompute
	}
	err := r.computeRecorder.Submit()
	r.computeRecorder = nil
	return err
}

func (r *rendererImpl) AddPipeline(name string, p pipeline.RenderPipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pipelines == nil {
		r.pipelines = make(map[string]pipeline.RenderPipeline)
	}
	if prev, ok := r.pipelines[name]; ok {
		prev.Release()
	}
	r.pipelines[name] = p
}

func (r *rendererImpl) Pipeline(name string) (pipeline.RenderPipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: pipeline %q", resource.ErrResourceNotFound, name)
	}
	return p, nil
}

func (r *rendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.framePass != nil {
		_ = r.framePass.End()
		r.framePass = nil
	}
	if r.frameRecorder != nil {
		r.frameRecorder.Release()
		r.frameRecorder = nil
	}
	if r.computeRecorder != nil {
		r.computeRecorder.Release()
		r.computeRecorder = nil
	}
	r.releaseFrameSurface()
	for name, p := range r.pipelines {
		p.Release()
		delete(r.pipelines, name)
	}
	if r.depth != nil {
		r.depth.Release()
		r.depth = nil
	}
	if r.target != nil {
		r.target.Release()
		r.target = nil
	}
	if r.shaders != nil {
		r.shaders.Release()
		r.shaders = nil
	}
	if r.ctx != nil {
		r.ctx.Release()
		r.ctx = nil
	}
}

// releaseFrameSurface frees the swapchain texture and view of an abandoned
// frame. Callers must hold the mutex.
func (r *rendererImpl) releaseFrameSurface() {
	if r.frameView != nil {
		r.frameView.Release()
		r.frameView = nil
	}
	if r.frameSurface != nil {
		r.frameSurface.Release()
		r.frameSurface = nil
	}
}
