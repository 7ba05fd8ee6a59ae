package renderer

import (
	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption defines a functional option for configuring a renderer
// during construction.
type RendererBuilderOption func(*rendererImpl)

// WithWindow makes the renderer windowed, rendering into the window's surface.
// The renderer registers a resize callback on the window; set your own resize
// handling through the renderer, not the window, to avoid clobbering it.
//
// Parameters:
//   - win: the window to render into
//
// Returns:
//   - RendererBuilderOption: the option function to apply
func WithWindow(win window.Window) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.win = win
	}
}

// WithOffscreenSize sets the offscreen target dimensions in pixels. Ignored
// when WithWindow is also supplied. Defaults to 800x600.
//
// Parameters:
//   - width: the target width in pixels
//   - height: the target height in pixels
//
// Returns:
//   - RendererBuilderOption: the option function to apply
func WithOffscreenSize(width, height uint32) RendererBuilderOption {
	return func(r *rendererImpl) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithTargetFormat sets the offscreen target format. Windowed renderers take
// their format from the surface instead. Defaults to RGBA8UnormSrgb.
//
// Parameters:
//   - format: the color target texture format
//
// Returns:
//   - RendererBuilderOption: the option function to apply
func WithTargetFormat(format wgpu.TextureFormat) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.targetFormat = format
	}
}

// WithDepthDisabled builds the renderer without a depth attachment. Pipelines
// used with a depthless renderer must not declare a depth format.
//
// Returns:
//   - RendererBuilderOption: the option function to apply
func WithDepthDisabled() RendererBuilderOption {
	return func(r *rendererImpl) {
		r.depthEnabled = false
	}
}

// WithClearColor sets the color each frame's color attachment is cleared to.
// Defaults to opaque black.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - RendererBuilderOption: the option function to apply
func WithClearColor(color wgpu.Color) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.clearColor = color
	}
}

// WithContextOptions forwards options to the GPU context the renderer creates,
// such as gpu.WithPowerPreference or gpu.WithPresentMode.
//
// Parameters:
//   - opts: the context options to forward
//
// Returns:
//   - RendererBuilderOption: the option function to apply
func WithContextOptions(opts ...gpu.ContextBuilderOption) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.ctxOpts = append(r.ctxOpts, opts...)
	}
}
