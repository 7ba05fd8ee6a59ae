// package gpu provides the device context at the root of the toolkit. A Context
// owns the wgpu instance, adapter, device, and queue, plus the optional window
// surface, and is passed to every sub-package that needs to talk to the GPU.
package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrAdapterRequestFailed indicates that no suitable GPU adapter could be acquired.
	ErrAdapterRequestFailed = errors.New("gpu adapter request failed")

	// ErrDeviceRequestFailed indicates that the logical device could not be created on the adapter.
	ErrDeviceRequestFailed = errors.New("gpu device request failed")

	// ErrNoSurface indicates a surface operation was attempted on a headless context.
	ErrNoSurface = errors.New("context has no surface")
)

// contextImpl is the implementation of the Context interface.
// It holds all of the persistent wgpu objects shared by the toolkit.
type contextImpl struct {
	mu       *sync.Mutex
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	width, height uint32

	// construction inputs, applied by builder options
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	powerPreference      wgpu.PowerPreference
	forceFallbackAdapter bool
	deviceLabel          string
	limits               *wgpu.Limits
}

// Context defines the interface for the shared GPU device context. It exposes the
// underlying wgpu instance, adapter, device, and queue, plus surface configuration
// for windowed contexts. A Context created without a surface descriptor is headless
// and suitable for offscreen rendering and compute work.
type Context interface {
	// Device retrieves the logical GPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device used for all resource creation
	Device() *wgpu.Device

	// Queue retrieves the default queue of the device.
	//
	// Returns:
	//   - *wgpu.Queue: the queue used for buffer writes and command submission
	Queue() *wgpu.Queue

	// Adapter retrieves the physical adapter the device was created on.
	//
	// Returns:
	//   - *wgpu.Adapter: the selected adapter
	Adapter() *wgpu.Adapter

	// Instance retrieves the wgpu instance that owns the adapter and surface.
	//
	// Returns:
	//   - *wgpu.Instance: the instance
	Instance() *wgpu.Instance

	// Surface retrieves the window surface, or nil for headless contexts.
	//
	// Returns:
	//   - *wgpu.Surface: the surface, or nil if the context is headless
	Surface() *wgpu.Surface

	// SurfaceFormat retrieves the texture format the surface was configured with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the configured surface format
	//   - error: ErrNoSurface if the context is headless or the surface is not yet configured
	SurfaceFormat() (wgpu.TextureFormat, error)

	// SurfaceSize retrieves the dimensions the surface was last configured with.
	//
	// Returns:
	//   - uint32: the surface width in pixels
	//   - uint32: the surface height in pixels
	SurfaceSize() (uint32, uint32)

	// ConfigureSurface (re)configures the surface for the given pixel dimensions.
	// This is required once after creation and again whenever the window is resized.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: ErrNoSurface if the context is headless, otherwise nil
	ConfigureSurface(width, height uint32) error

	// CurrentSurfaceTexture acquires the swapchain texture for the current frame.
	//
	// Returns:
	//   - *wgpu.Texture: the surface texture to render into
	//   - error: ErrNoSurface if the context is headless, or an acquisition error
	CurrentSurfaceTexture() (*wgpu.Texture, error)

	// Present presents the configured surface to the display.
	//
	// Returns:
	//   - error: ErrNoSurface if the context is headless, otherwise nil
	Present() error

	// SetPresentMode sets the surface present mode which controls how frames are
	// delivered to the display. Takes effect on the next ConfigureSurface call.
	//
	// Parameters:
	//   - mode: the wgpu present mode to use
	SetPresentMode(mode wgpu.PresentMode)

	// Poll processes outstanding device work. With wait set, it blocks until the
	// device queue is empty, which completes pending buffer map callbacks.
	//
	// Parameters:
	//   - wait: whether to block until all submitted work has completed
	Poll(wait bool)

	// Release frees the wgpu objects owned by the context. The context must not
	// be used after Release returns.
	Release()
}

var _ Context = &contextImpl{}

// NewContext creates a GPU context by requesting an adapter and device from the
// wgpu instance. With no options the context is headless: high-performance
// adapter, default device limits, no surface. Pass WithSurfaceDescriptor to
// create a windowed context, then call ConfigureSurface with the framebuffer
// size before rendering.
//
// Parameters:
//   - opts: optional ContextBuilderOption functions to configure the context
//
// Returns:
//   - Context: the initialized context
//   - error: an error if the adapter or device could not be acquired
func NewContext(opts ...ContextBuilderOption) (Context, error) {
	c := &contextImpl{
		mu:              &sync.Mutex{},
		powerPreference: wgpu.PowerPreferenceHighPerformance,
		deviceLabel:     "gpukit device",
		presentMode:     wgpu.PresentModeFifo,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.instance = wgpu.CreateInstance(nil)
	if c.surfaceDescriptor != nil {
		c.surface = c.instance.CreateSurface(c.surfaceDescriptor)
	}

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference:      c.powerPreference,
		ForceFallbackAdapter: c.forceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("%w: %w", ErrAdapterRequestFailed, err)
	}
	c.adapter = adapter

	info := adapter.GetInfo()
	Logger().Info("gpu adapter selected", "name", info.Name, "backend", info.BackendType.String())

	limits := wgpu.DefaultLimits()
	if c.limits != nil {
		limits = *c.limits
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: c.deviceLabel,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("%w: %w", ErrDeviceRequestFailed, err)
	}
	c.device = device
	c.queue = device.GetQueue()

	return c, nil
}

func (c *contextImpl) Device() *wgpu.Device {
	return c.device
}

func (c *contextImpl) Queue() *wgpu.Queue {
	return c.queue
}

func (c *contextImpl) Adapter() *wgpu.Adapter {
	return c.adapter
}

func (c *contextImpl) Instance() *wgpu.Instance {
	return c.instance
}

func (c *contextImpl) Surface() *wgpu.Surface {
	return c.surface
}

func (c *contextImpl) SurfaceFormat() (wgpu.TextureFormat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil || c.surfaceFormat == nil {
		return 0, ErrNoSurface
	}
	return *c.surfaceFormat, nil
}

func (c *contextImpl) SurfaceSize() (uint32, uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *contextImpl) ConfigureSurface(width, height uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return ErrNoSurface
	}

	capabilities := c.surface.GetCapabilities(c.adapter)
	c.surfaceFormat = &capabilities.Formats[0]
	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *c.surfaceFormat,
		Width:       width,
		Height:      height,
		PresentMode: c.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	c.width = width
	c.height = height

	Logger().Info("surface configured", "width", width, "height", height, "format", c.surfaceFormat.String())
	return nil
}

func (c *contextImpl) CurrentSurfaceTexture() (*wgpu.Texture, error) {
	if c.surface == nil {
		return nil, ErrNoSurface
	}
	return c.surface.GetCurrentTexture()
}

func (c *contextImpl) Present() error {
	if c.surface == nil {
		return ErrNoSurface
	}
	c.surface.Present()
	return nil
}

func (c *contextImpl) SetPresentMode(mode wgpu.PresentMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presentMode = mode
}

func (c *contextImpl) Poll(wait bool) {
	if c.device != nil {
		c.device.Poll(wait, nil)
	}
}

func (c *contextImpl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}
