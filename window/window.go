// package window provides the GLFW window used by windowed renderers. It
// exposes the platform surface descriptor for wgpu surface creation and a
// non-blocking event poll for the frame loop.
package window

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling for a
// surface-backed renderer.
type Window interface {
	// SetResizeCallback sets the function called when the framebuffer is resized.
	// The renderer uses this to reconfigure its surface with pixel dimensions.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether the key was pressed (true) or released (false)
	SetKeyCallback(callback func(keyCode uint32, pressed bool))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving the vertical scroll delta
	SetScrollCallback(callback func(delta float32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position in window coordinates
	SetMouseMoveCallback(callback func(x, y int32))

	// SurfaceDescriptor retrieves a platform-appropriate wgpu surface descriptor
	// for the underlying window (Windows HWND, X11, Wayland, macOS Metal).
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil if the window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: true while the window has not been closed
	IsRunning() bool

	// Poll processes pending window events without blocking and reports whether
	// the window is still open. Call once per frame from the thread that created
	// the window.
	//
	// Returns:
	//   - bool: true while the window has not been closed
	Poll() bool

	// Run drives the message loop, calling update each iteration until the
	// window closes. Convenience alternative to calling Poll from a custom loop.
	//
	// Parameters:
	//   - update: function called once per loop iteration, or nil
	Run(update func())

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: an error if the window was never initialized
	Close() error

	// Width retrieves the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: the width in pixels
	Width() int

	// Height retrieves the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: the height in pixels
	Height() int
}

// windowImpl is the implementation of the Window interface.
type windowImpl struct {
	title  string
	width  int
	height int

	// platform holds the GLFW-specific state.
	platform *glfwState

	onResize    func(width, height int)
	onKey       func(keyCode uint32, pressed bool)
	onScroll    func(delta float32)
	onMouseMove func(x, y int32)
}

var _ Window = &windowImpl{}

// NewWindow creates and shows a window with the given options. The calling
// goroutine is locked to its OS thread; all further window calls must happen
// on that thread.
//
// Parameters:
//   - opts: optional WindowBuilderOption functions to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if GLFW initialization or window creation fails
func NewWindow(opts ...WindowBuilderOption) (Window, error) {
	w := &windowImpl{
		title:  "gpukit",
		width:  1280,
		height: 720,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *windowImpl) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *windowImpl) SetKeyCallback(callback func(keyCode uint32, pressed bool)) {
	w.onKey = callback
}

func (w *windowImpl) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *windowImpl) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *windowImpl) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformSurfaceDescriptor(w)
}

func (w *windowImpl) IsRunning() bool {
	return platformIsRunning(w)
}

func (w *windowImpl) Poll() bool {
	return platformPoll(w)
}

func (w *windowImpl) Run(update func()) {
	for w.Poll() {
		if update != nil {
			update()
		}
		runtime.Gosched()
	}
}

func (w *windowImpl) Close() error {
	return platformClose(w)
}

func (w *windowImpl) Width() int {
	return w.width
}

func (w *windowImpl) Height() int {
	return w.height
}
