package gpu

import "github.com/cogentcore/webgpu/wgpu"

// ContextBuilderOption is a functional option used to configure a Context during construction.
type ContextBuilderOption func(*contextImpl)

// WithSurfaceDescriptor sets the surface descriptor for a windowed context.
// Without this option the context is headless.
//
// Parameters:
//   - desc: the platform surface descriptor, typically from wgpuglfw.GetSurfaceDescriptor
//
// Returns:
//   - ContextBuilderOption: a function that sets the surface descriptor for this context
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) ContextBuilderOption {
	return func(c *contextImpl) {
		c.surfaceDescriptor = desc
	}
}

// WithPowerPreference sets the adapter power preference used during adapter selection.
//
// Parameters:
//   - pref: the power preference (e.g., wgpu.PowerPreferenceLowPower)
//
// Returns:
//   - ContextBuilderOption: a function that sets the power preference for this context
func WithPowerPreference(pref wgpu.PowerPreference) ContextBuilderOption {
	return func(c *contextImpl) {
		c.powerPreference = pref
	}
}

// WithForceFallbackAdapter forces selection of a software fallback adapter.
// Useful for CI environments without a physical GPU.
//
// Returns:
//   - ContextBuilderOption: a function that forces the fallback adapter for this context
func WithForceFallbackAdapter() ContextBuilderOption {
	return func(c *contextImpl) {
		c.forceFallbackAdapter = true
	}
}

// WithDeviceLabel sets the debug label attached to the logical device.
//
// Parameters:
//   - label: the device label reported by validation layers
//
// Returns:
//   - ContextBuilderOption: a function that sets the device label for this context
func WithDeviceLabel(label string) ContextBuilderOption {
	return func(c *contextImpl) {
		c.deviceLabel = label
	}
}

// WithLimits overrides the device limits requested at device creation.
//
// Parameters:
//   - limits: the wgpu limits to request, typically derived from wgpu.DefaultLimits()
//
// Returns:
//   - ContextBuilderOption: a function that sets the requested limits for this context
func WithLimits(limits wgpu.Limits) ContextBuilderOption {
	return func(c *contextImpl) {
		c.limits = &limits
	}
}

// WithPresentMode sets the initial surface present mode for windowed contexts.
//
// Parameters:
//   - mode: the wgpu present mode (e.g., wgpu.PresentModeImmediate)
//
// Returns:
//   - ContextBuilderOption: a function that sets the present mode for this context
func WithPresentMode(mode wgpu.PresentMode) ContextBuilderOption {
	return func(c *contextImpl) {
		c.presentMode = mode
	}
}
