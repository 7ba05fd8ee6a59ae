// package config loads renderer configuration from TOML files and converts it
// into the builder options the gpu and window packages consume.
package config

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/gpukit/common"
	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/Carmen-Shannon/gpukit/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
)

// WindowConfig configures the application window.
type WindowConfig struct {
	// Title is the window title text.
	Title string `toml:"title"`
	// Width is the initial window width in pixels.
	Width int `toml:"width"`
	// Height is the initial window height in pixels.
	Height int `toml:"height"`
}

// GPUConfig configures adapter and surface selection.
type GPUConfig struct {
	// PowerPreference selects the adapter class: "high-performance" or "low-power".
	PowerPreference string `toml:"power_preference"`
	// ForceFallbackAdapter forces a software adapter, useful on CI machines.
	ForceFallbackAdapter bool `toml:"force_fallback_adapter"`
	// PresentMode selects frame delivery: "fifo" (vsync) or "immediate" (uncapped).
	PresentMode string `toml:"present_mode"`
	// DeviceLabel is the debug label attached to the logical device.
	DeviceLabel string `toml:"device_label"`
}

// Config is the top-level renderer configuration.
type Config struct {
	Window WindowConfig `toml:"window"`
	GPU    GPUConfig    `toml:"gpu"`
}

// Default returns the configuration used when no file is supplied: a 1280x720
// window on a high-performance adapter with vsync.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "gpukit",
			Width:  1280,
			Height: 720,
		},
		GPU: GPUConfig{
			PowerPreference: "high-performance",
			PresentMode:     "fifo",
			DeviceLabel:     "gpukit device",
		},
	}
}

// Load reads a TOML configuration file. Fields absent from the file keep their
// Default values.
//
// Parameters:
//   - path: the TOML file path
//
// Returns:
//   - Config: the parsed configuration over the defaults
//   - error: an I/O error if the file cannot be read, or a TOML parse error
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Explicitly empty fields fall back to defaults rather than zero values.
	def := Default()
	cfg.Window.Title = common.Coalesce(cfg.Window.Title, def.Window.Title)
	cfg.Window.Width = common.Coalesce(cfg.Window.Width, def.Window.Width)
	cfg.Window.Height = common.Coalesce(cfg.Window.Height, def.Window.Height)
	cfg.GPU.PowerPreference = common.Coalesce(cfg.GPU.PowerPreference, def.GPU.PowerPreference)
	cfg.GPU.PresentMode = common.Coalesce(cfg.GPU.PresentMode, def.GPU.PresentMode)
	return cfg, nil
}

// WithWindowTitle returns a copy of the configuration with the window title set.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - Config: the updated configuration
func (c Config) WithWindowTitle(title string) Config {
	c.Window.Title = title
	return c
}

// WithWindowSize returns a copy of the configuration with the window dimensions set.
//
// Parameters:
//   - width: the window width in pixels
//   - height: the window height in pixels
//
// Returns:
//   - Config: the updated configuration
func (c Config) WithWindowSize(width, height int) Config {
	c.Window.Width = width
	c.Window.Height = height
	return c
}

// WithPowerPreference returns a copy of the configuration with the adapter
// power preference set ("high-performance" or "low-power").
//
// Parameters:
//   - preference: the power preference string
//
// Returns:
//   - Config: the updated configuration
func (c Config) WithPowerPreference(preference string) Config {
	c.GPU.PowerPreference = preference
	return c
}

// WithPresentMode returns a copy of the configuration with the present mode set
// ("fifo" or "immediate").
//
// Parameters:
//   - mode: the present mode string
//
// Returns:
//   - Config: the updated configuration
func (c Config) WithPresentMode(mode string) Config {
	c.GPU.PresentMode = mode
	return c
}

// ContextOptions converts the GPU section into gpu context builder options.
// Unrecognized power preference or present mode strings fall back to the
// defaults.
//
// Returns:
//   - []gpu.ContextBuilderOption: the options to pass to gpu.NewContext
func (c Config) ContextOptions() []gpu.ContextBuilderOption {
	opts := []gpu.ContextBuilderOption{
		gpu.WithPowerPreference(powerPreference(c.GPU.PowerPreference)),
		gpu.WithPresentMode(presentMode(c.GPU.PresentMode)),
	}
	if c.GPU.DeviceLabel != "" {
		opts = append(opts, gpu.WithDeviceLabel(c.GPU.DeviceLabel))
	}
	if c.GPU.ForceFallbackAdapter {
		opts = append(opts, gpu.WithForceFallbackAdapter())
	}
	return opts
}

// WindowOptions converts the window section into window builder options.
//
// Returns:
//   - []window.WindowBuilderOption: the options to pass to window.NewWindow
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
	}
}

// powerPreference maps a config string to the wgpu power preference.
func powerPreference(s string) wgpu.PowerPreference {
	switch s {
	case "low-power":
		return wgpu.PowerPreferenceLowPower
	default:
		return wgpu.PowerPreferenceHighPerformance
	}
}

// presentMode maps a config string to the wgpu present mode.
func presentMode(s string) wgpu.PresentMode {
	switch s {
	case "immediate":
		return wgpu.PresentModeImmediate
	default:
		return wgpu.PresentModeFifo
	}
}
