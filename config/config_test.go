package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gpukit.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gpukit", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "high-performance", cfg.GPU.PowerPreference)
	assert.Equal(t, "fifo", cfg.GPU.PresentMode)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "demo"
width = 1920
height = 1080

[gpu]
power_preference = "low-power"
present_mode = "immediate"
force_fallback_adapter = true
device_label = "demo device"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, "low-power", cfg.GPU.PowerPreference)
	assert.Equal(t, "immediate", cfg.GPU.PresentMode)
	assert.True(t, cfg.GPU.ForceFallbackAdapter)
	assert.Equal(t, "demo device", cfg.GPU.DeviceLabel)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "partial"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "partial", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "fifo", cfg.GPU.PresentMode)
}

func TestLoadEmptyValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
[window]
title = ""
width = 0

[gpu]
present_mode = ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpukit", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "fifo", cfg.GPU.PresentMode)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	// Defaults still come back so callers can proceed.
	assert.Equal(t, "gpukit", cfg.Window.Title)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, `[window`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestPowerPreferenceMapping(t *testing.T) {
	assert.Equal(t, wgpu.PowerPreferenceLowPower, powerPreference("low-power"))
	assert.Equal(t, wgpu.PowerPreferenceHighPerformance, powerPreference("high-performance"))
	assert.Equal(t, wgpu.PowerPreferenceHighPerformance, powerPreference("bogus"))
}

func TestPresentModeMapping(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeImmediate, presentMode("immediate"))
	assert.Equal(t, wgpu.PresentModeFifo, presentMode("fifo"))
	assert.Equal(t, wgpu.PresentModeFifo, presentMode("bogus"))
}

func TestWithSetters(t *testing.T) {
	cfg := Default().
		WithWindowTitle("demo").
		WithWindowSize(640, 480).
		WithPowerPreference("low-power").
		WithPresentMode("immediate")

	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, "low-power", cfg.GPU.PowerPreference)
	assert.Equal(t, "immediate", cfg.GPU.PresentMode)

	// Value receiver: the original is untouched.
	assert.Equal(t, "gpukit", Default().Window.Title)
}

func TestContextOptionsCount(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.ContextOptions(), 3)

	cfg.GPU.ForceFallbackAdapter = true
	assert.Len(t, cfg.ContextOptions(), 4)
}
