package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasEntryPoint(t *testing.T) {
	source := `
@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}

fn helper(x: f32) -> f32 { return x; }
`

	assert.True(t, hasEntryPoint(source, "vs_main"))
	assert.True(t, hasEntryPoint(source, "fs_main"))
	assert.True(t, hasEntryPoint(source, "helper"))
	assert.False(t, hasEntryPoint(source, "main"))
	assert.False(t, hasEntryPoint(source, "vs"))
	// Substring of a declared name is not a declaration.
	assert.False(t, hasEntryPoint(source, "s_main"))
}

func TestHasEntryPointEmptySourcePasses(t *testing.T) {
	// Shaders loaded from files may not expose their source; the driver is
	// the validator of record in that case.
	assert.True(t, hasEntryPoint("", "vs_main"))
}
