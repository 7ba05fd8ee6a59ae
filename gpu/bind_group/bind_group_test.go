package bind_group

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutBuilderValidate(t *testing.T) {
	lb := NewLayoutBuilder("test").
		AddUniform(0, wgpu.ShaderStageVertex).
		AddStorage(1, wgpu.ShaderStageCompute, false).
		AddTexture(2, wgpu.ShaderStageFragment, wgpu.TextureSampleTypeFloat, wgpu.TextureViewDimension2D, false).
		AddSampler(3, wgpu.ShaderStageFragment, wgpu.SamplerBindingTypeFiltering)
	assert.NoError(t, lb.validate())
	assert.Len(t, lb.entries, 4)
}

func TestLayoutBuilderDuplicateBinding(t *testing.T) {
	lb := NewLayoutBuilder("test").
		AddUniform(0, wgpu.ShaderStageVertex).
		AddStorage(0, wgpu.ShaderStageCompute, false)
	assert.ErrorIs(t, lb.validate(), ErrDuplicateBinding)
}

// testLayout builds a layout shell with the given binding kinds, without a
// device.
func testLayout(kinds map[uint32]bindingKind) Layout {
	return &layoutImpl{kinds: kinds}
}

func TestGroupValidateComplete(t *testing.T) {
	layout := testLayout(map[uint32]bindingKind{
		0: bindingKindUniform,
		1: bindingKindTexture,
		2: bindingKindSampler,
	})

	gb := NewGroupBuilder("test").
		AddBuffer(0, nil).
		AddTextureView(1, nil).
		AddSampler(2, nil)
	assert.NoError(t, gb.validateAgainst(layout))
}

func TestGroupValidateMissingBinding(t *testing.T) {
	layout := testLayout(map[uint32]bindingKind{
		0: bindingKindUniform,
		1: bindingKindTexture,
	})

	gb := NewGroupBuilder("test").AddBuffer(0, nil)
	err := gb.validateAgainst(layout)
	require.ErrorIs(t, err, ErrIncompleteBindGroup)
	assert.Contains(t, err.Error(), "missing")
}

func TestGroupValidateExtraBinding(t *testing.T) {
	layout := testLayout(map[uint32]bindingKind{0: bindingKindUniform})

	gb := NewGroupBuilder("test").
		AddBuffer(0, nil).
		AddBuffer(7, nil)
	err := gb.validateAgainst(layout)
	require.ErrorIs(t, err, ErrIncompleteBindGroup)
	assert.Contains(t, err.Error(), "not declared")
}

func TestGroupValidateKindMismatch(t *testing.T) {
	layout := testLayout(map[uint32]bindingKind{0: bindingKindTexture})

	gb := NewGroupBuilder("test").AddSampler(0, nil)
	assert.ErrorIs(t, gb.validateAgainst(layout), ErrIncompleteBindGroup)
}

func TestGroupValidateBufferSatisfiesStorage(t *testing.T) {
	// Buffers are added kind-agnostic; the driver enforces the uniform/storage
	// split.
	layout := testLayout(map[uint32]bindingKind{0: bindingKindStorage})

	gb := NewGroupBuilder("test").AddBuffer(0, nil)
	assert.NoError(t, gb.validateAgainst(layout))
}

func TestGroupValidateDuplicateSupplied(t *testing.T) {
	layout := testLayout(map[uint32]bindingKind{0: bindingKindUniform})

	gb := NewGroupBuilder("test").
		AddBuffer(0, nil).
		AddBuffer(0, nil)
	assert.ErrorIs(t, gb.validateAgainst(layout), ErrDuplicateBinding)
}

func TestKindSatisfies(t *testing.T) {
	assert.True(t, kindSatisfies(bindingKindUniform, bindingKindUniform))
	assert.True(t, kindSatisfies(bindingKindUniform, bindingKindStorage))
	assert.False(t, kindSatisfies(bindingKindStorage, bindingKindUniform))
	assert.False(t, kindSatisfies(bindingKindTexture, bindingKindSampler))
}
