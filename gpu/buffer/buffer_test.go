package buffer

import (
	"sync"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBuffer builds a buffer shell with the given capacity, without a device.
func testBuffer[T any](capacity int) *typedBufferImpl[T] {
	return &typedBufferImpl[T]{
		mu:       &sync.Mutex{},
		key:      "test",
		capacity: capacity,
	}
}

func TestNewTypedBufferRequiresContentsOrCapacity(t *testing.T) {
	_, err := NewTypedBuffer[float32](nil, "empty")
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestNewStagingBufferRequiresSize(t *testing.T) {
	_, err := NewStagingBuffer(nil, "empty", 0)
	assert.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestCapacityArithmetic(t *testing.T) {
	b := testBuffer[float32](256)
	assert.Equal(t, 256, b.Capacity())
	assert.Equal(t, uint64(4), b.ElementSize())
	assert.Equal(t, uint64(1024), b.SizeBytes())

	type vertex struct{ X, Y, Z float32 }
	v := testBuffer[vertex](10)
	assert.Equal(t, uint64(12), v.ElementSize())
	assert.Equal(t, uint64(120), v.SizeBytes())
}

func TestWriteAtBounds(t *testing.T) {
	b := testBuffer[uint32](8)

	// Rejected before any device interaction.
	err := b.WriteAt(0, make([]uint32, 9))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	err = b.WriteAt(4, make([]uint32, 5))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	err = b.WriteAt(-1, make([]uint32, 1))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	err = b.Write(make([]uint32, 9))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	// An empty write inside bounds is a no-op, not a queue call.
	assert.NoError(t, b.WriteAt(8, nil))
	assert.NoError(t, b.WriteAt(0, nil))
}

func TestVertexLayoutBuilder(t *testing.T) {
	layout, err := NewVertexLayoutBuilder().
		Add(wgpu.VertexFormatFloat32x3). // position
		Add(wgpu.VertexFormatFloat32x3). // normal
		Add(wgpu.VertexFormatFloat32x2). // uv
		Build()
	require.NoError(t, err)

	assert.Equal(t, uint64(32), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, uint64(0), layout.Attributes[0].Offset)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint64(24), layout.Attributes[2].Offset)
	assert.Equal(t, uint32(2), layout.Attributes[2].ShaderLocation)
}

func TestVertexLayoutBuilderInstancedExplicitLocations(t *testing.T) {
	layout, err := NewVertexLayoutBuilder().
		Instanced().
		AddAt(3, wgpu.VertexFormatFloat32x4).
		Add(wgpu.VertexFormatFloat32x4).
		Build()
	require.NoError(t, err)

	assert.Equal(t, wgpu.VertexStepModeInstance, layout.StepMode)
	assert.Equal(t, uint32(3), layout.Attributes[0].ShaderLocation)
	assert.Equal(t, uint32(4), layout.Attributes[1].ShaderLocation)
	assert.Equal(t, uint64(32), layout.ArrayStride)
}

func TestVertexLayoutBuilderUnknownFormat(t *testing.T) {
	_, err := NewVertexLayoutBuilder().
		Add(wgpu.VertexFormatUndefined).
		Build()
	assert.ErrorIs(t, err, ErrUnknownVertexFormat)

	_, err = VertexFormatSize(wgpu.VertexFormatUndefined)
	assert.ErrorIs(t, err, ErrUnknownVertexFormat)
}
