package resource

import (
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/gpukit/gpu/buffer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBuffer satisfies buffer.TypedBuffer[T] without a device.
type stubBuffer[T any] struct {
	key string
}

func (s *stubBuffer[T]) Key() string            { return s.key }
func (s *stubBuffer[T]) Raw() *wgpu.Buffer      { return nil }
func (s *stubBuffer[T]) Capacity() int          { return 0 }
func (s *stubBuffer[T]) ElementSize() uint64    { var zero T; return uint64(unsafe.Sizeof(zero)) }
func (s *stubBuffer[T]) SizeBytes() uint64      { return 0 }
func (s *stubBuffer[T]) Usage() wgpu.BufferUsage { return 0 }
func (s *stubBuffer[T]) Write([]T) error        { return nil }
func (s *stubBuffer[T]) WriteAt(int, []T) error { return nil }
func (s *stubBuffer[T]) Release()               {}

var _ buffer.TypedBuffer[float32] = &stubBuffer[float32]{}

func TestUniformRoundTrip(t *testing.T) {
	m := NewManager()
	buf := &stubBuffer[float32]{key: "camera"}
	PutUniform[float32](m, "camera", buf)

	got, err := Uniform[float32](m, "camera")
	require.NoError(t, err)
	assert.Same(t, buf, got)
}

func TestUniformNotFound(t *testing.T) {
	m := NewManager()
	_, err := Uniform[float32](m, "missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUniformTypeMismatch(t *testing.T) {
	m := NewManager()
	PutUniform[float32](m, "camera", &stubBuffer[float32]{key: "camera"})

	_, err := Uniform[uint32](m, "camera")
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "float32")
	assert.Contains(t, err.Error(), "uint32")
}

func TestIndependentNamespaces(t *testing.T) {
	m := NewManager()
	PutUniform[float32](m, "shared", &stubBuffer[float32]{key: "uniform"})
	PutStorage[uint32](m, "shared", &stubBuffer[uint32]{key: "storage"})

	u, err := Uniform[float32](m, "shared")
	require.NoError(t, err)
	assert.Equal(t, "uniform", u.Key())

	s, err := Storage[uint32](m, "shared")
	require.NoError(t, err)
	assert.Equal(t, "storage", s.Key())

	// Texture namespace is separate again.
	_, err = m.Texture("shared")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestReplaceKeepsLatest(t *testing.T) {
	m := NewManager()
	PutStorage[float32](m, "values", &stubBuffer[float32]{key: "first"})
	PutStorage[float32](m, "values", &stubBuffer[float32]{key: "second"})

	got, err := Storage[float32](m, "values")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Key())
	assert.Len(t, m.StorageNames(), 1)
}

func TestRemoveAndNames(t *testing.T) {
	m := NewManager()
	PutUniform[float32](m, "a", &stubBuffer[float32]{})
	PutUniform[float32](m, "b", &stubBuffer[float32]{})
	PutStorage[float32](m, "c", &stubBuffer[float32]{})

	assert.ElementsMatch(t, []string{"a", "b"}, m.UniformNames())
	assert.ElementsMatch(t, []string{"c"}, m.StorageNames())

	m.RemoveUniform("a")
	assert.ElementsMatch(t, []string{"b"}, m.UniformNames())

	// Removing an unknown name is a no-op.
	m.RemoveStorage("missing")
	assert.ElementsMatch(t, []string{"c"}, m.StorageNames())
}

func TestClear(t *testing.T) {
	m := NewManager()
	PutUniform[float32](m, "a", &stubBuffer[float32]{})
	PutStorage[float32](m, "b", &stubBuffer[float32]{})
	m.Clear()

	assert.Empty(t, m.UniformNames())
	assert.Empty(t, m.StorageNames())
	assert.Empty(t, m.TextureNames())
}
