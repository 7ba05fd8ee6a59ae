// package buffer provides typed GPU buffer wrappers. A TypedBuffer binds a Go
// element type to a raw wgpu buffer and enforces the capacity invariant on every
// write; a StagingBuffer is the host-visible transfer target for reading device
// results back to the CPU.
package buffer

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/Carmen-Shannon/gpukit/common"
	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrCapacityExceeded indicates a write larger than the buffer's allocated capacity.
	// The write is rejected whole; no partial data is uploaded.
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")

	// ErrEmptyBuffer indicates a buffer was requested with neither initial contents nor a capacity.
	ErrEmptyBuffer = errors.New("buffer requires contents or a capacity")
)

// typedBufferImpl is the implementation of the TypedBuffer interface.
type typedBufferImpl[T any] struct {
	mu       *sync.Mutex
	ctx      gpu.Context
	key      string
	raw      *wgpu.Buffer
	capacity int
	usage    wgpu.BufferUsage

	// construction inputs, applied by builder options
	contents []T
}

// TypedBuffer defines the interface for a GPU buffer whose contents are a slice
// of a single element type. The buffer's byte size is always capacity times the
// element size, and writes that would exceed the capacity fail without touching
// the GPU.
type TypedBuffer[T any] interface {
	// Key retrieves the unique identifier for this buffer, used as its debug label and for registry lookups.
	//
	// Returns:
	//   - string: the buffer's unique key
	Key() string

	// Raw retrieves the underlying wgpu buffer for use in bind groups and passes.
	//
	// Returns:
	//   - *wgpu.Buffer: the raw GPU buffer handle
	Raw() *wgpu.Buffer

	// Capacity retrieves the number of elements the buffer was allocated for.
	//
	// Returns:
	//   - int: the element capacity
	Capacity() int

	// ElementSize retrieves the size in bytes of a single element.
	//
	// Returns:
	//   - uint64: sizeof(T) in bytes
	ElementSize() uint64

	// SizeBytes retrieves the total allocated size of the buffer in bytes.
	//
	// Returns:
	//   - uint64: capacity multiplied by the element size
	SizeBytes() uint64

	// Usage retrieves the usage flags the buffer was created with.
	//
	// Returns:
	//   - wgpu.BufferUsage: the usage flag set
	Usage() wgpu.BufferUsage

	// Write queues a device-side write of data starting at element offset 0.
	// The data is only guaranteed visible to shader invocations scheduled after
	// the write is submitted to the device queue.
	//
	// Parameters:
	//   - data: the elements to upload; must not exceed the buffer's capacity
	//
	// Returns:
	//   - error: ErrCapacityExceeded if len(data) > Capacity(), otherwise any queue error
	Write(data []T) error

	// WriteAt queues a device-side write of data starting at the given element offset.
	//
	// Parameters:
	//   - elementOffset: the element index to start writing at
	//   - data: the elements to upload; offset + len(data) must not exceed the capacity
	//
	// Returns:
	//   - error: ErrCapacityExceeded if the write would overrun the buffer, otherwise any queue error
	WriteAt(elementOffset int, data []T) error

	// Release frees the underlying GPU buffer. The buffer must not be used after Release.
	Release()
}

var _ TypedBuffer[float32] = &typedBufferImpl[float32]{}

// NewTypedBuffer creates a GPU buffer bound to element type T. Pass WithContents
// to create the buffer sized exactly to the initial data, or WithCapacity for a
// zero-initialized buffer of that element count. The default usage is
// CopyDst|CopySrc; combine WithUsage with the binding the buffer is destined for
// (uniform, storage, vertex, index).
//
// Parameters:
//   - ctx: the GPU context to create the buffer on
//   - key: the unique identifier used as the buffer's debug label
//   - opts: optional TypedBufferBuilderOption functions to configure the buffer
//
// Returns:
//   - TypedBuffer[T]: the created buffer
//   - error: ErrEmptyBuffer if no contents or capacity was provided, otherwise any device error
func NewTypedBuffer[T any](ctx gpu.Context, key string, opts ...TypedBufferBuilderOption[T]) (TypedBuffer[T], error) {
	b := &typedBufferImpl[T]{
		mu:    &sync.Mutex{},
		ctx:   ctx,
		key:   key,
		usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	}
	for _, opt := range opts {
		opt(b)
	}

	switch {
	case len(b.contents) > 0:
		b.capacity = len(b.contents)
		raw, err := ctx.Device().CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    key,
			Contents: common.SliceToBytes(b.contents),
			Usage:    b.usage,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create buffer %q: %w", key, err)
		}
		b.raw = raw
	case b.capacity > 0:
		raw, err := ctx.Device().CreateBuffer(&wgpu.BufferDescriptor{
			Label: key,
			Size:  b.SizeBytes(),
			Usage: b.usage,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create buffer %q: %w", key, err)
		}
		b.raw = raw
	default:
		return nil, fmt.Errorf("%w: %q", ErrEmptyBuffer, key)
	}
	b.contents = nil

	gpu.Logger().Debug("buffer created", "key", key, "capacity", b.capacity, "bytes", b.SizeBytes())
	return b, nil
}

func (b *typedBufferImpl[T]) Key() string {
	return b.key
}

func (b *typedBufferImpl[T]) Raw() *wgpu.Buffer {
	return b.raw
}

func (b *typedBufferImpl[T]) Capacity() int {
	return b.capacity
}

func (b *typedBufferImpl[T]) ElementSize() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

func (b *typedBufferImpl[T]) SizeBytes() uint64 {
	return uint64(b.capacity) * b.ElementSize()
}

func (b *typedBufferImpl[T]) Usage() wgpu.BufferUsage {
	return b.usage
}

func (b *typedBufferImpl[T]) Write(data []T) error {
	return b.WriteAt(0, data)
}

func (b *typedBufferImpl[T]) WriteAt(elementOffset int, data []T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elementOffset < 0 || elementOffset+len(data) > b.capacity {
		return fmt.Errorf("%w: buffer %q write of %d elements at offset %d exceeds capacity %d",
			ErrCapacityExceeded, b.key, len(data), elementOffset, b.capacity)
	}
	if len(data) == 0 {
		return nil
	}
	return b.ctx.Queue().WriteBuffer(b.raw, uint64(elementOffset)*b.ElementSize(), common.SliceToBytes(data))
}

func (b *typedBufferImpl[T]) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
}
