package buffer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/gpukit/common"
	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMapFailed indicates the host-visible mapping of a staging buffer could not be established.
	ErrMapFailed = errors.New("staging buffer map failed")
)

// stagingBufferImpl is the implementation of the StagingBuffer interface.
type stagingBufferImpl struct {
	mu   *sync.Mutex
	ctx  gpu.Context
	key  string
	raw  *wgpu.Buffer
	size uint64
}

// StagingBuffer defines the interface for a host-visible read-back buffer. It is
// only ever a copy destination and a mapping source; it is never bound to a
// shader. Record a copy into it with CopyFrom inside an open command recording,
// submit, then call Read to block until the mapping is available.
type StagingBuffer interface {
	// Key retrieves the unique identifier for this buffer, used as its debug label.
	//
	// Returns:
	//   - string: the buffer's unique key
	Key() string

	// Raw retrieves the underlying wgpu buffer for use as a copy destination.
	//
	// Returns:
	//   - *wgpu.Buffer: the raw GPU buffer handle
	Raw() *wgpu.Buffer

	// SizeBytes retrieves the allocated size of the staging buffer in bytes.
	//
	// Returns:
	//   - uint64: the buffer size in bytes
	SizeBytes() uint64

	// CopyFrom records a device-to-device copy from src into this staging buffer.
	// The copy is only recorded; it executes when the encoder's command buffer is
	// submitted to the queue.
	//
	// Parameters:
	//   - encoder: an open command encoder to record the copy into
	//   - src: the source GPU buffer
	//   - srcOffset: the byte offset into src to copy from
	//   - size: the number of bytes to copy; must not exceed the staging buffer's size
	//
	// Returns:
	//   - error: ErrCapacityExceeded if size exceeds the staging buffer, otherwise nil
	CopyFrom(encoder *wgpu.CommandEncoder, src *wgpu.Buffer, srcOffset, size uint64) error

	// Read maps the staging buffer, blocking until the device completes the pending
	// copy, and returns a copy of the mapped bytes. The mapping is released before
	// Read returns, so the buffer is immediately reusable as a copy destination.
	//
	// Returns:
	//   - []byte: a copy of the buffer's contents
	//   - error: ErrMapFailed if the mapping could not be established
	Read() ([]byte, error)

	// Release frees the underlying GPU buffer. The buffer must not be used after Release.
	Release()
}

var _ StagingBuffer = &stagingBufferImpl{}

// NewStagingBuffer creates a host-readable buffer of the given byte size with
// MapRead|CopyDst usage.
//
// Parameters:
//   - ctx: the GPU context to create the buffer on
//   - key: the unique identifier used as the buffer's debug label
//   - size: the buffer size in bytes
//
// Returns:
//   - StagingBuffer: the created staging buffer
//   - error: ErrEmptyBuffer if size is zero, otherwise any device error
func NewStagingBuffer(ctx gpu.Context, key string, size uint64) (StagingBuffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyBuffer, key)
	}
	raw, err := ctx.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label: key,
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create staging buffer %q: %w", key, err)
	}
	return &stagingBufferImpl{
		mu:   &sync.Mutex{},
		ctx:  ctx,
		key:  key,
		raw:  raw,
		size: size,
	}, nil
}

func (s *stagingBufferImpl) Key() string {
	return s.key
}

func (s *stagingBufferImpl) Raw() *wgpu.Buffer {
	return s.raw
}

func (s *stagingBufferImpl) SizeBytes() uint64 {
	return s.size
}

func (s *stagingBufferImpl) CopyFrom(encoder *wgpu.CommandEncoder, src *wgpu.Buffer, srcOffset, size uint64) error {
	if size > s.size {
		return fmt.Errorf("%w: copy of %d bytes into staging buffer %q of %d bytes",
			ErrCapacityExceeded, size, s.key, s.size)
	}
	encoder.CopyBufferToBuffer(src, srcOffset, s.raw, 0, size)
	return nil
}

func (s *stagingBufferImpl) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mapStatus wgpu.BufferMapAsyncStatus
	err := s.raw.MapAsync(wgpu.MapModeRead, 0, s.size, func(status wgpu.BufferMapAsyncStatus) {
		mapStatus = status
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrMapFailed, s.key, err)
	}

	// Blocks the calling goroutine until the map callback has fired;
	// unrelated GPU work is unaffected.
	s.ctx.Poll(true)

	if mapStatus != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%w: %q: status %v", ErrMapFailed, s.key, mapStatus)
	}
	defer s.raw.Unmap()

	mapped := s.raw.GetMappedRange(0, uint(s.size))
	if mapped == nil {
		return nil, fmt.Errorf("%w: %q: nil mapped range", ErrMapFailed, s.key)
	}

	// The mapped range is only valid until Unmap, so hand back a copy.
	out := make([]byte, len(mapped))
	copy(out, mapped)
	return out, nil
}

func (s *stagingBufferImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw != nil {
		s.raw.Release()
		s.raw = nil
	}
}

// ReadAs reads the staging buffer and reinterprets the returned bytes as a slice
// of T. Trailing bytes that do not fill a complete element are discarded.
//
// Parameters:
//   - s: the staging buffer to read
//
// Returns:
//   - []T: the buffer contents as elements of T
//   - error: ErrMapFailed if the mapping could not be established
func ReadAs[T any](s StagingBuffer) ([]T, error) {
	raw, err := s.Read()
	if err != nil {
		return nil, err
	}
	view := common.BytesToSlice[T](raw)

	// The view aliases raw, which is already a private copy, but clone it so the
	// result has its own backing array with natural alignment for T.
	out := make([]T, len(view))
	copy(out, view)
	return out, nil
}
