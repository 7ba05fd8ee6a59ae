package buffer

import "github.com/cogentcore/webgpu/wgpu"

// TypedBufferBuilderOption is a functional option used to configure a TypedBuffer during construction.
type TypedBufferBuilderOption[T any] func(*typedBufferImpl[T])

// WithContents sets the initial contents of the buffer. The buffer's capacity
// becomes exactly len(contents).
//
// Parameters:
//   - contents: the elements to upload at creation time
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets the initial contents for this buffer
func WithContents[T any](contents []T) TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.contents = contents
	}
}

// WithCapacity sets the element capacity for a zero-initialized buffer.
// Ignored when WithContents is also supplied.
//
// Parameters:
//   - capacity: the number of elements to allocate
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets the capacity for this buffer
func WithCapacity[T any](capacity int) TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.capacity = capacity
	}
}

// WithUsage sets the usage flags for the buffer, replacing the default CopyDst|CopySrc.
//
// Parameters:
//   - usage: the wgpu usage flag set (e.g., wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets the usage flags for this buffer
func WithUsage[T any](usage wgpu.BufferUsage) TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.usage = usage
	}
}

// WithUniformUsage marks the buffer for uniform binding plus queued writes.
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets uniform usage flags for this buffer
func WithUniformUsage[T any]() TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
}

// WithStorageUsage marks the buffer for storage binding, queued writes, and
// device-to-staging copies.
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets storage usage flags for this buffer
func WithStorageUsage[T any]() TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	}
}

// WithVertexUsage marks the buffer for vertex input plus queued writes.
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets vertex usage flags for this buffer
func WithVertexUsage[T any]() TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.usage = wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
	}
}

// WithIndexUsage marks the buffer for index input plus queued writes.
//
// Returns:
//   - TypedBufferBuilderOption[T]: a function that sets index usage flags for this buffer
func WithIndexUsage[T any]() TypedBufferBuilderOption[T] {
	return func(b *typedBufferImpl[T]) {
		b.usage = wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	}
}
