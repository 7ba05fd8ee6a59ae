package renderer

import (
	"github.com/Carmen-Shannon/gpukit/gpu/buffer"
	"github.com/Carmen-Shannon/gpukit/gpu/command"
	"github.com/Carmen-Shannon/gpukit/gpu/resource"
	"github.com/Carmen-Shannon/gpukit/gpu/texture"
)

// CreateUniform creates a uniform buffer from the initial data and registers it
// on the renderer's resource manager under the given name, replacing any
// previous registration.
//
// Parameters:
//   - r: the renderer owning the context and resource manager
//   - name: the name to register the buffer under
//   - data: the initial buffer contents, sizing the buffer exactly
//
// Returns:
//   - buffer.TypedBuffer[T]: the created buffer
//   - error: buffer.ErrEmptyBuffer for empty data, otherwise any device error
func CreateUniform[T any](r Renderer, name string, data []T) (buffer.TypedBuffer[T], error) {
	buf, err := buffer.NewTypedBuffer(r.Context(), name,
		buffer.WithContents(data),
		buffer.WithUniformUsage[T](),
	)
	if err != nil {
		return nil, err
	}
	resource.PutUniform(r.Resources(), name, buf)
	return buf, nil
}

// CreateStorage creates a read-write storage buffer from the initial data and
// registers it on the renderer's resource manager under the given name,
// replacing any previous registration.
//
// Parameters:
//   - r: the renderer owning the context and resource manager
//   - name: the name to register the buffer under
//   - data: the initial buffer contents, sizing the buffer exactly
//
// Returns:
//   - buffer.TypedBuffer[T]: the created buffer
//   - error: buffer.ErrEmptyBuffer for empty data, otherwise any device error
func CreateStorage[T any](r Renderer, name string, data []T) (buffer.TypedBuffer[T], error) {
	buf, err := buffer.NewTypedBuffer(r.Context(), name,
		buffer.WithContents(data),
		buffer.WithStorageUsage[T](),
	)
	if err != nil {
		return nil, err
	}
	resource.PutStorage(r.Resources(), name, buf)
	return buf, nil
}

// UpdateUniform overwrites a registered uniform buffer from offset zero.
//
// Parameters:
//   - r: the renderer owning the resource manager
//   - name: the name the buffer was registered under
//   - data: the new contents; must fit the buffer's capacity
//
// Returns:
//   - error: resource.ErrResourceNotFound, resource.ErrTypeMismatch, or
//     buffer.ErrCapacityExceeded
func UpdateUniform[T any](r Renderer, name string, data []T) error {
	buf, err := resource.Uniform[T](r.Resources(), name)
	if err != nil {
		return err
	}
	return buf.Write(data)
}

// UpdateStorage overwrites a registered storage buffer from offset zero.
//
// Parameters:
//   - r: the renderer owning the resource manager
//   - name: the name the buffer was registered under
//   - data: the new contents; must fit the buffer's capacity
//
// Returns:
//   - error: resource.ErrResourceNotFound, resource.ErrTypeMismatch, or
//     buffer.ErrCapacityExceeded
func UpdateStorage[T any](r Renderer, name string, data []T) error {
	buf, err := resource.Storage[T](r.Resources(), name)
	if err != nil {
		return err
	}
	return buf.Write(data)
}

// ReadStorage copies a registered storage buffer into a transient staging
// buffer, blocks until the copy completes, and returns its elements. Must not
// be called inside an open compute batch.
//
// Parameters:
//   - r: the renderer owning the context and resource manager
//   - name: the name the buffer was registered under
//
// Returns:
//   - []T: the buffer's current contents
//   - error: a lookup, recording, or map failure
func ReadStorage[T any](r Renderer, name string) ([]T, error) {
	buf, err := resource.Storage[T](r.Resources(), name)
	if err != nil {
		return nil, err
	}

	staging, err := buffer.NewStagingBuffer(r.Context(), name+" read-back", buf.SizeBytes())
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	recorder := command.NewRecorder(r.Context(), name+" read-back")
	if err := recorder.Begin(); err != nil {
		return nil, err
	}
	if err := recorder.CopyBufferToBuffer(buf.Raw(), 0, staging.Raw(), 0, buf.SizeBytes()); err != nil {
		recorder.Release()
		return nil, err
	}
	if err := recorder.Submit(); err != nil {
		return nil, err
	}
	return buffer.ReadAs[T](staging)
}

// AddTexture registers a texture on the renderer's resource manager under the
// given name, replacing any previous registration.
//
// Parameters:
//   - r: the renderer owning the resource manager
//   - name: the name to register the texture under
//   - tex: the texture to register
func AddTexture(r Renderer, name string, tex texture.Texture) {
	r.Resources().PutTexture(name, tex)
}
