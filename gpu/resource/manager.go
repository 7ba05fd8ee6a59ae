// package resource provides a name-keyed registry of uniform buffers, storage
// buffers, and textures, decoupling resource creation from pipeline assembly.
// Buffers are stored type-erased and re-typed at retrieval; asking for a buffer
// under the wrong element type is a checked error, never a silent
// reinterpretation of bytes. The three categories are independent namespaces,
// so the same name may be used once in each.
package resource

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/Carmen-Shannon/gpukit/gpu/buffer"
	"github.com/Carmen-Shannon/gpukit/gpu/texture"
)

var (
	// ErrResourceNotFound indicates no resource is registered under the requested name.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrTypeMismatch indicates a typed retrieval with a different element type
	// than the resource was stored with.
	ErrTypeMismatch = errors.New("resource type mismatch")
)

// bufferEntry pairs a type-erased buffer with the element type it was stored
// under, kept for error reporting.
type bufferEntry struct {
	value any
	elem  reflect.Type
}

// managerImpl is the implementation of the Manager interface.
type managerImpl struct {
	mu       *sync.Mutex
	uniforms map[string]bufferEntry
	storage  map[string]bufferEntry
	textures map[string]texture.Texture
}

// Manager defines the interface for the shared resource registry. Typed buffer
// access goes through the package-level generic functions PutUniform, Uniform,
// PutStorage, and Storage; textures are accessed directly on the interface.
// Registering an existing name replaces the previous entry without releasing
// it; callers own resource lifetimes.
type Manager interface {
	// PutTexture registers a texture under the given name, replacing any previous entry.
	//
	// Parameters:
	//   - name: the name to register the texture under
	//   - tex: the texture to register
	PutTexture(name string, tex texture.Texture)

	// Texture retrieves the texture registered under the given name.
	//
	// Parameters:
	//   - name: the name the texture was registered under
	//
	// Returns:
	//   - texture.Texture: the registered texture
	//   - error: ErrResourceNotFound if no texture exists under that name
	Texture(name string) (texture.Texture, error)

	// RemoveUniform unregisters the uniform buffer under the given name, if present.
	// The buffer itself is not released.
	//
	// Parameters:
	//   - name: the name the buffer was registered under
	RemoveUniform(name string)

	// RemoveStorage unregisters the storage buffer under the given name, if present.
	// The buffer itself is not released.
	//
	// Parameters:
	//   - name: the name the buffer was registered under
	RemoveStorage(name string)

	// RemoveTexture unregisters the texture under the given name, if present.
	// The texture itself is not released.
	//
	// Parameters:
	//   - name: the name the texture was registered under
	RemoveTexture(name string)

	// UniformNames retrieves the names of all registered uniform buffers.
	//
	// Returns:
	//   - []string: the registered names, in no particular order
	UniformNames() []string

	// StorageNames retrieves the names of all registered storage buffers.
	//
	// Returns:
	//   - []string: the registered names, in no particular order
	StorageNames() []string

	// TextureNames retrieves the names of all registered textures.
	//
	// Returns:
	//   - []string: the registered names, in no particular order
	TextureNames() []string

	// Clear unregisters everything. Registered resources are not released.
	Clear()
}

var _ Manager = &managerImpl{}

// NewManager creates an empty resource manager.
//
// Returns:
//   - Manager: the empty manager
func NewManager() Manager {
	return &managerImpl{
		mu:       &sync.Mutex{},
		uniforms: make(map[string]bufferEntry),
		storage:  make(map[string]bufferEntry),
		textures: make(map[string]texture.Texture),
	}
}

func (m *managerImpl) PutTexture(name string, tex texture.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[name] = tex
}

func (m *managerImpl) Texture(name string) (texture.Texture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tex, ok := m.textures[name]
	if !ok {
		return nil, fmt.Errorf("%w: texture %q", ErrResourceNotFound, name)
	}
	return tex, nil
}

func (m *managerImpl) RemoveUniform(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.uniforms, name)
}

func (m *managerImpl) RemoveStorage(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.storage, name)
}

func (m *managerImpl) RemoveTexture(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.textures, name)
}

func (m *managerImpl) UniformNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bufferKeys(m.uniforms)
}

func (m *managerImpl) StorageNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bufferKeys(m.storage)
}

func (m *managerImpl) TextureNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.textures))
	for name := range m.textures {
		names = append(names, name)
	}
	return names
}

func (m *managerImpl) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uniforms = make(map[string]bufferEntry)
	m.storage = make(map[string]bufferEntry)
	m.textures = make(map[string]texture.Texture)
}

func bufferKeys(entries map[string]bufferEntry) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	return names
}

// PutUniform registers a uniform buffer under the given name, replacing any
// previous entry.
//
// Parameters:
//   - m: the manager to register on
//   - name: the name to register the buffer under
//   - buf: the uniform buffer to register
func PutUniform[T any](m Manager, name string, buf buffer.TypedBuffer[T]) {
	impl := m.(*managerImpl)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	impl.uniforms[name] = bufferEntry{value: buf, elem: reflect.TypeFor[T]()}
}

// Uniform retrieves the uniform buffer registered under the given name with
// element type T.
//
// Parameters:
//   - m: the manager to retrieve from
//   - name: the name the buffer was registered under
//
// Returns:
//   - buffer.TypedBuffer[T]: the registered buffer
//   - error: ErrResourceNotFound if the name is unknown, ErrTypeMismatch if the
//     buffer was stored with a different element type
func Uniform[T any](m Manager, name string) (buffer.TypedBuffer[T], error) {
	impl := m.(*managerImpl)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	return typedBuffer[T](impl.uniforms, name, "uniform")
}

// PutStorage registers a storage buffer under the given name, replacing any
// previous entry.
//
// Parameters:
//   - m: the manager to register on
//   - name: the name to register the buffer under
//   - buf: the storage buffer to register
func PutStorage[T any](m Manager, name string, buf buffer.TypedBuffer[T]) {
	impl := m.(*managerImpl)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	impl.storage[name] = bufferEntry{value: buf, elem: reflect.TypeFor[T]()}
}

// Storage retrieves the storage buffer registered under the given name with
// element type T.
//
// Parameters:
//   - m: the manager to retrieve from
//   - name: the name the buffer was registered under
//
// Returns:
//   - buffer.TypedBuffer[T]: the registered buffer
//   - error: ErrResourceNotFound if the name is unknown, ErrTypeMismatch if the
//     buffer was stored with a different element type
func Storage[T any](m Manager, name string) (buffer.TypedBuffer[T], error) {
	impl := m.(*managerImpl)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	return typedBuffer[T](impl.storage, name, "storage")
}

// typedBuffer looks up name in entries and re-types the stored buffer as
// TypedBuffer[T]. Callers must hold the manager mutex.
func typedBuffer[T any](entries map[string]bufferEntry, name, category string) (buffer.TypedBuffer[T], error) {
	entry, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s buffer %q", ErrResourceNotFound, category, name)
	}
	buf, ok := entry.value.(buffer.TypedBuffer[T])
	if !ok {
		return nil, fmt.Errorf("%w: %s buffer %q holds elements of %v, requested %v",
			ErrTypeMismatch, category, name, entry.elem, reflect.TypeFor[T]())
	}
	return buf, nil
}
