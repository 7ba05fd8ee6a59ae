// package bind_group provides declarative builders for bind group layouts and
// the bind groups that satisfy them. A LayoutBuilder accumulates binding
// descriptors and materializes them into an immutable Layout; a GroupBuilder
// supplies concrete resources and validates that they cover the layout's
// entries exactly, by binding index and resource kind.
package bind_group

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrDuplicateBinding indicates two entries were added under the same binding index.
	ErrDuplicateBinding = errors.New("duplicate binding index")

	// ErrIncompleteBindGroup indicates the supplied resources are not a one-to-one
	// match for the layout's entries by binding index and resource kind.
	ErrIncompleteBindGroup = errors.New("incomplete bind group")
)

// bindingKind classifies a layout entry by the resource category it declares.
type bindingKind int

const (
	bindingKindUniform bindingKind = iota
	bindingKindStorage
	bindingKindTexture
	bindingKindSampler
)

// String returns the lowercase name of the binding kind for error messages.
func (k bindingKind) String() string {
	switch k {
	case bindingKindUniform:
		return "uniform buffer"
	case bindingKindStorage:
		return "storage buffer"
	case bindingKindTexture:
		return "texture"
	case bindingKindSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// layoutImpl is the implementation of the Layout interface.
type layoutImpl struct {
	raw     *wgpu.BindGroupLayout
	entries []wgpu.BindGroupLayoutEntry
	kinds   map[uint32]bindingKind
}

// Layout defines the interface for an immutable bind group layout. It retains
// the entry descriptors it was built from so that bind groups can be validated
// against it before the driver sees them.
type Layout interface {
	// Raw retrieves the underlying wgpu bind group layout for pipeline creation.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the raw layout handle
	Raw() *wgpu.BindGroupLayout

	// Entries retrieves the layout's entry descriptors in the order they were added.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: the entry descriptors
	Entries() []wgpu.BindGroupLayoutEntry

	// Release frees the underlying layout. The layout must not be used after Release.
	Release()
}

var _ Layout = &layoutImpl{}

// LayoutBuilder accumulates binding descriptors for a bind group layout.
// Entries are kept in the order they were added; binding indices are
// caller-assigned and must be unique. The zero value is ready to use.
type LayoutBuilder struct {
	label   string
	entries []wgpu.BindGroupLayoutEntry
	kinds   []bindingKind
}

// NewLayoutBuilder creates an empty layout builder.
//
// Parameters:
//   - label: the debug label attached to the built layout
//
// Returns:
//   - *LayoutBuilder: the empty builder
func NewLayoutBuilder(label string) *LayoutBuilder {
	return &LayoutBuilder{label: label}
}

// AddUniform appends a uniform buffer entry.
//
// Parameters:
//   - binding: the binding index within the group
//   - visibility: the shader stages that may access the binding
//
// Returns:
//   - *LayoutBuilder: the builder, for chaining
func (lb *LayoutBuilder) AddUniform(binding uint32, visibility wgpu.ShaderStage) *LayoutBuilder {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	lb.entries = append(lb.entries, entry)
	lb.kinds = append(lb.kinds, bindingKindUniform)
	return lb
}

// AddStorage appends a storage buffer entry.
//
// Parameters:
//   - binding: the binding index within the group
//   - visibility: the shader stages that may access the binding
//   - readOnly: whether the buffer is read-only in the shader
//
// Returns:
//   - *LayoutBuilder: the builder, for chaining
func (lb *LayoutBuilder) AddStorage(binding uint32, visibility wgpu.ShaderStage, readOnly bool) *LayoutBuilder {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	if readOnly {
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	} else {
		entry.Buffer.Type = wgpu.BufferBindingTypeStorage
	}
	lb.entries = append(lb.entries, entry)
	lb.kinds = append(lb.kinds, bindingKindStorage)
	return lb
}

// AddTexture appends a sampled texture entry.
//
// Parameters:
//   - binding: the binding index within the group
//   - visibility: the shader stages that may access the binding
//   - sampleType: the texture sample type (e.g., wgpu.TextureSampleTypeFloat)
//   - viewDimension: the view dimension (e.g., wgpu.TextureViewDimension2D)
//   - multisampled: whether the texture is multisampled
//
// Returns:
//   - *LayoutBuilder: the builder, for chaining
func (lb *LayoutBuilder) AddTexture(binding uint32, visibility wgpu.ShaderStage, sampleType wgpu.TextureSampleType, viewDimension wgpu.TextureViewDimension, multisampled bool) *LayoutBuilder {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Texture.SampleType = sampleType
	entry.Texture.ViewDimension = viewDimension
	entry.Texture.Multisampled = multisampled
	lb.entries = append(lb.entries, entry)
	lb.kinds = append(lb.kinds, bindingKindTexture)
	return lb
}

// AddSampler appends a sampler entry.
//
// Parameters:
//   - binding: the binding index within the group
//   - visibility: the shader stages that may access the binding
//   - samplerType: the sampler binding type (e.g., wgpu.SamplerBindingTypeFiltering)
//
// Returns:
//   - *LayoutBuilder: the builder, for chaining
func (lb *LayoutBuilder) AddSampler(binding uint32, visibility wgpu.ShaderStage, samplerType wgpu.SamplerBindingType) *LayoutBuilder {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Sampler.Type = samplerType
	lb.entries = append(lb.entries, entry)
	lb.kinds = append(lb.kinds, bindingKindSampler)
	return lb
}

// validate checks the accumulated entries for duplicate binding indices.
func (lb *LayoutBuilder) validate() error {
	seen := make(map[uint32]struct{}, len(lb.entries))
	for _, entry := range lb.entries {
		if _, ok := seen[entry.Binding]; ok {
			return fmt.Errorf("%w: %d in layout %q", ErrDuplicateBinding, entry.Binding, lb.label)
		}
		seen[entry.Binding] = struct{}{}
	}
	return nil
}

// Build materializes the accumulated entries into an immutable Layout. The
// builder remains usable afterwards and can build further layouts.
//
// Parameters:
//   - ctx: the GPU context to create the layout on
//
// Returns:
//   - Layout: the built layout
//   - error: ErrDuplicateBinding if a binding index repeats, otherwise any device error
func (lb *LayoutBuilder) Build(ctx gpu.Context) (Layout, error) {
	if err := lb.validate(); err != nil {
		return nil, err
	}

	entries := make([]wgpu.BindGroupLayoutEntry, len(lb.entries))
	copy(entries, lb.entries)

	raw, err := ctx.Device().CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   lb.label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", lb.label, err)
	}

	kinds := make(map[uint32]bindingKind, len(entries))
	for i, entry := range entries {
		kinds[entry.Binding] = lb.kinds[i]
	}

	return &layoutImpl{
		raw:     raw,
		entries: entries,
		kinds:   kinds,
	}, nil
}

func (l *layoutImpl) Raw() *wgpu.BindGroupLayout {
	return l.raw
}

func (l *layoutImpl) Entries() []wgpu.BindGroupLayoutEntry {
	return l.entries
}

func (l *layoutImpl) Release() {
	if l.raw != nil {
		l.raw.Release()
		l.raw = nil
	}
}
