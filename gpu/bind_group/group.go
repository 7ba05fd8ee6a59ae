package bind_group

import (
	"fmt"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// groupImpl is the implementation of the Group interface.
type groupImpl struct {
	raw *wgpu.BindGroup
}

// Group defines the interface for a bind group: a concrete set of resources
// satisfying a Layout one-to-one by binding index.
type Group interface {
	// Raw retrieves the underlying wgpu bind group for pass recording.
	//
	// Returns:
	//   - *wgpu.BindGroup: the raw bind group handle
	Raw() *wgpu.BindGroup

	// Release frees the underlying bind group. The group must not be used after Release.
	Release()
}

var _ Group = &groupImpl{}

// GroupBuilder accumulates concrete resources for a bind group. Rebuild the
// group whenever the underlying resource set changes; the layout it targets
// stays immutable. The zero value is ready to use.
type GroupBuilder struct {
	label   string
	entries []wgpu.BindGroupEntry
	kinds   []bindingKind
}

// NewGroupBuilder creates an empty group builder.
//
// Parameters:
//   - label: the debug label attached to the built bind group
//
// Returns:
//   - *GroupBuilder: the empty builder
func NewGroupBuilder(label string) *GroupBuilder {
	return &GroupBuilder{label: label}
}

// AddBuffer supplies a buffer for a uniform or storage entry, bound over its
// whole size.
//
// Parameters:
//   - binding: the binding index the buffer satisfies
//   - buf: the GPU buffer to bind
//
// Returns:
//   - *GroupBuilder: the builder, for chaining
func (gb *GroupBuilder) AddBuffer(binding uint32, buf *wgpu.Buffer) *GroupBuilder {
	return gb.AddBufferRange(binding, buf, 0, wgpu.WholeSize)
}

// AddBufferRange supplies a sub-range of a buffer for a uniform or storage entry.
//
// Parameters:
//   - binding: the binding index the buffer satisfies
//   - buf: the GPU buffer to bind
//   - offset: the byte offset into the buffer
//   - size: the bound byte size, or wgpu.WholeSize
//
// Returns:
//   - *GroupBuilder: the builder, for chaining
func (gb *GroupBuilder) AddBufferRange(binding uint32, buf *wgpu.Buffer, offset, size uint64) *GroupBuilder {
	gb.entries = append(gb.entries, wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  buf,
		Offset:  offset,
		Size:    size,
	})
	gb.kinds = append(gb.kinds, bindingKindUniform)
	return gb
}

// AddTextureView supplies a texture view for a sampled texture entry.
//
// Parameters:
//   - binding: the binding index the view satisfies
//   - view: the texture view to bind
//
// Returns:
//   - *GroupBuilder: the builder, for chaining
func (gb *GroupBuilder) AddTextureView(binding uint32, view *wgpu.TextureView) *GroupBuilder {
	gb.entries = append(gb.entries, wgpu.BindGroupEntry{
		Binding:     binding,
		TextureView: view,
	})
	gb.kinds = append(gb.kinds, bindingKindTexture)
	return gb
}

// AddSampler supplies a sampler for a sampler entry.
//
// Parameters:
//   - binding: the binding index the sampler satisfies
//   - sampler: the sampler to bind
//
// Returns:
//   - *GroupBuilder: the builder, for chaining
func (gb *GroupBuilder) AddSampler(binding uint32, sampler *wgpu.Sampler) *GroupBuilder {
	gb.entries = append(gb.entries, wgpu.BindGroupEntry{
		Binding: binding,
		Sampler: sampler,
	})
	gb.kinds = append(gb.kinds, bindingKindSampler)
	return gb
}

// validateAgainst checks that the supplied entries are a bijection with the
// layout's entries by binding index and resource kind. Buffer entries satisfy
// both uniform and storage layout entries; the buffer binding type split is
// enforced by the driver.
func (gb *GroupBuilder) validateAgainst(layout Layout) error {
	li, ok := layout.(*layoutImpl)
	if !ok {
		return fmt.Errorf("%w: layout %q was not built by this package", ErrIncompleteBindGroup, gb.label)
	}

	supplied := make(map[uint32]bindingKind, len(gb.entries))
	for i, entry := range gb.entries {
		if _, dup := supplied[entry.Binding]; dup {
			return fmt.Errorf("%w: binding %d supplied twice in group %q", ErrDuplicateBinding, entry.Binding, gb.label)
		}
		supplied[entry.Binding] = gb.kinds[i]
	}

	for binding, want := range li.kinds {
		got, ok := supplied[binding]
		if !ok {
			return fmt.Errorf("%w: group %q missing %s at binding %d", ErrIncompleteBindGroup, gb.label, want, binding)
		}
		if !kindSatisfies(got, want) {
			return fmt.Errorf("%w: group %q supplies %s at binding %d, layout declares %s",
				ErrIncompleteBindGroup, gb.label, got, binding, want)
		}
	}
	for binding := range supplied {
		if _, ok := li.kinds[binding]; !ok {
			return fmt.Errorf("%w: group %q supplies binding %d not declared by the layout",
				ErrIncompleteBindGroup, gb.label, binding)
		}
	}
	return nil
}

// kindSatisfies reports whether a supplied resource kind can fill a layout
// entry kind. Buffers are added kind-agnostic, so a buffer entry covers both
// buffer layout kinds.
func kindSatisfies(got, want bindingKind) bool {
	if got == want {
		return true
	}
	return got == bindingKindUniform && want == bindingKindStorage
}

// Build validates the supplied resources against the layout and creates the
// bind group. The builder remains usable afterwards.
//
// Parameters:
//   - ctx: the GPU context to create the bind group on
//   - layout: the layout the group must satisfy
//
// Returns:
//   - Group: the built bind group
//   - error: ErrIncompleteBindGroup if the entries do not cover the layout exactly, otherwise any device error
func (gb *GroupBuilder) Build(ctx gpu.Context, layout Layout) (Group, error) {
	if err := gb.validateAgainst(layout); err != nil {
		return nil, err
	}

	entries := make([]wgpu.BindGroupEntry, len(gb.entries))
	copy(entries, gb.entries)

	raw, err := ctx.Device().CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   gb.label,
		Layout:  layout.Raw(),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %q: %w", gb.label, err)
	}
	return &groupImpl{raw: raw}, nil
}

func (g *groupImpl) Raw() *wgpu.BindGroup {
	return g.raw
}

func (g *groupImpl) Release() {
	if g.raw != nil {
		g.raw.Release()
		g.raw = nil
	}
}
