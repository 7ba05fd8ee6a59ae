package buffer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnknownVertexFormat indicates a vertex format with no known byte size.
var ErrUnknownVertexFormat = fmt.Errorf("unknown vertex format")

// vertexFormatSizes maps each supported vertex format to its byte size.
var vertexFormatSizes = map[wgpu.VertexFormat]uint64{
	wgpu.VertexFormatFloat32:   4,
	wgpu.VertexFormatFloat32x2: 8,
	wgpu.VertexFormatFloat32x3: 12,
	wgpu.VertexFormatFloat32x4: 16,
	wgpu.VertexFormatUint32:    4,
	wgpu.VertexFormatUint32x2:  8,
	wgpu.VertexFormatUint32x3:  12,
	wgpu.VertexFormatUint32x4:  16,
	wgpu.VertexFormatSint32:    4,
	wgpu.VertexFormatSint32x2:  8,
	wgpu.VertexFormatSint32x3:  12,
	wgpu.VertexFormatSint32x4:  16,
	wgpu.VertexFormatFloat16x2: 4,
	wgpu.VertexFormatFloat16x4: 8,
}

// VertexFormatSize retrieves the byte size of a vertex format.
//
// Parameters:
//   - format: the vertex format to size
//
// Returns:
//   - uint64: the format's size in bytes
//   - error: ErrUnknownVertexFormat if the format is not in the size table
func VertexFormatSize(format wgpu.VertexFormat) (uint64, error) {
	size, ok := vertexFormatSizes[format]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownVertexFormat, format)
	}
	return size, nil
}

// VertexLayoutBuilder accumulates vertex attributes in declaration order,
// assigning sequential byte offsets and shader locations automatically.
type VertexLayoutBuilder struct {
	attributes []wgpu.VertexAttribute
	offset     uint64
	location   uint32
	stepMode   wgpu.VertexStepMode
	err        error
}

// NewVertexLayoutBuilder creates a builder for a per-vertex buffer layout.
//
// Returns:
//   - *VertexLayoutBuilder: the empty builder
func NewVertexLayoutBuilder() *VertexLayoutBuilder {
	return &VertexLayoutBuilder{stepMode: wgpu.VertexStepModeVertex}
}

// Instanced switches the layout to per-instance stepping.
//
// Returns:
//   - *VertexLayoutBuilder: the builder for chaining
func (vb *VertexLayoutBuilder) Instanced() *VertexLayoutBuilder {
	vb.stepMode = wgpu.VertexStepModeInstance
	return vb
}

// Add appends an attribute at the next byte offset and shader location.
//
// Parameters:
//   - format: the attribute's vertex format
//
// Returns:
//   - *VertexLayoutBuilder: the builder for chaining
func (vb *VertexLayoutBuilder) Add(format wgpu.VertexFormat) *VertexLayoutBuilder {
	return vb.AddAt(vb.location, format)
}

// AddAt appends an attribute at the next byte offset with an explicit shader
// location, for layouts split across multiple buffers.
//
// Parameters:
//   - location: the attribute's shader location
//   - format: the attribute's vertex format
//
// Returns:
//   - *VertexLayoutBuilder: the builder for chaining
func (vb *VertexLayoutBuilder) AddAt(location uint32, format wgpu.VertexFormat) *VertexLayoutBuilder {
	size, err := VertexFormatSize(format)
	if err != nil {
		if vb.err == nil {
			vb.err = err
		}
		return vb
	}
	vb.attributes = append(vb.attributes, wgpu.VertexAttribute{
		Format:         format,
		Offset:         vb.offset,
		ShaderLocation: location,
	})
	vb.offset += size
	vb.location = location + 1
	return vb
}

// Build materializes the accumulated attributes into a vertex buffer layout
// with the total stride.
//
// Returns:
//   - wgpu.VertexBufferLayout: the built layout
//   - error: ErrUnknownVertexFormat if any added format was not recognized
func (vb *VertexLayoutBuilder) Build() (wgpu.VertexBufferLayout, error) {
	if vb.err != nil {
		return wgpu.VertexBufferLayout{}, vb.err
	}
	attrs := make([]wgpu.VertexAttribute, len(vb.attributes))
	copy(attrs, vb.attributes)
	return wgpu.VertexBufferLayout{
		ArrayStride: vb.offset,
		StepMode:    vb.stepMode,
		Attributes:  attrs,
	}, nil
}
