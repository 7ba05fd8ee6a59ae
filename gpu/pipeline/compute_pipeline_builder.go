package pipeline

import (
	"github.com/Carmen-Shannon/gpukit/gpu/bind_group"
	"github.com/Carmen-Shannon/gpukit/gpu/shader"
)

// ComputePipelineBuilderOption is a functional option used to configure a ComputePipeline during construction.
type ComputePipelineBuilderOption func(*computePipelineImpl)

// WithComputeShader sets the compute shader for this pipeline.
//
// Parameters:
//   - s: the compute shader to use for this pipeline
//
// Returns:
//   - ComputePipelineBuilderOption: a function that sets the compute shader for this pipeline
func WithComputeShader(s shader.Shader) ComputePipelineBuilderOption {
	return func(p *computePipelineImpl) {
		p.computeShader = s
	}
}

// WithEntryPoint sets the compute entry-point function name, replacing the
// default "main".
//
// Parameters:
//   - name: the entry-point function name
//
// Returns:
//   - ComputePipelineBuilderOption: a function that sets the entry point for this pipeline
func WithEntryPoint(name string) ComputePipelineBuilderOption {
	return func(p *computePipelineImpl) {
		p.entryPoint = name
	}
}

// WithWorkgroupSize records the per-axis workgroup size for dispatch-size
// calculation. Must match the shader's @workgroup_size declaration.
//
// Parameters:
//   - x: the workgroup size on the x axis
//   - y: the workgroup size on the y axis
//   - z: the workgroup size on the z axis
//
// Returns:
//   - ComputePipelineBuilderOption: a function that sets the workgroup size for this pipeline
func WithWorkgroupSize(x, y, z uint32) ComputePipelineBuilderOption {
	return func(p *computePipelineImpl) {
		p.workgroupSize = [3]uint32{x, y, z}
	}
}

// WithComputeBindGroupLayouts sets the ordered bind group layouts forming the
// pipeline layout. Without this option the driver derives an implicit layout
// from the shader.
//
// Parameters:
//   - layouts: the bind group layouts, ordered by group index
//
// Returns:
//   - ComputePipelineBuilderOption: a function that sets the bind group layouts for this pipeline
func WithComputeBindGroupLayouts(layouts ...bind_group.Layout) ComputePipelineBuilderOption {
	return func(p *computePipelineImpl) {
		p.bindGroupLayouts = rawLayouts(layouts)
	}
}
