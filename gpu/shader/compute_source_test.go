package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSourceBuilderDefaults(t *testing.T) {
	src := NewComputeSourceBuilder().Build("    let i = global_id.x;")

	assert.Contains(t, src, "@compute @workgroup_size(64, 1, 1)")
	assert.Contains(t, src, "fn cs_main(@builtin(global_invocation_id) global_id: vec3<u32>)")
	assert.Contains(t, src, "let i = global_id.x;")
	assert.NotContains(t, src, "local_memory")
}

func TestComputeSourceBuilderOptions(t *testing.T) {
	src := NewComputeSourceBuilder().
		WorkgroupSize(8, 8, 1).
		SharedMemory(128).
		Include("@group(0) @binding(0) var<storage, read_write> data: array<u32>;").
		Include("fn helper(v: u32) -> u32 { return v * 2u; }").
		Build("    data[global_id.x] = helper(data[global_id.x]);")

	assert.Contains(t, src, "@compute @workgroup_size(8, 8, 1)")
	assert.Contains(t, src, "var<workgroup> local_memory: array<u32, 128>;")

	// Includes come before the shared declaration and the entry point, in order.
	first := strings.Index(src, "var<storage, read_write> data")
	second := strings.Index(src, "fn helper")
	shared := strings.Index(src, "local_memory")
	entry := strings.Index(src, "fn cs_main")
	require.True(t, first >= 0 && second >= 0 && shared >= 0 && entry >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, shared)
	assert.Less(t, shared, entry)
}

func TestReductionSourceSubstitution(t *testing.T) {
	src := ReductionSource("result = max(result, data[i]);", "-3.402823e+38", "f32")

	assert.Contains(t, src, "var<storage, read> input_data: array<f32>;")
	assert.Contains(t, src, "var<storage, read_write> output_data: array<f32>;")
	assert.Contains(t, src, "var<workgroup> shared_data: array<f32, 256>;")
	assert.Contains(t, src, "shared_data[tid] = -3.402823e+38;")

	// The operation is rewritten against the shared scratch array.
	assert.Contains(t, src, "shared_data[tid] = max(shared_data[tid], shared_data[idx]);")
	assert.NotContains(t, src, "result")
}

func TestReductionSourceSum(t *testing.T) {
	src := ReductionSource("result += data[i];", "0.0", "f32")

	assert.Contains(t, src, "shared_data[tid] += shared_data[idx];")
	assert.Contains(t, src, "shared_data[tid] = 0.0;")
	assert.Contains(t, src, "output_data[bid] = shared_data[0];")
}

func TestPrefixSumSource(t *testing.T) {
	src := PrefixSumSource("u32")

	assert.Contains(t, src, "var<storage, read> input_data: array<u32>;")
	assert.Contains(t, src, "var<workgroup> shared_data: array<u32, 256>;")
	assert.Contains(t, src, "tid % (2u * d)")
	assert.Contains(t, src, "workgroupBarrier();")
	assert.Contains(t, src, "output_data[i] = shared_data[tid];")
}
