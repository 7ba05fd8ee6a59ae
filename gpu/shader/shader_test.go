package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", StageVertex.String())
	assert.Equal(t, "fragment", StageFragment.String())
	assert.Equal(t, "compute", StageCompute.String())
	assert.Equal(t, "unknown", Stage(42).String())
}

func TestShaderKeyQualifiesByStage(t *testing.T) {
	// The same name under different stages is three distinct keys.
	keys := map[shaderKey]struct{}{
		{stage: StageVertex, name: "basic"}:   {},
		{stage: StageFragment, name: "basic"}: {},
		{stage: StageCompute, name: "basic"}:  {},
	}
	assert.Len(t, keys, 3)
	assert.Equal(t, "vertex/basic", shaderKey{stage: StageVertex, name: "basic"}.String())
}
