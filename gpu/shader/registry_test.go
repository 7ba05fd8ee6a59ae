package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFilesReportsReadError(t *testing.T) {
	r := NewRegistry(nil)

	dir := t.TempDir()
	specs := []FileSpec{
		{Name: "lighting", Stage: StageFragment, Path: filepath.Join(dir, "missing.wgsl")},
		{Name: "reduce", Stage: StageCompute, Path: filepath.Join(dir, "also_missing.wgsl")},
	}

	err := r.LoadFiles(specs)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.wgsl")

	// The read failed before anything was compiled or registered.
	assert.Empty(t, r.Names(StageFragment))
	assert.Empty(t, r.Names(StageCompute))
}

func TestLoadFilesEmptyIsNoOp(t *testing.T) {
	r := NewRegistry(nil)
	assert.NoError(t, r.LoadFiles(nil))
	assert.NoError(t, r.LoadFiles([]FileSpec{}))
}

func TestLoadFileReportsReadError(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.LoadFile("basic", StageVertex, filepath.Join(t.TempDir(), "absent.wgsl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
