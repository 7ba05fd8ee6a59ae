package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceToBytesRoundTrip(t *testing.T) {
	in := []float32{1.5, -2.25, 0, 1024}
	raw := SliceToBytes(in)
	require.Len(t, raw, len(in)*4)

	out := BytesToSlice[float32](raw)
	assert.Equal(t, in, out)
}

func TestBytesToSliceDiscardsPartialElement(t *testing.T) {
	raw := make([]byte, 10)
	out := BytesToSlice[uint32](raw)
	assert.Len(t, out, 2)
}

func TestBytesToSliceEmpty(t *testing.T) {
	assert.Nil(t, BytesToSlice[uint32](nil))
	assert.Nil(t, BytesToSlice[uint32]([]byte{}))
	// Fewer bytes than one element.
	assert.Nil(t, BytesToSlice[uint64](make([]byte, 7)))
}

func TestBytesToStruct(t *testing.T) {
	type vertex struct {
		X, Y, Z float32
		W       float32
	}
	in := []vertex{{X: 1, Y: 2, Z: 3, W: 4}}
	raw := SliceToBytes(in)

	got := BytesToStruct[vertex](raw)
	require.NotNil(t, got)
	assert.Equal(t, in[0], *got)

	assert.Nil(t, BytesToStruct[vertex](raw[:8]))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "a", Coalesce("", "a", "b"))
	assert.Equal(t, 7, Coalesce(0, 0, 7))
	assert.Equal(t, 0, Coalesce[int]())
	assert.Equal(t, "", Coalesce("", ""))
}
