package texture

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		format wgpu.TextureFormat
		want   uint32
	}{
		{wgpu.TextureFormatRGBA8Unorm, 4},
		{wgpu.TextureFormatRGBA8UnormSrgb, 4},
		{wgpu.TextureFormatBGRA8Unorm, 4},
		{wgpu.TextureFormatBGRA8UnormSrgb, 4},
		{wgpu.TextureFormatRG8Unorm, 2},
		{wgpu.TextureFormatR8Unorm, 1},
	}
	for _, tt := range tests {
		got, err := BytesPerPixel(tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestBytesPerPixelUnsupported(t *testing.T) {
	_, err := BytesPerPixel(wgpu.TextureFormatDepth32Float)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestValidatePixelData(t *testing.T) {
	data := make([]byte, 16*8*4)

	assert.NoError(t, ValidatePixelData(data, 16, 8, wgpu.TextureFormatRGBA8Unorm))

	err := ValidatePixelData(data[:len(data)-1], 16, 8, wgpu.TextureFormatRGBA8Unorm)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	err = ValidatePixelData(append(data, 0), 16, 8, wgpu.TextureFormatRGBA8Unorm)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	// Same bytes, different interpretation.
	assert.ErrorIs(t, ValidatePixelData(data, 16, 8, wgpu.TextureFormatR8Unorm), ErrSizeMismatch)
	assert.NoError(t, ValidatePixelData(data, 32, 16, wgpu.TextureFormatR8Unorm))

	assert.ErrorIs(t, ValidatePixelData(data, 16, 8, wgpu.TextureFormatDepth32Float), ErrUnsupportedFormat)
}
