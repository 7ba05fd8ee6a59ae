package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// DecodeImage decodes PNG or JPEG bytes to raw RGBA pixel data suitable for
// FromBytes with an RGBA8 format.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: image width in pixels
//   - uint32: image height in pixels
//   - error: an error if decoding fails
func DecodeImage(data []byte) ([]byte, uint32, uint32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return rgbaPixels(img)
}

// FromImageFile loads a PNG or JPEG file from disk and creates a sampled
// RGBA8UnormSrgb texture from its pixels.
//
// Parameters:
//   - ctx: the GPU context to create the texture on
//   - key: the unique identifier used as the texture's debug label
//   - path: the image file path
//   - opts: optional TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: the created texture with the image uploaded
//   - error: an I/O error if the file cannot be read, otherwise any decode or device error
func FromImageFile(ctx gpu.Context, key, path string, opts ...TextureBuilderOption) (Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file %s: %w", path, err)
	}
	pixels, width, height, err := rgbaPixels(img)
	if err != nil {
		return nil, err
	}

	opts = append([]TextureBuilderOption{WithFormat(wgpu.TextureFormatRGBA8UnormSrgb)}, opts...)
	return FromBytes(ctx, key, pixels, width, height, opts...)
}

// rgbaPixels redraws an image into tightly-packed RGBA and returns the pixel
// bytes with the image dimensions.
func rgbaPixels(img image.Image) ([]byte, uint32, uint32, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, 0, 0, fmt.Errorf("image has empty bounds %v", bounds)
	}

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return rgba.Pix, uint32(width), uint32(height), nil
}
