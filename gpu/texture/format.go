package texture

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnsupportedFormat indicates a pixel format with no entry in the bytes-per-pixel table.
	ErrUnsupportedFormat = errors.New("unsupported texture format")

	// ErrSizeMismatch indicates pixel data whose length does not equal width*height*bytesPerPixel.
	ErrSizeMismatch = errors.New("pixel data size mismatch")
)

// bytesPerPixelMap lists the formats supported for direct byte upload and their
// per-pixel byte widths.
var bytesPerPixelMap = map[wgpu.TextureFormat]uint32{
	wgpu.TextureFormatRGBA8Unorm:     4,
	wgpu.TextureFormatRGBA8UnormSrgb: 4,
	wgpu.TextureFormatBGRA8Unorm:     4,
	wgpu.TextureFormatBGRA8UnormSrgb: 4,
	wgpu.TextureFormatRG8Unorm:       2,
	wgpu.TextureFormatR8Unorm:        1,
}

// BytesPerPixel retrieves the per-pixel byte width for a format supported for
// direct byte upload.
//
// Parameters:
//   - format: the texture format to look up
//
// Returns:
//   - uint32: the number of bytes per pixel
//   - error: ErrUnsupportedFormat if the format is not in the upload table
func BytesPerPixel(format wgpu.TextureFormat) (uint32, error) {
	bpp, ok := bytesPerPixelMap[format]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format.String())
	}
	return bpp, nil
}

// ValidatePixelData checks that data has exactly width*height*bytesPerPixel bytes
// for the given format.
//
// Parameters:
//   - data: the raw pixel bytes
//   - width: the image width in pixels
//   - height: the image height in pixels
//   - format: the texture format the data is encoded in
//
// Returns:
//   - error: ErrUnsupportedFormat for formats outside the upload table,
//     ErrSizeMismatch if the byte length is wrong, otherwise nil
func ValidatePixelData(data []byte, width, height uint32, format wgpu.TextureFormat) error {
	bpp, err := BytesPerPixel(format)
	if err != nil {
		return err
	}
	expected := uint64(width) * uint64(height) * uint64(bpp)
	if uint64(len(data)) != expected {
		return fmt.Errorf("%w: got %d bytes, want %d (%dx%d at %d bytes per pixel)",
			ErrSizeMismatch, len(data), expected, width, height, bpp)
	}
	return nil
}
