package texture

import "github.com/cogentcore/webgpu/wgpu"

// TextureBuilderOption is a functional option used to configure a Texture during construction.
type TextureBuilderOption func(*textureImpl)

// WithFormat sets the pixel format for this texture, replacing the default RGBA8UnormSrgb.
//
// Parameters:
//   - format: the wgpu texture format to use
//
// Returns:
//   - TextureBuilderOption: a function that sets the format for this texture
func WithFormat(format wgpu.TextureFormat) TextureBuilderOption {
	return func(t *textureImpl) {
		t.format = format
	}
}

// WithUsage sets the usage flags for this texture, replacing the default
// TextureBinding|CopyDst.
//
// Parameters:
//   - usage: the wgpu texture usage flag set
//
// Returns:
//   - TextureBuilderOption: a function that sets the usage flags for this texture
func WithUsage(usage wgpu.TextureUsage) TextureBuilderOption {
	return func(t *textureImpl) {
		t.usage = usage
	}
}

// WithAddressMode sets the sampler address mode on all three axes.
//
// Parameters:
//   - mode: the wgpu address mode (e.g., wgpu.AddressModeRepeat)
//
// Returns:
//   - TextureBuilderOption: a function that sets the sampler address mode for this texture
func WithAddressMode(mode wgpu.AddressMode) TextureBuilderOption {
	return func(t *textureImpl) {
		t.samplerDesc.AddressModeU = mode
		t.samplerDesc.AddressModeV = mode
		t.samplerDesc.AddressModeW = mode
	}
}

// WithFilterMode sets the sampler magnification and minification filter.
//
// Parameters:
//   - mode: the wgpu filter mode (e.g., wgpu.FilterModeNearest)
//
// Returns:
//   - TextureBuilderOption: a function that sets the sampler filter mode for this texture
func WithFilterMode(mode wgpu.FilterMode) TextureBuilderOption {
	return func(t *textureImpl) {
		t.samplerDesc.MagFilter = mode
		t.samplerDesc.MinFilter = mode
	}
}

// WithSamplerDescriptor replaces the whole sampler configuration for this texture.
//
// Parameters:
//   - desc: the full wgpu sampler descriptor to use
//
// Returns:
//   - TextureBuilderOption: a function that sets the sampler descriptor for this texture
func WithSamplerDescriptor(desc wgpu.SamplerDescriptor) TextureBuilderOption {
	return func(t *textureImpl) {
		t.samplerDesc = desc
	}
}

// WithCompareFunction sets the sampler comparison function, turning the sampler
// into a comparison sampler for shadow-style depth sampling.
//
// Parameters:
//   - compare: the wgpu compare function (e.g., wgpu.CompareFunctionLess)
//
// Returns:
//   - TextureBuilderOption: a function that sets the sampler compare function for this texture
func WithCompareFunction(compare wgpu.CompareFunction) TextureBuilderOption {
	return func(t *textureImpl) {
		t.samplerDesc.Compare = compare
	}
}

// WithMipLevelCount sets the number of mip levels to allocate. WriteData only
// uploads level 0; further levels are the caller's to fill.
//
// Parameters:
//   - count: the mip level count, at least 1
//
// Returns:
//   - TextureBuilderOption: a function that sets the mip level count for this texture
func WithMipLevelCount(count uint32) TextureBuilderOption {
	return func(t *textureImpl) {
		if count > 0 {
			t.mipLevelCount = count
		}
	}
}

// WithSampleCount sets the multisample count for attachment textures.
//
// Parameters:
//   - count: the sample count (e.g., 4 for 4x MSAA)
//
// Returns:
//   - TextureBuilderOption: a function that sets the sample count for this texture
func WithSampleCount(count uint32) TextureBuilderOption {
	return func(t *textureImpl) {
		if count > 0 {
			t.sampleCount = count
		}
	}
}

// withPixels stages initial pixel data for upload after creation.
func withPixels(data []byte) TextureBuilderOption {
	return func(t *textureImpl) {
		t.pixels = data
	}
}
