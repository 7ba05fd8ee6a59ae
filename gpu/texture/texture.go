// package texture wraps a wgpu image resource together with its view and
// sampler, with factory helpers for the common texture roles: sampled texture
// uploaded from pixel bytes, render target, and depth attachment.
package texture

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/gpukit/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// textureImpl is the implementation of the Texture interface.
// It holds the image resource, its view, and its sampler as a unit.
type textureImpl struct {
	mu      *sync.Mutex
	ctx     gpu.Context
	key     string
	raw     *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler

	width  uint32
	height uint32
	format wgpu.TextureFormat
	usage  wgpu.TextureUsage

	// construction inputs, applied by builder options
	pixels        []byte
	samplerDesc   wgpu.SamplerDescriptor
	mipLevelCount uint32
	sampleCount   uint32
}

// Texture defines the interface for a GPU texture triple of image resource,
// image view, and sampler. Textures are created once at a fixed size; resizing
// requires full recreation.
type Texture interface {
	// Key retrieves the unique identifier for this texture, used as its debug label and for registry lookups.
	//
	// Returns:
	//   - string: the texture's unique key
	Key() string

	// Raw retrieves the underlying wgpu texture.
	//
	// Returns:
	//   - *wgpu.Texture: the raw texture handle
	Raw() *wgpu.Texture

	// View retrieves the texture's full view for binding and attachment use.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	View() *wgpu.TextureView

	// Sampler retrieves the sampler associated with this texture.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler() *wgpu.Sampler

	// Size retrieves the texture dimensions in pixels.
	//
	// Returns:
	//   - uint32: the width in pixels
	//   - uint32: the height in pixels
	Size() (uint32, uint32)

	// Format retrieves the pixel format the texture was created with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the texture format
	Format() wgpu.TextureFormat

	// WriteData queues an upload of raw pixel bytes covering the given extent at
	// mip level 0. The byte length must equal width*height*bytesPerPixel(format).
	//
	// Parameters:
	//   - data: the raw pixel bytes, row-major and tightly packed
	//   - width: the extent width in pixels
	//   - height: the extent height in pixels
	//
	// Returns:
	//   - error: ErrUnsupportedFormat or ErrSizeMismatch on validation failure, otherwise any queue error
	WriteData(data []byte, width, height uint32) error

	// Release frees the texture, view, and sampler. The texture must not be used after Release.
	Release()
}

var _ Texture = &textureImpl{}

// NewTexture creates a texture from the supplied options. The zero configuration
// is a 2D RGBA8UnormSrgb sampled texture with linear clamp-to-edge sampling;
// pass WithFormat, WithUsage, and WithPixels to specialize. Most callers should
// prefer the role-specific constructors FromBytes, NewRenderTarget,
// NewDepthTexture, and NewEmpty.
//
// Parameters:
//   - ctx: the GPU context to create the texture on
//   - key: the unique identifier used as the texture's debug label
//   - width: the texture width in pixels
//   - height: the texture height in pixels
//   - opts: optional TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: the created texture
//   - error: a validation or device error
func NewTexture(ctx gpu.Context, key string, width, height uint32, opts ...TextureBuilderOption) (Texture, error) {
	t := &textureImpl{
		mu:     &sync.Mutex{},
		ctx:    ctx,
		key:    key,
		width:  width,
		height: height,
		format: wgpu.TextureFormatRGBA8UnormSrgb,
		usage:  wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		samplerDesc: wgpu.SamplerDescriptor{
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeLinear,
			LodMinClamp:   0,
			LodMaxClamp:   32,
			MaxAnisotropy: 1,
		},
		mipLevelCount: 1,
		sampleCount:   1,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.pixels != nil {
		if err := ValidatePixelData(t.pixels, width, height, t.format); err != nil {
			return nil, fmt.Errorf("texture %q: %w", key, err)
		}
	}

	raw, err := ctx.Device().CreateTexture(&wgpu.TextureDescriptor{
		Label: key,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: t.mipLevelCount,
		SampleCount:   t.sampleCount,
		Dimension:     wgpu.TextureDimension2D,
		Format:        t.format,
		Usage:         t.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", key, err)
	}
	t.raw = raw

	view, err := raw.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create view for texture %q: %w", key, err)
	}
	t.view = view

	t.samplerDesc.Label = key
	sampler, err := ctx.Device().CreateSampler(&t.samplerDesc)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("failed to create sampler for texture %q: %w", key, err)
	}
	t.sampler = sampler

	if t.pixels != nil {
		pixels := t.pixels
		t.pixels = nil
		if err := t.WriteData(pixels, width, height); err != nil {
			t.Release()
			return nil, err
		}
	}

	gpu.Logger().Debug("texture created", "key", key, "width", width, "height", height, "format", t.format.String())
	return t, nil
}

// FromBytes creates a sampled texture and uploads the given pixel bytes. The
// byte length must equal width*height*bytesPerPixel(format); the format defaults
// to RGBA8UnormSrgb and can be changed with WithFormat.
//
// Parameters:
//   - ctx: the GPU context to create the texture on
//   - key: the unique identifier used as the texture's debug label
//   - data: the raw pixel bytes, row-major and tightly packed
//   - width: the texture width in pixels
//   - height: the texture height in pixels
//   - opts: optional TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: the created texture with data uploaded
//   - error: ErrUnsupportedFormat or ErrSizeMismatch on validation failure, otherwise any device error
func FromBytes(ctx gpu.Context, key string, data []byte, width, height uint32, opts ...TextureBuilderOption) (Texture, error) {
	opts = append(opts, withPixels(data))
	return NewTexture(ctx, key, width, height, opts...)
}

// NewEmpty creates a sampled texture of the given size with no initial contents.
// Upload pixel data later with WriteData.
//
// Parameters:
//   - ctx: the GPU context to create the texture on
//   - key: the unique identifier used as the texture's debug label
//   - width: the texture width in pixels
//   - height: the texture height in pixels
//   - opts: optional TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: the created texture
//   - error: a device error if creation fails
func NewEmpty(ctx gpu.Context, key string, width, height uint32, opts ...TextureBuilderOption) (Texture, error) {
	return NewTexture(ctx, key, width, height, opts...)
}

// NewRenderTarget creates a texture usable as a color attachment that can also
// be sampled and copied out, suitable for offscreen rendering and read-back.
// The format defaults to RGBA8UnormSrgb.
//
// Parameters:
//   - ctx: the GPU context to create the texture on
//   - key: the unique identifier used as the texture's debug label
//   - width: the target width in pixels
//   - height: the target height in pixels
//   - opts: optional TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: the created render target
//   - error: a device error if creation fails
func NewRenderTarget(ctx gpu.Context, key string, width, height uint32, opts ...TextureBuilderOption) (Texture, error) {
	base := []TextureBuilderOption{
		WithUsage(wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc),
	}
	return NewTexture(ctx, key, width, height, append(base, opts...)...)
}

// NewDepthTexture creates a Depth32Float depth attachment of the given size.
// The sampler uses nearest filtering so the texture can also be bound as a
// non-filterable depth texture.
//
// Parameters:
//   - ctx: the GPU context to create the texture on
//   - key: the unique identifier used as the texture's debug label
//   - width: the attachment width in pixels
//   - height: the attachment height in pixels
//   - opts: optional TextureBuilderOption functions to configure the texture
//
// Returns:
//   - Texture: the created depth texture
//   - error: a device error if creation fails
func NewDepthTexture(ctx gpu.Context, key string, width, height uint32, opts ...TextureBuilderOption) (Texture, error) {
	base := []TextureBuilderOption{
		WithFormat(wgpu.TextureFormatDepth32Float),
		WithUsage(wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding),
		WithFilterMode(wgpu.FilterModeNearest),
	}
	return NewTexture(ctx, key, width, height, append(base, opts...)...)
}

func (t *textureImpl) Key() string {
	return t.key
}

func (t *textureImpl) Raw() *wgpu.Texture {
	return t.raw
}

func (t *textureImpl) View() *wgpu.TextureView {
	return t.view
}

func (t *textureImpl) Sampler() *wgpu.Sampler {
	return t.sampler
}

func (t *textureImpl) Size() (uint32, uint32) {
	return t.width, t.height
}

func (t *textureImpl) Format() wgpu.TextureFormat {
	return t.format
}

func (t *textureImpl) WriteData(data []byte, width, height uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ValidatePixelData(data, width, height, t.format); err != nil {
		return fmt.Errorf("texture %q: %w", t.key, err)
	}
	bpp, _ := BytesPerPixel(t.format)

	return t.ctx.Queue().WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.raw,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * bpp,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (t *textureImpl) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.raw != nil {
		t.raw.Release()
		t.raw = nil
	}
}
