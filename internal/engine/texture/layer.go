package texture

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/petviewer/internal/assets"
)

// Layer is one normalized texture array layer.
type Layer struct {
	Path     string
	MaskPath string // Empty when the source alpha was kept

	// Size of the source image before resizing. Zero when served from cache.
	NativeWidth  int
	NativeHeight int

	Width  int
	Height int
	// Pix is RGBA8, row-major, top-left origin, Width*Height*4 bytes.
	// It may be shared with a cache and must be treated as read-only.
	Pix    []byte
	Cached bool
}

// Masked reports whether the alpha channel came from a mask image.
func (l *Layer) Masked() bool {
	return l.MaskPath != ""
}

// LayerLoader loads texture files as fixed-size RGBA8 layers.
type LayerLoader struct {
	Source assets.Source
	Width  int
	Height int
	// Mask names the companion mask of a texture. Nil selects DefaultMaskPolicy.
	Mask   MaskPolicy
	Filter Filter
	// Cache, when set, keeps normalized layers across loads. Entries are keyed by
	// path, size and filter; all loaders sharing a cache must use the same mask policy.
	Cache *assets.Cache
	Log   *zap.Logger
}

// Load reads, decodes and normalizes the texture at path.
// No vertical flip is applied: PET stores V upside down relative to the
// top-left decode origin, so the two cancel out.
func (l *LayerLoader) Load(path string) (*Layer, error) {
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("invalid layer size %dx%d", l.Width, l.Height)
	}
	log := l.logger()

	maskPath, hasMask := l.maskPolicy()(path)
	hasMask = hasMask && l.Source.Exists(maskPath)

	key := l.cacheKey(path)
	if l.Cache != nil {
		if pix, ok := l.Cache.Get(key); ok {
			log.Debug("texture cache hit", zap.String("path", path))
			layer := &Layer{Path: path, Width: l.Width, Height: l.Height, Pix: pix, Cached: true}
			if hasMask {
				layer.MaskPath = maskPath
			}
			return layer, nil
		}
	}

	data, err := l.Source.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingPrimaryAsset, path, err)
	}
	src, err := Decode(data, path)
	if err != nil {
		return nil, err
	}

	native := src.Bounds()
	log.Debug("loaded texture",
		zap.String("path", path),
		zap.Int("width", native.Dx()),
		zap.Int("height", native.Dy()),
	)

	img := Resize(src, l.Width, l.Height, l.Filter)
	layer := &Layer{
		Path:         path,
		NativeWidth:  native.Dx(),
		NativeHeight: native.Dy(),
		Width:        l.Width,
		Height:       l.Height,
	}

	if hasMask {
		mask, err := l.loadMask(maskPath)
		if err != nil {
			return nil, err
		}
		log.Debug("found mask for alpha channel", zap.String("mask", maskPath))
		img = withMaskAlpha(img, mask)
		layer.MaskPath = maskPath
	}

	layer.Pix = img.Pix
	if l.Cache != nil {
		l.Cache.Set(key, layer.Pix)
	}
	return layer, nil
}

func (l *LayerLoader) loadMask(path string) (*image.NRGBA, error) {
	data, err := l.Source.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mask %s: %w", path, err)
	}
	img, err := Decode(data, path)
	if err != nil {
		return nil, err
	}
	return Resize(img, l.Width, l.Height, l.Filter), nil
}

// withMaskAlpha replaces the alpha of every pixel with the mask's red channel.
// img is modified in place.
func withMaskAlpha(img, mask *image.NRGBA) *image.NRGBA {
	for i := 0; i+3 < len(img.Pix) && i < len(mask.Pix); i += 4 {
		img.Pix[i+3] = mask.Pix[i]
	}
	return img
}

func (l *LayerLoader) maskPolicy() MaskPolicy {
	if l.Mask != nil {
		return l.Mask
	}
	return DefaultMaskPolicy
}

func (l *LayerLoader) cacheKey(path string) string {
	return fmt.Sprintf("%s@%dx%d/%s", path, l.Width, l.Height, l.Filter)
}

func (l *LayerLoader) logger() *zap.Logger {
	if l.Log != nil {
		return l.Log
	}
	return zap.NewNop()
}
