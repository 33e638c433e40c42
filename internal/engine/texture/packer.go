package texture

import (
	"fmt"
	"image"

	"go.uber.org/zap"
)

// LayerInfo describes where a packed layer came from.
type LayerInfo struct {
	Path         string
	MaskPath     string
	NativeWidth  int
	NativeHeight int
	Cached       bool
}

// PackedArray is a multi-layer texture: Layers images of Width x Height RGBA8
// texels stored layer-major in Texels.
type PackedArray struct {
	Width   int
	Height  int
	Layers  int
	Texels  []byte
	Sources []LayerInfo
}

// LayerSize returns the byte size of one layer.
func (a *PackedArray) LayerSize() int {
	return a.Width * a.Height * 4
}

// Layer returns the texels of layer k. The slice aliases Texels.
func (a *PackedArray) Layer(k int) []byte {
	size := a.LayerSize()
	return a.Texels[k*size : (k+1)*size : (k+1)*size]
}

// LayerImage returns layer k as an image sharing the packed texels.
func (a *PackedArray) LayerImage(k int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    a.Layer(k),
		Stride: a.Width * 4,
		Rect:   image.Rect(0, 0, a.Width, a.Height),
	}
}

// Validate checks the buffer size against the declared extents.
func (a *PackedArray) Validate() error {
	if want := a.LayerSize() * a.Layers; len(a.Texels) != want {
		return fmt.Errorf("packed texture has %d bytes, want %d (%dx%d x %d layers)",
			len(a.Texels), want, a.Width, a.Height, a.Layers)
	}
	if len(a.Sources) != a.Layers {
		return fmt.Errorf("packed texture has %d sources for %d layers", len(a.Sources), a.Layers)
	}
	return nil
}

// Packer loads every texture of a model into one array texture.
type Packer struct {
	Loader *LayerLoader
}

// Pack loads paths in order; layer k of the result is paths[k], matching the
// layer indices polygons refer to. Any failing layer aborts the whole pack.
func (p *Packer) Pack(paths []string) (*PackedArray, error) {
	loader := p.Loader
	log := loader.logger()

	arr := &PackedArray{
		Width:   loader.Width,
		Height:  loader.Height,
		Layers:  len(paths),
		Texels:  make([]byte, 0, loader.Width*loader.Height*4*len(paths)),
		Sources: make([]LayerInfo, 0, len(paths)),
	}

	for k, path := range paths {
		log.Info("loading texture layer", zap.Int("layer", k), zap.String("path", path))
		layer, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("texture layer %d: %w", k, err)
		}
		arr.Texels = append(arr.Texels, layer.Pix...)
		arr.Sources = append(arr.Sources, LayerInfo{
			Path:         layer.Path,
			MaskPath:     layer.MaskPath,
			NativeWidth:  layer.NativeWidth,
			NativeHeight: layer.NativeHeight,
			Cached:       layer.Cached,
		})
	}

	if err := arr.Validate(); err != nil {
		return nil, err
	}
	return arr, nil
}
