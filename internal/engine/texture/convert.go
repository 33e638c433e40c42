package texture

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Filter selects the resampling kernel used to normalize layer sizes.
type Filter int

const (
	FilterCatmullRom Filter = iota // Bicubic, the default
	FilterBilinear
	FilterNearest
)

// String returns the config name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterCatmullRom:
		return "catmullrom"
	case FilterBilinear:
		return "bilinear"
	case FilterNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ParseFilter parses a config filter name. The empty string selects the default.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(name) {
	case "", "catmullrom", "bicubic":
		return FilterCatmullRom, nil
	case "bilinear", "linear":
		return FilterBilinear, nil
	case "nearest":
		return FilterNearest, nil
	default:
		return 0, fmt.Errorf("unknown texture filter %q", name)
	}
}

func (f Filter) interpolator() draw.Interpolator {
	switch f {
	case FilterBilinear:
		return draw.BiLinear
	case FilterNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// ToNRGBA converts any image to straight-alpha RGBA8 with its origin at (0, 0).
// Images that already have that layout are returned as-is.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok {
		if b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
			return n
		}
		// Copy rows directly; going through draw would round-trip via premultiplied color.
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			i := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], n.Pix[i:i+4*b.Dx()])
		}
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Resize scales img to exactly width x height, ignoring aspect ratio.
// When the size already matches, only the pixel format is normalized.
func Resize(img image.Image, width, height int, filter Filter) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return ToNRGBA(img)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	filter.interpolator().Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
