// Package texture loads model textures and packs them into a single array texture.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Texture loading errors.
var (
	ErrMissingPrimaryAsset = errors.New("missing texture file")
	ErrDecodeFailure       = errors.New("cannot decode image")
)

// Decode decodes an encoded image. The name is only used to pick decoders
// for formats without a signature (TGA); everything else is sniffed.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, name, err)
	}
	return img, nil
}

// DecodeConfig returns the dimensions of an encoded image without decoding its pixels.
func DecodeConfig(data []byte, name string) (width, height int, err error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		if len(data) < tgaHeaderSize {
			return 0, 0, fmt.Errorf("%w: %s: TGA data too short", ErrDecodeFailure, name)
		}
		return int(data[12]) | int(data[13])<<8, int(data[14]) | int(data[15])<<8, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, name, err)
	}
	return cfg.Width, cfg.Height, nil
}
