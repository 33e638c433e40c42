package texture

import (
	"fmt"
	"image"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// DecodeTGA decodes a TGA image. TGA has no signature, so callers pick it by extension.
// Supports uncompressed (type 2) and RLE (type 10) true-color images at 24 or 32 bpp.
// The result is straight (non-premultiplied) RGBA with a top-left origin, whatever the file's row order.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	dst := &tgaWriter{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		topToBottom: descriptor&0x20 != 0,
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8

	if imageType == TGATypeUncompressed {
		if len(src) < width*height*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			dst.put(src[i*bytesPerPixel:], bytesPerPixel, 1)
		}
		return dst.img, nil
	}

	if err := decodeTGARLE(dst, src, bytesPerPixel); err != nil {
		return nil, err
	}
	return dst.img, nil
}

// decodeTGARLE expands RLE packets into dst. A short stream leaves the rest transparent.
func decodeTGARLE(dst *tgaWriter, src []byte, bytesPerPixel int) error {
	pos := 0
	for !dst.full() && pos < len(src) {
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated count times.
			if pos+bytesPerPixel > len(src) {
				break
			}
			dst.put(src[pos:], bytesPerPixel, count)
			pos += bytesPerPixel
			continue
		}

		// Raw packet: count literal pixels.
		for i := 0; i < count && !dst.full(); i++ {
			if pos+bytesPerPixel > len(src) {
				return nil
			}
			dst.put(src[pos:], bytesPerPixel, 1)
			pos += bytesPerPixel
		}
	}
	return nil
}

// tgaWriter places BGR(A) pixels in file order into a top-left origin image.
type tgaWriter struct {
	img           *image.NRGBA
	width, height int
	topToBottom   bool
	next          int
}

func (w *tgaWriter) full() bool {
	return w.next >= w.width*w.height
}

func (w *tgaWriter) put(bgra []byte, bytesPerPixel, repeat int) {
	a := uint8(255)
	if bytesPerPixel == 4 {
		a = bgra[3]
	}
	for i := 0; i < repeat && !w.full(); i++ {
		x := w.next % w.width
		y := w.next / w.width
		if !w.topToBottom {
			y = w.height - 1 - y
		}
		o := w.img.PixOffset(x, y)
		w.img.Pix[o+0] = bgra[2]
		w.img.Pix[o+1] = bgra[1]
		w.img.Pix[o+2] = bgra[0]
		w.img.Pix[o+3] = a
		w.next++
	}
}
