package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	src := solid(3, 2, color.NRGBA{10, 20, 30, 255})

	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatalf("encoding bmp: %v", err)
	}
	tga := append(makeTGAHeader(TGATypeUncompressed, 1, 1, 24, false), 30, 20, 10)

	tests := []struct {
		name  string
		file  string
		data  []byte
		w, h  int
		wantR uint8
	}{
		{"png", "a.png", encodePNG(t, src), 3, 2, 10},
		{"bmp", "a.bmp", bmpBuf.Bytes(), 3, 2, 10},
		{"png named jpg", "a.jpg", encodePNG(t, src), 3, 2, 10},
		{"tga by extension", "a.TGA", tga, 1, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.data, tt.file)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("expected %dx%d, got %dx%d", tt.w, tt.h, b.Dx(), b.Dy())
			}
			if got := ToNRGBA(img).Pix[0]; got != tt.wantR {
				t.Errorf("expected red %d, got %d", tt.wantR, got)
			}

			w, h, err := DecodeConfig(tt.data, tt.file)
			if err != nil {
				t.Fatalf("DecodeConfig failed: %v", err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("DecodeConfig: expected %dx%d, got %dx%d", tt.w, tt.h, w, h)
			}
		})
	}
}

func TestDecode_Failure(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"sniffed", "broken.jpg"},
		{"tga", "broken.tga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte("not an image"), tt.file)
			if !errors.Is(err, ErrDecodeFailure) {
				t.Errorf("expected ErrDecodeFailure, got %v", err)
			}
			_, _, err = DecodeConfig([]byte("bad"), tt.file)
			if !errors.Is(err, ErrDecodeFailure) {
				t.Errorf("DecodeConfig: expected ErrDecodeFailure, got %v", err)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		want    Filter
		wantErr bool
	}{
		{"", FilterCatmullRom, false},
		{"catmullrom", FilterCatmullRom, false},
		{"Bilinear", FilterBilinear, false},
		{"nearest", FilterNearest, false},
		{"lanczos", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilter(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if FilterNearest.String() != "nearest" || Filter(9).String() != "Unknown(9)" {
		t.Errorf("unexpected filter names %q, %q", FilterNearest, Filter(9))
	}
}

func TestToNRGBA_KeepsStraightAlpha(t *testing.T) {
	src := solid(2, 2, color.NRGBA{10, 20, 30, 128})
	out := ToNRGBA(src)
	if got := out.NRGBAAt(1, 1); got != (color.NRGBA{10, 20, 30, 128}) {
		t.Errorf("got %v, want straight alpha color", got)
	}

	// A sub-image with a non-zero origin is rebased to (0, 0).
	big := solid(4, 4, color.NRGBA{1, 2, 3, 4})
	big.SetNRGBA(2, 2, color.NRGBA{9, 9, 9, 9})
	sub := ToNRGBA(big.SubImage(image.Rect(2, 2, 4, 4)))
	if sub.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", sub.Bounds())
	}
	if got := sub.NRGBAAt(0, 0); got != (color.NRGBA{9, 9, 9, 9}) {
		t.Errorf("got %v at origin", got)
	}
	if got := sub.NRGBAAt(1, 1); got != (color.NRGBA{1, 2, 3, 4}) {
		t.Errorf("got %v at (1,1)", got)
	}

	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.Pix[0] = 200
	if got := ToNRGBA(gray).NRGBAAt(0, 0); got != (color.NRGBA{200, 200, 200, 255}) {
		t.Errorf("gray conversion = %v", got)
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		filter Filter
	}{
		{"downscale catmullrom", 4, 4, FilterCatmullRom},
		{"upscale bilinear", 32, 16, FilterBilinear},
		{"anisotropic nearest", 3, 7, FilterNearest},
	}

	src := solid(16, 8, color.NRGBA{50, 100, 150, 255})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Resize(src, tt.w, tt.h, tt.filter)
			if out.Bounds() != image.Rect(0, 0, tt.w, tt.h) {
				t.Errorf("unexpected bounds %v", out.Bounds())
			}
			if len(out.Pix) != tt.w*tt.h*4 {
				t.Errorf("expected %d bytes, got %d", tt.w*tt.h*4, len(out.Pix))
			}
		})
	}

	// Same size only normalizes the format.
	if out := Resize(src, 16, 8, FilterNearest); !bytes.Equal(out.Pix, src.Pix) {
		t.Error("same-size resize changed pixels")
	}
	// Nearest neighbour keeps solid colors exact.
	if got := Resize(src, 5, 3, FilterNearest).NRGBAAt(4, 2); got != (color.NRGBA{50, 100, 150, 255}) {
		t.Errorf("nearest resize changed color to %v", got)
	}
}

func TestMaskPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy MaskPolicy
		path   string
		want   string
		ok     bool
	}{
		{"default jpg", DefaultMaskPolicy, "models/item0_01.jpg", "models/item0_01_mask.jpg", true},
		{"default keeps extension case", DefaultMaskPolicy, "a/B.JPG", "a/B_mask.JPG", true},
		{"default only replaces suffix", DefaultMaskPolicy, "x.jpg.d/t.jpg", "x.jpg.d/t_mask.jpg", true},
		{"default png has no mask", DefaultMaskPolicy, "a/b.png", "", false},
		{"bare extension", DefaultMaskPolicy, ".jpg", "", false},
		{"custom", SuffixMaskPolicy(".png", "-alpha"), "t.png", "t-alpha.png", true},
		{"disabled", NoMaskPolicy, "t.jpg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.policy(tt.path)
			if ok != tt.ok || got != tt.want {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		role    Role
		name    string
		sampler string
	}{
		{RoleTextureArray, "TextureArray", "texture_array"},
		{RoleDiffuse, "Diffuse", "texture_diffuse"},
		{RoleSpecular, "Specular", "texture_specular"},
		{Role(7), "Unknown(7)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.role.SamplerName(); got != tt.sampler {
				t.Errorf("SamplerName() = %q, want %q", got, tt.sampler)
			}
		})
	}
}
