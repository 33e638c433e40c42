//go:build ignore

// This program generates a sample PET model with its textures.
// Run with: go run generate_pet.go
package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
)

func chunk(out *bytes.Buffer, tag string, payload []byte) {
	out.WriteString(tag)
	binary.Write(out, binary.LittleEndian, uint32(len(payload)))
	out.Write(payload)
}

func name40(s string) []byte {
	b := make([]byte, 40)
	copy(b, s)
	return b
}

func main() {
	le := binary.LittleEndian
	var out bytes.Buffer

	// VERS: 1.3, two UV sets per corner
	var vers bytes.Buffer
	binary.Write(&vers, le, uint32(0x0103))
	chunk(&out, "VERS", vers.Bytes())

	// TEXT: two textures, 40-byte null-padded names
	var text bytes.Buffer
	binary.Write(&text, le, uint32(2))
	text.Write(name40("sample_body.jpg"))
	text.Write(name40("sample_face.png"))
	chunk(&out, "TEXT", text.Bytes())

	// BONE: skipped by the parser
	chunk(&out, "BONE", []byte{1, 0, 0, 0, 'r', 'o', 'o', 't'})

	// MESH: unit quad, two triangles
	var mesh bytes.Buffer
	positions := [][3]float32{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1}}
	binary.Write(&mesh, le, uint32(len(positions)))
	for i, p := range positions {
		binary.Write(&mesh, le, p)
		if i == 2 {
			mesh.Write([]byte{128, 0, 127, 1}) // two influences summing to 255
		} else {
			mesh.Write([]byte{255, 0})
		}
	}

	type corner struct {
		index uint32
		u, v  float32
	}
	polygons := [][3]corner{
		{{0, 0, 0}, {1, 1, 0}, {2, 1, 1}},
		{{0, 0, 0}, {2, 1, 1}, {3, 0, 1}},
	}
	binary.Write(&mesh, le, uint32(len(polygons)))
	for _, poly := range polygons {
		for _, c := range poly {
			binary.Write(&mesh, le, c.index)
			binary.Write(&mesh, le, [3]float32{0, 1, 0}) // normal
			binary.Write(&mesh, le, [2]float32{c.u, c.v})
			binary.Write(&mesh, le, [2]float32{0, 0}) // second UV set, unused
		}
	}
	mesh.Write([]byte{0, 1}) // texture layer per polygon
	chunk(&out, "MESH", mesh.Bytes())

	if err := os.WriteFile("sample.pet", out.Bytes(), 0644); err != nil {
		panic(err)
	}

	writeImage("sample_body.jpg", 128, 128, color.NRGBA{200, 120, 40, 255}, true)
	writeImage("sample_body_mask.jpg", 128, 128, color.NRGBA{128, 128, 128, 255}, true)
	writeImage("sample_face.png", 32, 32, color.NRGBA{40, 80, 220, 160}, false)
}

func writeImage(path string, w, h int, c color.NRGBA, asJPEG bool) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	if asJPEG {
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		panic(err)
	}
}
