package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/petviewer/internal/engine/gpu"
	"github.com/Faultbox/petviewer/internal/engine/loader"
	"github.com/Faultbox/petviewer/internal/engine/model"
	"github.com/Faultbox/petviewer/internal/engine/texture"
)

// exportLayout is written next to the exported buffers so other tools can
// bind them without knowing the vertex format.
type exportLayout struct {
	Model      string         `yaml:"model"`
	Version    string         `yaml:"version"`
	Vertices   int            `yaml:"vertices"`
	Indices    int            `yaml:"indices"`
	Stride     int            `yaml:"stride"`
	IndexType  string         `yaml:"index_type"`
	Attributes []exportAttrib `yaml:"attributes"`
	BoundsMin  [3]float32     `yaml:"bounds_min,flow"`
	BoundsMax  [3]float32     `yaml:"bounds_max,flow"`
	Texture    exportTexture  `yaml:"texture"`
}

type exportAttrib struct {
	Name       string `yaml:"name"`
	Location   uint32 `yaml:"location"`
	Components int32  `yaml:"components"`
	Offset     int    `yaml:"offset"`
}

type exportTexture struct {
	Role    string        `yaml:"role"`
	Sampler string        `yaml:"sampler"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`
	Used    int           `yaml:"layers_used"`
	Layers  []exportLayer `yaml:"layers"`
}

type exportLayer struct {
	Image        string `yaml:"image"`
	Source       string `yaml:"source"`
	Mask         string `yaml:"mask,omitempty"`
	NativeWidth  int    `yaml:"native_width"`
	NativeHeight int    `yaml:"native_height"`
	Triangles    int    `yaml:"triangles"`
}

func cmdExport(args []string, out io.Writer) error {
	cmd, err := parseCommand("export", args)
	if err != nil {
		return err
	}
	path, rest, err := cmd.modelAndOutput("petool export [file.pet] <output_dir>", 1)
	if err != nil {
		return err
	}
	outDir := rest[0]

	m, err := cmd.newAssembler().Load(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	files := map[string][]byte{
		"vertices.bin": m.Mesh.VertexBytes(),
		"indices.bin":  m.Mesh.IndexBytes(),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	layout := newExportLayout(m)
	arr := m.Texture.Array
	for k := 0; k < arr.Layers; k++ {
		if err := writePNG(filepath.Join(outDir, layout.Texture.Layers[k].Image), arr.LayerImage(k)); err != nil {
			return err
		}
	}
	if arr.Layers > 0 {
		if err := writePNG(filepath.Join(outDir, "atlas.png"), atlasImage(arr)); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "layout.yaml"), data, 0644); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}

	fmt.Fprintf(out, "Exported: %s -> %s (%d vertices, %d layers)\n",
		path, outDir, len(m.Mesh.Vertices), arr.Layers)
	return nil
}

func cmdPack(args []string, out io.Writer) error {
	cmd, err := parseCommand("pack", args)
	if err != nil {
		return err
	}
	path, rest, err := cmd.modelAndOutput("petool pack [file.pet] <out.png>", 1)
	if err != nil {
		return err
	}

	m, err := cmd.newAssembler().Load(path)
	if err != nil {
		return err
	}
	arr := m.Texture.Array
	if arr.Layers == 0 {
		return fmt.Errorf("%s has no textures", path)
	}
	if err := writePNG(rest[0], atlasImage(arr)); err != nil {
		return err
	}

	fmt.Fprintf(out, "Packed: %s -> %s (%dx%d, %d layers)\n", path, rest[0], arr.Width, arr.Height, arr.Layers)
	return nil
}

func newExportLayout(m *loader.Model) exportLayout {
	arr := m.Texture.Array
	layout := exportLayout{
		Model:     m.Name,
		Version:   m.Version.String(),
		Vertices:  len(m.Mesh.Vertices),
		Indices:   len(m.Mesh.Indices),
		Stride:    model.VertexStride,
		IndexType: "uint32",
		BoundsMin: m.Mesh.Bounds.Min,
		BoundsMax: m.Mesh.Bounds.Max,
		Texture: exportTexture{
			Role:    m.Texture.Role.String(),
			Sampler: m.Texture.Role.SamplerName(),
			Width:   arr.Width,
			Height:  arr.Height,
			Used:    m.Mesh.LayersUsed(),
		},
	}
	for _, a := range gpu.AttribLayout() {
		layout.Attributes = append(layout.Attributes, exportAttrib{
			Name:       a.Name,
			Location:   a.Location,
			Components: a.Components,
			Offset:     int(a.Offset),
		})
	}
	groups := m.Mesh.TrianglesByLayer(arr.Layers)
	for k, src := range arr.Sources {
		layout.Texture.Layers = append(layout.Texture.Layers, exportLayer{
			Image:        fmt.Sprintf("layer_%02d.png", k),
			Source:       src.Path,
			Mask:         src.MaskPath,
			NativeWidth:  src.NativeWidth,
			NativeHeight: src.NativeHeight,
			Triangles:    len(groups[k]) / 3,
		})
	}
	return layout
}

// atlasImage views the packed layers stacked top to bottom. Layer-major
// storage makes this a plain reinterpretation of the texel buffer.
func atlasImage(arr *texture.PackedArray) *image.NRGBA {
	return &image.NRGBA{
		Pix:    arr.Texels,
		Stride: arr.Width * 4,
		Rect:   image.Rect(0, 0, arr.Width, arr.Height*arr.Layers),
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
