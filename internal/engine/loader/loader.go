// Package loader assembles PET model files into renderable model descriptors.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/petviewer/internal/assets"
	"github.com/Faultbox/petviewer/internal/engine/model"
	"github.com/Faultbox/petviewer/internal/engine/texture"
	"github.com/Faultbox/petviewer/pkg/formats"
)

// Load errors, re-exported so callers can match with a single import.
var (
	ErrMalformedRecord     = model.ErrMalformedRecord
	ErrMissingPrimaryAsset = texture.ErrMissingPrimaryAsset
	ErrDecodeFailure       = texture.ErrDecodeFailure
)

// Default texture array layer size.
const (
	DefaultLayerWidth  = 64
	DefaultLayerHeight = 64
)

// Options configures an Assembler.
type Options struct {
	Source assets.Source // Nil reads from the filesystem
	Width  int           // Layer width; 0 selects DefaultLayerWidth
	Height int           // Layer height; 0 selects DefaultLayerHeight
	Filter texture.Filter
	Mask   texture.MaskPolicy // Nil selects texture.DefaultMaskPolicy
	Cache  *assets.Cache
	Log    *zap.Logger
}

// Texture is the single texture resource of a model.
type Texture struct {
	Role  texture.Role
	Array *texture.PackedArray
}

// Model is a fully assembled model, ready to hand to a rendering backend.
type Model struct {
	Name    string
	Path    string
	Version formats.PETVersion
	Mesh    *model.Mesh
	Texture Texture
}

// Assembler runs the import pipeline for model files.
type Assembler struct {
	source assets.Source
	packer *texture.Packer
	log    *zap.Logger
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	if opts.Source == nil {
		opts.Source = assets.OSSource{}
	}
	if opts.Width == 0 {
		opts.Width = DefaultLayerWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultLayerHeight
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	return &Assembler{
		source: opts.Source,
		packer: &texture.Packer{Loader: &texture.LayerLoader{
			Source: opts.Source,
			Width:  opts.Width,
			Height: opts.Height,
			Mask:   opts.Mask,
			Filter: opts.Filter,
			Cache:  opts.Cache,
			Log:    opts.Log,
		}},
		log: opts.Log,
	}
}

// Load reads the model at path, expands its polygons and packs its textures.
// Texture names are resolved relative to the model's directory. Nothing is
// returned unless every step succeeds.
func (a *Assembler) Load(path string) (*Model, error) {
	a.log.Info("loading model file", zap.String("path", path))

	data, err := a.source.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingPrimaryAsset, path, err)
	}

	pet, err := formats.ParsePET(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, path, err)
	}

	mesh, err := model.Expand(SourceFromPET(pet), model.BuildOptions{LayerCount: len(pet.Textures)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	a.log.Debug("search directory", zap.String("dir", dir))

	arr, err := a.packer.Pack(TexturePaths(dir, pet.Textures))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("layers", arr.Layers),
	)

	return &Model{
		Name:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:    path,
		Version: pet.Version,
		Mesh:    mesh,
		Texture: Texture{Role: texture.RoleTextureArray, Array: arr},
	}, nil
}

// TexturePaths resolves texture names against dir, keeping their order.
func TexturePaths(dir string, textures []formats.PETTexture) []string {
	paths := make([]string, len(textures))
	for i, tex := range textures {
		paths[i] = filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(tex.FileName, `\`, "/")))
	}
	return paths
}

// SourceFromPET converts a decoded PET mesh into polygon expander input.
func SourceFromPET(pet *formats.PET) *model.Source {
	src := &model.Source{}
	if pet == nil || pet.Mesh == nil {
		return src
	}
	mesh := pet.Mesh

	src.Positions = make([]mgl32.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		src.Positions[i] = mgl32.Vec3(v.Position)
	}

	src.Polygons = make([]model.Polygon, len(mesh.Polygons))
	for i, poly := range mesh.Polygons {
		corners := make([]model.Corner, len(poly.Indices))
		for j, idx := range poly.Indices {
			uvs := make([]model.UV, len(idx.UVMappings))
			for k, uv := range idx.UVMappings {
				uvs[k] = model.UV{U: uv.U, V: uv.V}
			}
			corners[j] = model.Corner{
				PositionIndex: idx.Index,
				Normal:        mgl32.Vec3(idx.Normal),
				UVs:           uvs,
			}
		}
		src.Polygons[i] = model.Polygon{Corners: corners}
	}

	if mesh.TextureMap != nil {
		src.LayerAssignment = append([]uint32(nil), mesh.TextureMap...)
	}
	return src
}
