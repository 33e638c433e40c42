package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Faultbox/petviewer/internal/assets"
	"github.com/Faultbox/petviewer/internal/engine/loader"
	"github.com/Faultbox/petviewer/internal/engine/texture"
	"github.com/Faultbox/petviewer/pkg/formats"
)

func cmdInfo(args []string, out io.Writer) error {
	cmd, err := parseCommand("info", args)
	if err != nil {
		return err
	}
	path, _, err := cmd.modelAndOutput("petool info [file.pet]", 0)
	if err != nil {
		return err
	}

	pet, err := formats.ParsePETFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Model:    %s\n", path)
	fmt.Fprintf(out, "Version:  %s\n", pet.Version)
	fmt.Fprintf(out, "Chunks:   %v\n", pet.Chunks)
	fmt.Fprintf(out, "Vertices: %d\n", pet.TotalVertices())
	fmt.Fprintf(out, "Polygons: %d\n", pet.TotalPolygons())
	fmt.Fprintf(out, "UV sets:  %d\n", pet.UVMappingCount())

	perLayer := make([]int, len(pet.Textures))
	if pet.Mesh != nil {
		for _, layer := range pet.Mesh.TextureMap {
			if int(layer) < len(perLayer) {
				perLayer[layer]++
			}
		}
	}

	src := assets.OSSource{}
	policy := cmd.cfg.Texture.MaskPolicy()
	fmt.Fprintf(out, "\nTextures (%d):\n", len(pet.Textures))
	for i, texPath := range loader.TexturePaths(filepath.Dir(path), pet.Textures) {
		status := "missing"
		if data, err := src.ReadFile(texPath); err == nil {
			if w, h, err := texture.DecodeConfig(data, texPath); err == nil {
				status = fmt.Sprintf("%dx%d", w, h)
			} else {
				status = "invalid"
			}
		}
		mask := "-"
		if maskPath, ok := policy(texPath); ok && src.Exists(maskPath) {
			mask = filepath.Base(maskPath)
		}
		fmt.Fprintf(out, "  [%d] %-24s %-9s mask: %-24s polygons: %d\n",
			i, pet.Textures[i].FileName, status, mask, perLayer[i])
	}
	return nil
}
