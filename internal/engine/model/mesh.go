package model

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Expand flattens indexed polygons into one vertex per polygon corner.
// Vertex i*3+j is corner j of polygon i and the index list is 0..n-1.
// Vertices are never shared: corners at the same position keep their own
// normal, UV and layer. Any malformed polygon aborts the whole mesh.
func Expand(src *Source, opts BuildOptions) (*Mesh, error) {
	if err := validate(src, opts); err != nil {
		return nil, err
	}

	count := 3 * len(src.Polygons)
	vertices := make([]Vertex, 0, count)
	indices := make([]uint32, 0, count)

	bounds := emptyBounds()
	if count == 0 {
		bounds = Bounds{}
	}

	for i, poly := range src.Polygons {
		layer := uint32(0)
		if src.LayerAssignment != nil {
			layer = src.LayerAssignment[i]
		}

		for j, c := range poly.Corners {
			pos := src.Positions[c.PositionIndex]
			updateBounds(&bounds, pos)

			vertices = append(vertices, Vertex{
				Position: pos,
				Normal:   c.Normal,
				TexCoord: TexCoord{U: c.UVs[0].U, V: c.UVs[0].V, Layer: layer},
			})
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   bounds,
	}, nil
}

func validate(src *Source, opts BuildOptions) error {
	if src == nil {
		return fmt.Errorf("%w: no polygon source", ErrMalformedRecord)
	}
	if src.LayerAssignment != nil && len(src.LayerAssignment) != len(src.Polygons) {
		return fmt.Errorf("%w: %d layer assignments for %d polygons",
			ErrMalformedRecord, len(src.LayerAssignment), len(src.Polygons))
	}

	for i, poly := range src.Polygons {
		if len(poly.Corners) != 3 {
			return fmt.Errorf("%w: polygon %d has %d corners, want 3", ErrMalformedRecord, i, len(poly.Corners))
		}
		for j, c := range poly.Corners {
			if int(c.PositionIndex) >= len(src.Positions) {
				return fmt.Errorf("%w: polygon %d corner %d references position %d of %d",
					ErrMalformedRecord, i, j, c.PositionIndex, len(src.Positions))
			}
			if len(c.UVs) == 0 {
				return fmt.Errorf("%w: polygon %d corner %d has no uv mapping", ErrMalformedRecord, i, j)
			}
		}
		if opts.LayerCount > 0 && src.LayerAssignment != nil && int(src.LayerAssignment[i]) >= opts.LayerCount {
			return fmt.Errorf("%w: polygon %d uses layer %d of %d",
				ErrMalformedRecord, i, src.LayerAssignment[i], opts.LayerCount)
		}
	}
	return nil
}

// TrianglesByLayer groups the mesh indices by the texture layer of their triangle.
// The result has layerCount entries; triangles on layers outside that range are dropped.
func (m *Mesh) TrianglesByLayer(layerCount int) [][]uint32 {
	groups := make([][]uint32, layerCount)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		layer := int(m.Vertices[m.Indices[t]].TexCoord.Layer)
		if layer >= layerCount {
			continue
		}
		groups[layer] = append(groups[layer], m.Indices[t], m.Indices[t+1], m.Indices[t+2])
	}
	return groups
}

// LayersUsed reports the number of distinct texture layers referenced by the mesh.
func (m *Mesh) LayersUsed() int {
	seen := make(map[uint32]struct{})
	for _, v := range m.Vertices {
		seen[v.TexCoord.Layer] = struct{}{}
	}
	return len(seen)
}

func emptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
