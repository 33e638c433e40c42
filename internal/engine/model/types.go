// Package model expands indexed PET polygon data into draw-ready vertex and index buffers.
package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMalformedRecord is returned when polygon data violates the mesh invariants.
var ErrMalformedRecord = errors.New("malformed model record")

// UV is a single texture coordinate mapping.
type UV struct {
	U, V float32
}

// Corner is one corner of a source polygon.
type Corner struct {
	PositionIndex uint32
	Normal        mgl32.Vec3
	UVs           []UV // At least one; only the first is used
}

// Polygon is a source polygon. Expand accepts triangles only.
type Polygon struct {
	Corners []Corner
}

// Source is indexed polygon data as read from a model file.
type Source struct {
	Positions []mgl32.Vec3
	Polygons  []Polygon
	// LayerAssignment holds the texture layer of each polygon.
	// Nil means every polygon samples layer 0.
	LayerAssignment []uint32
}

// TexCoord is a texture array coordinate: UV plus the layer to sample.
type TexCoord struct {
	U, V  float32
	Layer uint32
}

// Vertex represents an expanded mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord TexCoord
}

// Mesh holds the complete model mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extents.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// LayerCount, when positive, is the number of texture layers available.
	// Polygons assigned to a layer outside [0, LayerCount) are rejected.
	LayerCount int
}
