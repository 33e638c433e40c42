package model

import (
	"encoding/binary"
	"math"
)

// Vertex buffer layout: position, normal and (u, v, layer), three float32 each, no padding.
const (
	FloatsPerVertex = 9
	VertexStride    = FloatsPerVertex * 4

	PositionOffset = 0
	NormalOffset   = 3 * 4
	TexCoordOffset = 6 * 4

	IndexSize = 4
)

// VertexFloats returns the vertex buffer as a flat float32 slice.
// The layer index is stored as a float so the shader reads it as uv.z.
func (m *Mesh) VertexFloats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord.U, v.TexCoord.V, float32(v.TexCoord.Layer),
		)
	}
	return out
}

// VertexBytes returns the vertex buffer encoded as little-endian float32.
func (m *Mesh) VertexBytes() []byte {
	floats := m.VertexFloats()
	out := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// IndexBytes returns the index buffer encoded as little-endian uint32.
func (m *Mesh) IndexBytes() []byte {
	out := make([]byte, len(m.Indices)*IndexSize)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(out[i*IndexSize:], idx)
	}
	return out
}
