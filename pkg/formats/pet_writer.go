package formats

import (
	"bytes"
	"encoding/binary"

	"github.com/Faultbox/petviewer/pkg/encoding"
)

// WritePET encodes a PET model into its chunked binary form.
// Only the chunks ParsePET understands are written: VERS, TEXT and MESH.
// Corners are written with exactly UVMappingCount mappings, padded with zeros.
func WritePET(p *PET) []byte {
	var out bytes.Buffer

	var vers [4]byte
	binary.LittleEndian.PutUint32(vers[:], uint32(p.Version))
	writeChunk(&out, PETChunkVersion, vers[:])

	var text bytes.Buffer
	binary.Write(&text, binary.LittleEndian, uint32(len(p.Textures)))
	for _, tex := range p.Textures {
		text.Write(encoding.UTF8ToFixedString(tex.FileName, petTextureNameSize))
	}
	writeChunk(&out, PETChunkTextures, text.Bytes())

	if p.Mesh != nil {
		writeChunk(&out, PETChunkMesh, encodePETMesh(p.Mesh, p.UVMappingCount()))
	}

	return out.Bytes()
}

func encodePETMesh(mesh *PETMesh, uvCount int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	binary.Write(&buf, le, uint32(len(mesh.Vertices)))
	for _, v := range mesh.Vertices {
		binary.Write(&buf, le, v.Position)
		weights := v.Weights
		if len(weights) == 0 {
			weights = []PETBoneWeight{{Weight: 255}}
		}
		for _, w := range weights {
			buf.WriteByte(w.Weight)
			buf.WriteByte(w.BoneID)
		}
	}

	binary.Write(&buf, le, uint32(len(mesh.Polygons)))
	for _, poly := range mesh.Polygons {
		for j := 0; j < 3; j++ {
			var pi PETPolygonIndex
			if j < len(poly.Indices) {
				pi = poly.Indices[j]
			}
			binary.Write(&buf, le, pi.Index)
			binary.Write(&buf, le, pi.Normal)
			for k := 0; k < uvCount; k++ {
				var uv PETUVMapping
				if k < len(pi.UVMappings) {
					uv = pi.UVMappings[k]
				}
				binary.Write(&buf, le, uv.U)
				binary.Write(&buf, le, uv.V)
			}
		}
	}

	if mesh.TextureMap != nil {
		for _, layer := range mesh.TextureMap {
			buf.WriteByte(uint8(layer))
		}
	}

	return buf.Bytes()
}

func writeChunk(out *bytes.Buffer, tag string, payload []byte) {
	out.WriteString(tag)
	binary.Write(out, binary.LittleEndian, uint32(len(payload)))
	out.Write(payload)
}
