// Package formats provides parsers for Pangya file formats.
// PET (Pangya Entity) format parser for 3D models.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/petviewer/pkg/encoding"
)

// PET format errors.
var (
	ErrInvalidPETChunk  = errors.New("invalid PET chunk tag")
	ErrTruncatedPETData = errors.New("truncated PET data")
	ErrMissingPETMesh   = errors.New("PET file has no MESH chunk")
	ErrInvalidPETMesh   = errors.New("invalid PET mesh")
)

// PET chunk tags.
const (
	PETChunkVersion  = "VERS"
	PETChunkTextures = "TEXT"
	PETChunkMesh     = "MESH"
)

const (
	petTextureNameSize = 40
	petMaxInfluences   = 8
	petMaxCount        = 1 << 22
)

// PETVersion is the container version, major in the high byte (0x0103 = 1.3).
type PETVersion uint32

// Default version assumed when a file has no VERS chunk.
const PETVersionDefault PETVersion = 0x0100

// PETVersionDualUV is the first version storing two UV mappings per corner.
const PETVersionDualUV PETVersion = 0x0103

// String returns the version as "Major.Minor".
func (v PETVersion) String() string {
	return fmt.Sprintf("%d.%d", uint32(v)>>8, uint32(v)&0xFF)
}

// AtLeast returns true if v >= other.
func (v PETVersion) AtLeast(other PETVersion) bool {
	return v >= other
}

// PETBoneWeight is a single bone influence on a vertex.
type PETBoneWeight struct {
	Weight uint8 // 0-255, influences of a vertex sum to 255
	BoneID uint8
}

// PETVertex is a shared vertex position with its skinning data.
type PETVertex struct {
	Position [3]float32
	Weights  []PETBoneWeight
}

// PETUVMapping is one texture coordinate pair.
type PETUVMapping struct {
	U, V float32
}

// PETPolygonIndex is one corner of a polygon.
type PETPolygonIndex struct {
	Index      uint32     // Index into PETMesh.Vertices
	Normal     [3]float32 // Per-corner normal
	UVMappings []PETUVMapping
}

// PETPolygon is a triangle. The container always stores three corners.
type PETPolygon struct {
	Indices []PETPolygonIndex
}

// PETTexture is a texture reference, relative to the model's directory.
type PETTexture struct {
	FileName string
}

// PETMesh holds the geometry of a PET model.
type PETMesh struct {
	Vertices []PETVertex
	Polygons []PETPolygon
	// TextureMap holds the texture layer of every polygon. Nil when the file omits it.
	TextureMap []uint32
}

// PET represents a parsed PET model file.
type PET struct {
	Version  PETVersion
	Textures []PETTexture
	Mesh     *PETMesh
	Chunks   []string // Chunk tags in file order
}

// ParsePET parses PET data from a byte slice.
func ParsePET(data []byte) (*PET, error) {
	pet := &PET{Version: PETVersionDefault}

	var meshPayload []byte
	offset := 0
	for offset < len(data) {
		if len(data)-offset < 8 {
			return nil, fmt.Errorf("%w: chunk header at offset %d", ErrTruncatedPETData, offset)
		}
		tag := string(data[offset : offset+4])
		if !validChunkTag(tag) {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidPETChunk, tag, offset)
		}
		size := int(binary.LittleEndian.Uint32(data[offset+4:]))
		offset += 8
		if size > len(data)-offset {
			return nil, fmt.Errorf("%w: chunk %s wants %d bytes, %d left", ErrTruncatedPETData, tag, size, len(data)-offset)
		}
		payload := data[offset : offset+size]
		offset += size

		pet.Chunks = append(pet.Chunks, tag)

		switch tag {
		case PETChunkVersion:
			if len(payload) < 4 {
				return nil, fmt.Errorf("%w: VERS chunk", ErrTruncatedPETData)
			}
			pet.Version = PETVersion(binary.LittleEndian.Uint32(payload))
		case PETChunkTextures:
			textures, err := parsePETTextures(payload)
			if err != nil {
				return nil, fmt.Errorf("parsing textures: %w", err)
			}
			pet.Textures = textures
		case PETChunkMesh:
			meshPayload = payload
		default:
			// Bones, animations, materials and collision data are not needed here.
		}
	}

	if meshPayload == nil {
		return nil, ErrMissingPETMesh
	}

	// The UV layout depends on the version, which may follow the mesh chunk.
	mesh, err := parsePETMesh(meshPayload, pet.UVMappingCount())
	if err != nil {
		return nil, fmt.Errorf("parsing mesh: %w", err)
	}
	pet.Mesh = mesh

	return pet, nil
}

// ParsePETFile parses a PET file from disk.
func ParsePETFile(path string) (*PET, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PET file: %w", err)
	}
	return ParsePET(data)
}

// UVMappingCount returns the number of UV mappings stored per polygon corner.
func (p *PET) UVMappingCount() int {
	if p.Version.AtLeast(PETVersionDualUV) {
		return 2
	}
	return 1
}

// TotalPolygons returns the number of polygons in the mesh.
func (p *PET) TotalPolygons() int {
	if p.Mesh == nil {
		return 0
	}
	return len(p.Mesh.Polygons)
}

// TotalVertices returns the number of shared vertex positions.
func (p *PET) TotalVertices() int {
	if p.Mesh == nil {
		return 0
	}
	return len(p.Mesh.Vertices)
}

// HasChunk reports whether the file contained a chunk with the given tag.
func (p *PET) HasChunk(tag string) bool {
	for _, c := range p.Chunks {
		if c == tag {
			return true
		}
	}
	return false
}

func parsePETTextures(payload []byte) ([]PETTexture, error) {
	r := newPETReader(payload)
	count := r.count(petTextureNameSize)
	if r.err != nil {
		return nil, r.err
	}

	textures := make([]PETTexture, count)
	for i := range textures {
		name := r.bytes(petTextureNameSize)
		if r.err != nil {
			return nil, fmt.Errorf("texture %d: %w", i, r.err)
		}
		textures[i].FileName = encoding.FixedStringToUTF8(name)
	}
	return textures, nil
}

func parsePETMesh(payload []byte, uvCount int) (*PETMesh, error) {
	r := newPETReader(payload)
	mesh := &PETMesh{}

	// Smallest vertex: position plus one full-weight influence.
	vertexCount := r.count(12 + 2)
	if r.err != nil {
		return nil, fmt.Errorf("vertex count: %w", r.err)
	}
	mesh.Vertices = make([]PETVertex, vertexCount)
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		r.read(&v.Position)

		total := 0
		for total < 255 && r.err == nil {
			if len(v.Weights) == petMaxInfluences {
				return nil, fmt.Errorf("%w: vertex %d has more than %d bone influences", ErrInvalidPETMesh, i, petMaxInfluences)
			}
			var w PETBoneWeight
			r.read(&w.Weight)
			r.read(&w.BoneID)
			v.Weights = append(v.Weights, w)
			total += int(w.Weight)
		}
		if r.err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, r.err)
		}
	}

	cornerSize := 4 + 12 + uvCount*8
	polygonCount := r.count(3 * cornerSize)
	if r.err != nil {
		return nil, fmt.Errorf("polygon count: %w", r.err)
	}
	mesh.Polygons = make([]PETPolygon, polygonCount)
	for i := range mesh.Polygons {
		poly := &mesh.Polygons[i]
		poly.Indices = make([]PETPolygonIndex, 3)
		for j := range poly.Indices {
			pi := &poly.Indices[j]
			r.read(&pi.Index)
			r.read(&pi.Normal)
			pi.UVMappings = make([]PETUVMapping, uvCount)
			for k := range pi.UVMappings {
				r.read(&pi.UVMappings[k].U)
				r.read(&pi.UVMappings[k].V)
			}
		}
		if r.err != nil {
			return nil, fmt.Errorf("polygon %d: %w", i, r.err)
		}
	}

	// Texture map: one byte per polygon, optional.
	if r.Len() > 0 {
		layers := r.bytes(polygonCount)
		if r.err != nil {
			return nil, fmt.Errorf("texture map: %w", r.err)
		}
		mesh.TextureMap = make([]uint32, polygonCount)
		for i, l := range layers {
			mesh.TextureMap[i] = uint32(l)
		}
	}

	return mesh, nil
}

func validChunkTag(tag string) bool {
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// petReader wraps a bytes.Reader and keeps the first error.
type petReader struct {
	*bytes.Reader
	err error
}

func newPETReader(data []byte) *petReader {
	return &petReader{Reader: bytes.NewReader(data)}
}

func (r *petReader) read(v any) {
	if r.err != nil {
		return
	}
	if err := binary.Read(r.Reader, binary.LittleEndian, v); err != nil {
		r.err = truncated(err)
	}
}

// count reads a uint32 element count and checks it against the bytes left,
// given the minimum encoded size of one element.
func (r *petReader) count(minElemSize int) int {
	var n uint32
	r.read(&n)
	if r.err != nil {
		return 0
	}
	if n > petMaxCount || int(n)*minElemSize > r.Len() {
		r.err = fmt.Errorf("%w: count %d exceeds remaining %d bytes", ErrTruncatedPETData, n, r.Len())
		return 0
	}
	return int(n)
}

func (r *petReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.Reader, buf); err != nil {
		r.err = truncated(err)
		return nil
	}
	return buf
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedPETData
	}
	return err
}
