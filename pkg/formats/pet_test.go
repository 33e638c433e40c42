package formats

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeTrianglePET(version PETVersion) *PET {
	corner := func(idx uint32, u, v float32) PETPolygonIndex {
		return PETPolygonIndex{
			Index:      idx,
			Normal:     [3]float32{0, 0, 1},
			UVMappings: []PETUVMapping{{U: u, V: v}, {U: u * 2, V: v * 2}},
		}
	}
	return &PET{
		Version:  version,
		Textures: []PETTexture{{FileName: "item0_01.jpg"}, {FileName: "item0_02.jpg"}},
		Mesh: &PETMesh{
			Vertices: []PETVertex{
				{Position: [3]float32{0, 0, 0}, Weights: []PETBoneWeight{{Weight: 255, BoneID: 0}}},
				{Position: [3]float32{1, 0, 0}, Weights: []PETBoneWeight{{Weight: 128, BoneID: 0}, {Weight: 127, BoneID: 1}}},
				{Position: [3]float32{0, 1, 0}},
				{Position: [3]float32{1, 1, 0}},
			},
			Polygons: []PETPolygon{
				{Indices: []PETPolygonIndex{corner(0, 0, 0), corner(1, 1, 0), corner(2, 0, 1)}},
				{Indices: []PETPolygonIndex{corner(1, 1, 0), corner(3, 1, 1), corner(2, 0, 1)}},
			},
			TextureMap: []uint32{0, 1},
		},
	}
}

func TestParsePET_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		version PETVersion
		uvCount int
	}{
		{"v1.0 single uv", 0x0100, 1},
		{"v1.3 dual uv", PETVersionDualUV, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := makeTrianglePET(tt.version)
			pet, err := ParsePET(WritePET(src))
			if err != nil {
				t.Fatalf("ParsePET failed: %v", err)
			}

			if pet.Version != tt.version {
				t.Errorf("expected version %s, got %s", tt.version, pet.Version)
			}
			if pet.UVMappingCount() != tt.uvCount {
				t.Errorf("expected %d uv mappings, got %d", tt.uvCount, pet.UVMappingCount())
			}
			if len(pet.Textures) != 2 || pet.Textures[1].FileName != "item0_02.jpg" {
				t.Errorf("unexpected textures: %+v", pet.Textures)
			}
			if pet.TotalVertices() != 4 {
				t.Errorf("expected 4 vertices, got %d", pet.TotalVertices())
			}
			if pet.TotalPolygons() != 2 {
				t.Fatalf("expected 2 polygons, got %d", pet.TotalPolygons())
			}

			v1 := pet.Mesh.Vertices[1]
			if len(v1.Weights) != 2 || v1.Weights[1].BoneID != 1 {
				t.Errorf("unexpected weights for vertex 1: %+v", v1.Weights)
			}
			// A vertex written without influences gets a single full weight.
			if len(pet.Mesh.Vertices[2].Weights) != 1 || pet.Mesh.Vertices[2].Weights[0].Weight != 255 {
				t.Errorf("unexpected weights for vertex 2: %+v", pet.Mesh.Vertices[2].Weights)
			}

			c := pet.Mesh.Polygons[1].Indices[1]
			if c.Index != 3 {
				t.Errorf("expected corner index 3, got %d", c.Index)
			}
			if len(c.UVMappings) != tt.uvCount {
				t.Fatalf("expected %d uv mappings on corner, got %d", tt.uvCount, len(c.UVMappings))
			}
			if c.UVMappings[0].U != 1 || c.UVMappings[0].V != 1 {
				t.Errorf("unexpected first uv mapping: %+v", c.UVMappings[0])
			}

			if len(pet.Mesh.TextureMap) != 2 || pet.Mesh.TextureMap[1] != 1 {
				t.Errorf("unexpected texture map: %v", pet.Mesh.TextureMap)
			}
		})
	}
}

func TestParsePET_Errors(t *testing.T) {
	valid := WritePET(makeTrianglePET(PETVersionDefault))

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", []byte{}, ErrMissingPETMesh},
		{"short header", []byte{'V', 'E', 'R'}, ErrTruncatedPETData},
		{"bad tag", append([]byte("ve#s"), 0, 0, 0, 0), ErrInvalidPETChunk},
		{"chunk overruns file", valid[:len(valid)-3], ErrTruncatedPETData},
		{"no mesh", WritePET(&PET{Version: PETVersionDefault}), ErrMissingPETMesh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePET(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParsePET_SkipsUnknownChunks(t *testing.T) {
	data := WritePET(makeTrianglePET(PETVersionDefault))

	bone := []byte("BONE")
	bone = binary.LittleEndian.AppendUint32(bone, 5)
	bone = append(bone, 1, 2, 3, 4, 5)
	data = append(bone, data...)

	pet, err := ParsePET(data)
	if err != nil {
		t.Fatalf("ParsePET failed: %v", err)
	}
	if !pet.HasChunk("BONE") {
		t.Error("expected BONE chunk to be recorded")
	}
	if pet.Chunks[0] != "BONE" {
		t.Errorf("expected chunks in file order, got %v", pet.Chunks)
	}
	if pet.TotalPolygons() != 2 {
		t.Errorf("expected 2 polygons, got %d", pet.TotalPolygons())
	}
}

func TestParsePET_VersionAfterMesh(t *testing.T) {
	src := makeTrianglePET(PETVersionDualUV)
	data := WritePET(src)

	// Move the 12-byte VERS chunk behind the rest of the file.
	reordered := append(append([]byte{}, data[12:]...), data[:12]...)

	pet, err := ParsePET(reordered)
	if err != nil {
		t.Fatalf("ParsePET failed: %v", err)
	}
	if got := len(pet.Mesh.Polygons[0].Indices[0].UVMappings); got != 2 {
		t.Errorf("expected 2 uv mappings, got %d", got)
	}
}

func TestParsePET_WithoutTextureMap(t *testing.T) {
	src := makeTrianglePET(PETVersionDefault)
	src.Mesh.TextureMap = nil

	pet, err := ParsePET(WritePET(src))
	if err != nil {
		t.Fatalf("ParsePET failed: %v", err)
	}
	if pet.Mesh.TextureMap != nil {
		t.Errorf("expected nil texture map, got %v", pet.Mesh.TextureMap)
	}
}

func TestParsePET_TooManyInfluences(t *testing.T) {
	src := makeTrianglePET(PETVersionDefault)
	weights := make([]PETBoneWeight, petMaxInfluences+1)
	weights[len(weights)-1].Weight = 255
	src.Mesh.Vertices[0].Weights = weights

	_, err := ParsePET(WritePET(src))
	if !errors.Is(err, ErrInvalidPETMesh) {
		t.Errorf("expected ErrInvalidPETMesh, got %v", err)
	}
}

func TestParsePETFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.pet")
	if err := os.WriteFile(path, WritePET(makeTrianglePET(PETVersionDefault)), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	pet, err := ParsePETFile(path)
	if err != nil {
		t.Fatalf("ParsePETFile failed: %v", err)
	}
	if pet.TotalPolygons() != 2 {
		t.Errorf("expected 2 polygons, got %d", pet.TotalPolygons())
	}

	if _, err := ParsePETFile(filepath.Join(t.TempDir(), "missing.pet")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestPETVersion_String(t *testing.T) {
	tests := []struct {
		version PETVersion
		want    string
	}{
		{0x0100, "1.0"},
		{0x0103, "1.3"},
		{0x0201, "2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.version.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
