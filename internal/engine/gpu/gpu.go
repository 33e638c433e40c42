// Package gpu uploads assembled models to OpenGL.
// All functions except AttribLayout require a current GL 4.1 context.
package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/petviewer/internal/engine/loader"
	"github.com/Faultbox/petviewer/internal/engine/model"
)

// ErrEmptyModel is returned when a model has nothing to draw.
var ErrEmptyModel = errors.New("model has no vertices")

// Attrib describes one float vertex attribute.
type Attrib struct {
	Location   uint32
	Name       string
	Components int32
	Offset     uintptr
}

// AttribLayout returns the vertex attributes of model.Vertex as stored by
// Mesh.VertexBytes, all sharing model.VertexStride.
func AttribLayout() []Attrib {
	return []Attrib{
		{Location: 0, Name: "aPosition", Components: 3, Offset: model.PositionOffset},
		{Location: 1, Name: "aNormal", Components: 3, Offset: model.NormalOffset},
		{Location: 2, Name: "aTexCoord", Components: 3, Offset: model.TexCoordOffset},
	}
}

// Init loads the GL function pointers and logs the driver.
func Init(log *zap.Logger) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if log != nil {
		log.Info("OpenGL initialized",
			zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
			zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		)
	}
	return nil
}

// Handle owns the GL objects of one uploaded model.
type Handle struct {
	vao, vbo, ebo uint32
	texture       uint32
	indexCount    int32
	sampler       string
}

// Upload transfers the mesh and texture array of m to the GPU.
// CPU buffers may be discarded afterwards.
func Upload(m *loader.Model) (*Handle, error) {
	if m == nil || m.Mesh == nil || len(m.Mesh.Vertices) == 0 {
		return nil, ErrEmptyModel
	}

	h := &Handle{
		indexCount: int32(len(m.Mesh.Indices)),
		sampler:    m.Texture.Role.SamplerName(),
	}

	vertices := m.Mesh.VertexFloats()
	indices := m.Mesh.Indices

	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)

	gl.GenBuffers(1, &h.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	for _, a := range AttribLayout() {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, model.VertexStride, a.Offset)
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.GenBuffers(1, &h.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*model.IndexSize, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if arr := m.Texture.Array; arr != nil && arr.Layers > 0 {
		if err := arr.Validate(); err != nil {
			h.Destroy()
			return nil, err
		}
		h.texture = uploadArray(arr.Width, arr.Height, arr.Layers, arr.Texels)
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		h.Destroy()
		return nil, fmt.Errorf("uploading %s: GL error 0x%x", m.Name, code)
	}
	return h, nil
}

func uploadArray(width, height, layers int, texels []byte) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.RGBA8, int32(width), int32(height), int32(layers),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&texels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D_ARRAY)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	return tex
}

// Draw binds the texture array to unit 0 under its sampler name and draws
// every triangle. program must already be linked.
func (h *Handle) Draw(program uint32) {
	gl.UseProgram(program)
	if h.texture != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, h.texture)
		if loc := gl.GetUniformLocation(program, gl.Str(h.sampler+"\x00")); loc >= 0 {
			gl.Uniform1i(loc, 0)
		}
	}

	gl.BindVertexArray(h.vao)
	gl.DrawElements(gl.TRIANGLES, h.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the GL objects. The handle must not be used afterwards.
func (h *Handle) Destroy() {
	if h.vao != 0 {
		gl.DeleteVertexArrays(1, &h.vao)
	}
	if h.vbo != 0 {
		gl.DeleteBuffers(1, &h.vbo)
	}
	if h.ebo != 0 {
		gl.DeleteBuffers(1, &h.ebo)
	}
	if h.texture != 0 {
		gl.DeleteTextures(1, &h.texture)
	}
	*h = Handle{}
}
