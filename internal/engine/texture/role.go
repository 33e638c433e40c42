package texture

import "fmt"

// Role identifies how a texture resource is bound and sampled.
type Role int

const (
	RoleTextureArray Role = iota // All layers in one array texture, selected by uv.z
	RoleDiffuse
	RoleSpecular
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleTextureArray:
		return "TextureArray"
	case RoleDiffuse:
		return "Diffuse"
	case RoleSpecular:
		return "Specular"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// SamplerName returns the shader sampler uniform the role binds to.
func (r Role) SamplerName() string {
	switch r {
	case RoleTextureArray:
		return "texture_array"
	case RoleDiffuse:
		return "texture_diffuse"
	case RoleSpecular:
		return "texture_specular"
	default:
		return ""
	}
}
