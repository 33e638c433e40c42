package texture

import "strings"

// MaskPolicy names the companion mask of a texture.
// It returns false when the texture cannot have a mask at all.
type MaskPolicy func(path string) (maskPath string, ok bool)

// DefaultMaskPolicy maps "name.jpg" to "name_mask.jpg". Other extensions have no mask.
var DefaultMaskPolicy = SuffixMaskPolicy(".jpg", "_mask")

// SuffixMaskPolicy builds a policy that inserts suffix before ext.
// The extension match is case-insensitive and the original extension is kept.
func SuffixMaskPolicy(ext, suffix string) MaskPolicy {
	ext = strings.ToLower(ext)
	return func(path string) (string, bool) {
		if len(path) <= len(ext) || !strings.HasSuffix(strings.ToLower(path), ext) {
			return "", false
		}
		stem, origExt := path[:len(path)-len(ext)], path[len(path)-len(ext):]
		return stem + suffix + origExt, true
	}
}

// NoMaskPolicy disables mask lookup.
func NoMaskPolicy(string) (string, bool) {
	return "", false
}
