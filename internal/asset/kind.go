package asset

import (
	"net/url"
	"path"
	"strings"
)

// Kind identifies the type of asset a loader produces.
type Kind string

const (
	KindUnknown Kind = ""
	KindImage   Kind = "image"
	KindMesh    Kind = "mesh"
)

func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}

// KindForPath guesses the asset kind from the file extension of a path or
// URL. Query strings and fragments are ignored.
func KindForPath(p string) Kind {
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return KindImage
	case ".glb", ".gltf", ".obj", ".fbx":
		return KindMesh
	default:
		return KindUnknown
	}
}
