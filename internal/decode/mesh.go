package decode

import (
	"errors"
	"fmt"

	"github.com/ligustah/lobby/internal/asset"
)

// ErrMeshImportUnavailable is wrapped by every MeshDecoder error until a
// model importer is wired in.
var ErrMeshImportUnavailable = errors.New("decode: mesh import not implemented")

// Mesh is decoded model geometry.
type Mesh struct {
	Name     string
	Vertices []float32 // xyz triples
	Normals  []float32 // xyz triples, may be empty
	UVs      []float32 // uv pairs, may be empty
	Indices  []uint32
}

func (m *Mesh) String() string {
	return fmt.Sprintf("mesh %q (%d vertices, %d indices)", m.Name, len(m.Vertices)/3, len(m.Indices))
}

// MeshDecoder is a placeholder: it accepts the payload and always reports the
// asset as unsupported.
type MeshDecoder struct{}

// Decode implements asset.Decoder.
func (MeshDecoder) Decode(data []byte) (*Mesh, error) {
	return nil, asset.Unsupported(asset.KindMesh, fmt.Errorf("%w (%d bytes)", ErrMeshImportUnavailable, len(data)))
}
