// Package fan implements the kernel.Triangulator interface by fan
// decomposition: each n-gon face becomes n-2 triangles sharing the
// face's first vertex. Faces are assumed convex, which holds for all
// meshes produced by this library.
package fan

import (
	"errors"

	"github.com/user27182/geovista/pkg/kernel"
	"github.com/user27182/geovista/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Triangulator = (*Triangulator)(nil)

// Triangulator fan-decomposes polygon faces into triangles.
type Triangulator struct{}

// New returns a fan Triangulator.
func New() *Triangulator {
	return &Triangulator{}
}

// Triangulate returns a mesh whose faces are all triangles. Points and
// point data are shared with the input mesh; cell data values are
// replicated across the triangles of each source face.
func (t *Triangulator) Triangulate(m *mesh.Mesh) (*mesh.Mesh, error) {
	var faces []int
	var perFace []int // triangles emitted per source face

	for i := 0; i < len(m.Faces); {
		n := m.Faces[i]
		if n < 3 {
			return nil, errors.New("fan: cannot triangulate a face with fewer than 3 vertices")
		}
		idxs := m.Faces[i+1 : i+1+n]
		for j := 1; j < n-1; j++ {
			faces = append(faces, 3, idxs[0], idxs[j], idxs[j+1])
		}
		perFace = append(perFace, n-2)
		i += n + 1
	}

	out := &mesh.Mesh{
		Points:    m.Points,
		Faces:     faces,
		Lines:     m.Lines,
		PointData: m.PointData,
		CRS:       m.CRS,
		Radius:    m.Radius,
		Name:      m.Name,
	}

	if len(m.CellData) > 0 {
		out.CellData = make(map[string][]float64, len(m.CellData))
		for name, data := range m.CellData {
			var expanded []float64
			for cell, count := range perFace {
				for k := 0; k < count; k++ {
					expanded = append(expanded, data[cell])
				}
			}
			out.CellData[name] = expanded
		}
	}

	return out, nil
}
