// Package kernel defines the abstract geometric kernel interfaces.
// Implementations (raycast, fan) provide point-in-solid classification
// and polygon triangulation behind these interfaces. The kernel
// abstraction allows swapping numerical backends, or substituting a
// deterministic fake in tests, without changing the rest of the system.
package kernel

import (
	"github.com/golang/geo/r3"

	"github.com/user27182/geovista/pkg/mesh"
)

// Classifier decides, for each query point, whether it lies inside a
// closed solid.
type Classifier interface {
	// SelectEnclosedPoints returns one boolean per query point: true
	// when the point is inside (or on, within tolerance) the closed
	// solid. The tolerance is a fraction of the solid's bounding-box
	// diagonal. With insideOut set the classification is inverted.
	SelectEnclosedPoints(points []r3.Vector, solid *mesh.Mesh, tolerance float64, insideOut bool) ([]bool, error)
}

// Triangulator splits polygon faces into triangle faces.
type Triangulator interface {
	// Triangulate returns a mesh with every face decomposed into
	// triangles. Points and point data are shared with the input; cell
	// data is replicated across the triangles of each source face.
	Triangulate(m *mesh.Mesh) (*mesh.Mesh, error)
}
