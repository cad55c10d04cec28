// Package mesh defines the polygonal surface mesh value produced and
// consumed by every other package. A mesh is a point cloud on (or around)
// a sphere plus face and polyline connectivity in the VTK serialization:
// each cell is encoded as [n, i0, ..., i(n-1)], where n is the number of
// vertices and the indices refer into Points.
package mesh

import (
	"math"

	"github.com/golang/geo/r3"
)

// Names of the bookkeeping data arrays attached by mesh operations.
const (
	// OriginalPointIDs holds, per extracted point, its index in the
	// source mesh of an ExtractCells call.
	OriginalPointIDs = "gvOriginalPointIds"

	// OriginalCellIDs holds, per extracted cell, its index in the
	// source mesh of an ExtractCells call.
	OriginalCellIDs = "gvOriginalCellIds"

	// RemeshPointIDs marks points produced by an upstream remesh filter.
	// The marker values are an external convention, see package common.
	RemeshPointIDs = "gvRemeshPointIds"
)

// Mesh is a polygonal surface mesh. Once returned by a builder it must be
// treated as an immutable value; operations that change structure return
// a new mesh.
type Mesh struct {
	Points []r3.Vector
	Faces  []int // VTK serialization, see package doc
	Lines  []int // polyline connectivity, same serialization

	PointData map[string][]float64
	CellData  map[string][]float64

	// CRS is the serialized well-known-text of the geographic coordinate
	// reference system the mesh points were derived from.
	CRS string

	// Radius is the nominal sphere radius the points were projected to.
	// Zero means unknown.
	Radius float64

	// Name identifies the active data array attached to the mesh.
	Name string
}

// NumPoints returns the number of points in the mesh.
func (m *Mesh) NumPoints() int {
	return len(m.Points)
}

// NumCells returns the number of faces in the mesh.
func (m *Mesh) NumCells() int {
	n := 0
	for i := 0; i < len(m.Faces); i += m.Faces[i] + 1 {
		n++
	}
	return n
}

// Cells decodes the face serialization into one index slice per face.
func (m *Mesh) Cells() [][]int {
	cells := make([][]int, 0, m.NumCells())
	for i := 0; i < len(m.Faces); {
		n := m.Faces[i]
		cells = append(cells, m.Faces[i+1:i+1+n])
		i += n + 1
	}
	return cells
}

// VerticesPerFace returns the uniform vertex count of the mesh faces.
// The second result is false when the mesh mixes face types.
func (m *Mesh) VerticesPerFace() (int, bool) {
	uniform := -1
	for i := 0; i < len(m.Faces); i += m.Faces[i] + 1 {
		if uniform == -1 {
			uniform = m.Faces[i]
		} else if m.Faces[i] != uniform {
			return 0, false
		}
	}
	if uniform == -1 {
		return 0, true
	}
	return uniform, true
}

// Triangulated reports whether every face of the mesh is a triangle.
func (m *Mesh) Triangulated() bool {
	n, uniform := m.VerticesPerFace()
	return uniform && n == 3
}

// Bounds returns the axis-aligned bounding box of the mesh points.
func (m *Mesh) Bounds() (min, max r3.Vector) {
	min = r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range m.Points {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// Diagonal returns the length of the bounding box diagonal.
func (m *Mesh) Diagonal() float64 {
	min, max := m.Bounds()
	return max.Sub(min).Norm()
}

// CellCenters returns the centroid of each face, in face order.
func (m *Mesh) CellCenters() []r3.Vector {
	centers := make([]r3.Vector, 0, m.NumCells())
	for i := 0; i < len(m.Faces); {
		n := m.Faces[i]
		var sum r3.Vector
		for _, idx := range m.Faces[i+1 : i+1+n] {
			sum = sum.Add(m.Points[idx])
		}
		centers = append(centers, sum.Mul(1/float64(n)))
		i += n + 1
	}
	return centers
}
