package geodesic

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/user27182/geovista/pkg/common"
	"github.com/user27182/geovista/pkg/kernel"
	"github.com/user27182/geovista/pkg/kernel/fan"
	"github.com/user27182/geovista/pkg/kernel/raycast"
	"github.com/user27182/geovista/pkg/mesh"
)

// BBoxC is the default bounded-box subdivision count: the shell face
// geometry contains BBoxC*BBoxC cells per layer.
const BBoxC = 256

// BBoxTolerance is the default tolerance on the enclosure intersection,
// expressed as a fraction of the shell's bounding-box diagonal.
const BBoxTolerance = 0.0

// RadiusRatio is the fraction of the nominal radius used to offset the
// inner and outer shell layers.
const RadiusRatio = 1e-1

// BoundaryRadius is the default radius of the boundary polyline, nudged
// off the unit sphere so the outline sits above a unit surface mesh.
const BoundaryRadius = 1.0 + 1.0/1e4

// Option configures BBox construction.
type Option func(*BBox)

// WithRadius sets the nominal sphere radius of the bounded-box.
func WithRadius(radius float64) Option {
	return func(b *BBox) { b.radius = radius }
}

// WithSubdivisions sets the subdivision count c, so each shell layer has
// c*c faces.
func WithSubdivisions(c int) Option {
	return func(b *BBox) { b.c = c }
}

// WithTriangulate requests that all shell quad faces are split into
// triangle pairs.
func WithTriangulate(triangulate bool) Option {
	return func(b *BBox) { b.triangulate = triangulate }
}

// WithClassifier injects the point-in-solid classifier used by the
// enclosure query. Defaults to the raycast kernel.
func WithClassifier(classifier kernel.Classifier) Option {
	return func(b *BBox) { b.classifier = classifier }
}

// WithTriangulator injects the polygon triangulator. Defaults to the fan
// kernel.
func WithTriangulator(triangulator kernel.Triangulator) Option {
	return func(b *BBox) { b.triangulator = triangulator }
}

// BBox is a closed, double-layer quadrilateral shell mesh bounding the
// geodesic region spanned by a 4-corner lon/lat polygon. The corner
// polygon edges and interior are subdivided by great-circle
// interpolation into a (c+1) by (c+1) point grid, projected to an inner
// and an outer radius, and sealed by a skirt of faces between the two
// layers, forming a solid usable for point-in-solid classification.
//
// A BBox is immutable once constructed.
type BBox struct {
	lons, lats  []float64
	radius      float64
	c           int
	triangulate bool

	classifier   kernel.Classifier
	triangulator kernel.Triangulator

	// Builder state, owned exclusively by this BBox and frozen after
	// construction.
	idxMap      [][]int
	gridLons    []float64
	gridLats    []float64
	count       int
	innerRadius float64
	outerRadius float64
	nFaces      int
	nPoints     int

	mesh *mesh.Mesh
}

// NewBBox builds the bounded-box shell for the given open 4-corner
// lon/lat polygon, in degrees. A closed 5-point ring is accepted and
// opened; any other corner count is rejected.
func NewBBox(lons, lats []float64, opts ...Option) (*BBox, error) {
	if len(lons) != len(lats) {
		return nil, fmt.Errorf("%w: require the same number of longitudes (%d) and latitudes (%d)",
			ErrInvalidGeometry, len(lons), len(lats))
	}
	if len(lons) < 4 {
		return nil, fmt.Errorf("%w: require at least 4 lon/lat values to create the bounded-box manifold, got %d",
			ErrInvalidGeometry, len(lons))
	}
	if len(lons) > 5 {
		return nil, fmt.Errorf("%w: require 4 (open) or 5 (closed) lon/lat values to create the bounded-box manifold, got %d",
			ErrInvalidGeometry, len(lons))
	}

	lons, lats = openRing(lons, lats)
	if len(lons) != 4 {
		return nil, fmt.Errorf("%w: require an open geometry of 4 distinct corners, got %d values that do not form a closed ring",
			ErrInvalidGeometry, len(lons))
	}

	b := &BBox{
		lons:   append([]float64(nil), lons...),
		lats:   append([]float64(nil), lats...),
		radius: common.Radius,
		c:      BBoxC,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.classifier == nil {
		b.classifier = raycast.New()
	}
	if b.triangulator == nil {
		b.triangulator = fan.New()
	}
	if b.c < 1 {
		return nil, fmt.Errorf("%w: require a positive subdivision count, got %d", ErrInvalidGeometry, b.c)
	}

	offset := b.radius * RadiusRatio
	b.innerRadius = b.radius - offset
	b.outerRadius = b.radius + offset
	b.nFaces = b.c * b.c
	b.nPoints = (b.c + 1) * (b.c + 1)

	if err := b.generateMesh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Mesh returns the closed shell mesh: c*c inner quads, c*c outer quads
// and 4c skirt quads over 2(c+1)^2 points, triangulated when requested.
func (b *BBox) Mesh() *mesh.Mesh {
	return b.mesh
}

// Lons returns the open corner longitudes, in degrees.
func (b *BBox) Lons() []float64 {
	return b.lons
}

// Lats returns the open corner latitudes, in degrees.
func (b *BBox) Lats() []float64 {
	return b.lats
}

// Radius returns the nominal sphere radius of the bounded-box.
func (b *BBox) Radius() float64 {
	return b.radius
}

// Equal reports whether the two bounded-boxes were built from the same
// corners, subdivision, radius and triangulation flag, within floating
// tolerance.
func (b *BBox) Equal(other *BBox) bool {
	if other == nil {
		return false
	}
	if b.c != other.c || b.triangulate != other.triangulate {
		return false
	}
	if !scalar.EqualWithinAbsOrRel(b.radius, other.radius, 1e-8, 1e-5) {
		return false
	}
	for i := range b.lons {
		if !scalar.EqualWithinAbsOrRel(b.lons[i], other.lons[i], 1e-8, 1e-5) ||
			!scalar.EqualWithinAbsOrRel(b.lats[i], other.lats[i], 1e-8, 1e-5) {
			return false
		}
	}
	return true
}

// Boundary returns the closed polyline of the shell's outer edge ring at
// the given radius, usable for outline rendering. A non-positive radius
// defaults to BoundaryRadius.
func (b *BBox) Boundary(radius float64) *mesh.Mesh {
	if radius <= 0 {
		radius = BoundaryRadius
	}
	edge := b.faceEdgeIdxs()
	lons := make([]float64, len(edge))
	lats := make([]float64, len(edge))
	for i, idx := range edge {
		lons[i] = b.gridLons[idx]
		lats[i] = b.gridLats[idx]
	}
	boundary := linesFromPoints(common.ToXYZ(lons, lats, radius), true)
	boundary.Radius = radius
	return boundary
}

// gridExtend appends interpolated lon/lat values to the shared planar
// point buffer.
func (b *BBox) gridExtend(lons, lats []float64) {
	b.gridLons = append(b.gridLons, lons...)
	b.gridLats = append(b.gridLats, lats...)
	b.count += len(lons)
}

// gridUpdate interpolates c-1 interior points between the two buffered
// points idx1 and idx2, registers them in the index map at the given row
// or column, and appends them to the point buffer. Endpoints are never
// re-emitted, so shared corners and edge points are stored exactly once.
func (b *BBox) gridUpdate(idx1, idx2, row, column int) {
	npts := b.c - 1
	var glons, glats []float64
	if npts > 0 {
		glons, glats = NPointsByIdx(b.gridLons, b.gridLats, idx1, idx2, npts, false, false)
	}

	line := make([]int, 0, b.c+1)
	line = append(line, idx1)
	for i := 0; i < npts; i++ {
		line = append(line, b.count+i)
	}
	line = append(line, idx2)

	if row >= 0 {
		copy(b.idxMap[row], line)
	} else {
		for r, idx := range line {
			b.idxMap[r][column] = idx
		}
	}
	b.gridExtend(glons, glats)
}

// generateFace populates the index map and the planar point buffer:
// corners, then the four polygon edges, then the interior rows.
func (b *BBox) generateFace() {
	b.idxMap = make([][]int, b.c+1)
	for i := range b.idxMap {
		b.idxMap[i] = make([]int, b.c+1)
	}

	// corner indices
	const c1, c2, c3, c4 = 0, 1, 2, 3
	b.gridExtend(b.lons, b.lats)

	b.gridUpdate(c1, c2, 0, -1)
	b.gridUpdate(c4, c3, b.c, -1)
	b.gridUpdate(c1, c4, -1, 0)
	b.gridUpdate(c2, c3, -1, b.c)

	for row := 1; row < b.c; row++ {
		b.gridUpdate(b.idxMap[row][0], b.idxMap[row][b.c], row, -1)
	}
}

// faceEdgeIdxs walks the index-map boundary ring anti-clockwise: top
// row, right column, reversed bottom row, reversed left column. The ring
// has exactly 4c entries.
func (b *BBox) faceEdgeIdxs() []int {
	edge := make([]int, 0, 4*b.c)
	edge = append(edge, b.idxMap[0]...)
	for r := 1; r <= b.c; r++ {
		edge = append(edge, b.idxMap[r][b.c])
	}
	for col := b.c - 1; col >= 0; col-- {
		edge = append(edge, b.idxMap[b.c][col])
	}
	for r := b.c - 1; r >= 1; r-- {
		edge = append(edge, b.idxMap[r][0])
	}
	return edge
}

// generateSkirt emits the 4c quad faces sealing the volume between the
// inner and outer shell layers.
func (b *BBox) generateSkirt() []int {
	edge := b.faceEdgeIdxs()
	n := len(edge)
	faces := make([]int, 0, n*5)
	for i := 0; i < n; i++ {
		next := edge[(i+1)%n]
		faces = append(faces, 4, edge[i], next, next+b.nPoints, edge[i]+b.nPoints)
	}
	return faces
}

// generateMesh materializes the shell: quad faces for both layers from
// 2x2 index-map neighbourhoods, the skirt, and the two point clouds at
// the inner and outer radii.
func (b *BBox) generateMesh() error {
	b.generateFace()
	skirt := b.generateSkirt()

	faces := make([]int, 0, b.nFaces*2*5+len(skirt))
	// Inner layer quads, anti-clockwise: bottom-left, bottom-right,
	// top-right, top-left.
	for r := 0; r < b.c; r++ {
		for col := 0; col < b.c; col++ {
			faces = append(faces, 4,
				b.idxMap[r][col],
				b.idxMap[r][col+1],
				b.idxMap[r+1][col+1],
				b.idxMap[r+1][col],
			)
		}
	}
	// Outer layer duplicates the inner quads offset by the layer size.
	for r := 0; r < b.c; r++ {
		for col := 0; col < b.c; col++ {
			faces = append(faces, 4,
				b.idxMap[r][col]+b.nPoints,
				b.idxMap[r][col+1]+b.nPoints,
				b.idxMap[r+1][col+1]+b.nPoints,
				b.idxMap[r+1][col]+b.nPoints,
			)
		}
	}
	faces = append(faces, skirt...)

	inner := common.ToXYZ(b.gridLons, b.gridLats, b.innerRadius)
	outer := common.ToXYZ(b.gridLons, b.gridLats, b.outerRadius)
	points := append(inner, outer...)

	b.mesh = &mesh.Mesh{
		Points: points,
		Faces:  faces,
		Radius: b.radius,
	}

	if b.triangulate {
		tri, err := b.triangulator.Triangulate(b.mesh)
		if err != nil {
			return err
		}
		b.mesh = tri
	}
	return nil
}
