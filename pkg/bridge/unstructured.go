package bridge

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/user27182/geovista/pkg/common"
	"github.com/user27182/geovista/pkg/mesh"
)

// Default array names for data attached to the mesh.
const (
	// DefaultNamePoints names data attached to the mesh points.
	DefaultNamePoints = "point_data"

	// DefaultNameCells names data attached to the mesh faces.
	DefaultNameCells = "cell_data"
)

// geographicProj is the canonical geographic CRS every mesh is built in.
const geographicProj = "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs"

// WGS84WKT is the well-known-text serialization of the geographic CRS
// attached to every mesh.
const WGS84WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433],AUTHORITY["EPSG","4326"]]`

// Option configures mesh construction.
type Option func(*options)

type options struct {
	connectivity [][]int
	connShape    *[2]int
	startIndex   *int
	data         []float64
	mask         []bool
	name         string
	crs          string
	radius       float64
	zfactor      *float64
	zlevel       int
	clean        bool
}

// WithConnectivity supplies explicit face connectivity: one index slice
// per face, indexing into the coordinate arrays. Faces may have
// different vertex counts, but each needs at least 3.
func WithConnectivity(connectivity [][]int) Option {
	return func(o *options) { o.connectivity = connectivity }
}

// WithConnectivityShape derives sequential connectivity from a (faces,
// verticesPerFace) shape: face f uses vertices f*n .. f*n+n-1. The shape
// must consume the coordinate arrays exactly.
func WithConnectivityShape(faces, verticesPerFace int) Option {
	return func(o *options) { o.connShape = &[2]int{faces, verticesPerFace} }
}

// WithStartIndex declares the base of the supplied connectivity, 0 or 1.
// Without it the base is inferred from the connectivity minimum.
func WithStartIndex(startIndex int) Option {
	return func(o *options) { o.startIndex = &startIndex }
}

// WithData attaches a data array to the mesh points or faces, decided by
// its length.
func WithData(data []float64) Option {
	return func(o *options) { o.data = data }
}

// WithMaskedData attaches a data array whose masked entries are replaced
// by NaN.
func WithMaskedData(data []float64, mask []bool) Option {
	return func(o *options) {
		o.data = data
		o.mask = mask
	}
}

// WithName names the attached data array. Unnamed arrays default to
// DefaultNamePoints or DefaultNameCells by their length.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithCRS declares the coordinate reference system of the supplied
// coordinates as a proj4 string. Coordinates are reprojected to
// geographic lon/lat; a geographic CRS is passed through.
func WithCRS(crs string) Option {
	return func(o *options) { o.crs = crs }
}

// WithRadius sets the nominal sphere radius. Defaults to the unit
// sphere.
func WithRadius(radius float64) Option {
	return func(o *options) { o.radius = radius }
}

// WithZLevel sets the discrete z-level offset of the mesh, giving a
// computed radius of radius*(1 + zlevel*zfactor). Used to avoid
// z-fighting between overlapping meshes.
func WithZLevel(zlevel int) Option {
	return func(o *options) { o.zlevel = zlevel }
}

// WithZFactor sets the proportional multiplier for z-levels. Defaults to
// common.ZLevelFactor.
func WithZFactor(zfactor float64) Option {
	return func(o *options) { o.zfactor = &zfactor }
}

// WithClean requests a final pass merging duplicate points, dropping
// unused points and removing degenerate faces.
func WithClean(clean bool) Option {
	return func(o *options) { o.clean = clean }
}

// FromUnstructured builds a mesh from unstructured 1-D x-values and
// y-values plus face connectivity. The coordinates are reprojected from
// the declared CRS to geographic lon/lat, longitudes are wrapped into
// [-180, 180), points within tolerance of a pole are collapsed to a
// canonical zero longitude, and the result is projected to geocentric
// coordinates on a sphere of the computed radius.
func FromUnstructured(xs, ys []float64, opts ...Option) (*mesh.Mesh, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: require x-values and y-values with the same shape, got (%d,) and (%d,)",
			ErrShapeMismatch, len(xs), len(ys))
	}
	if len(xs) < 3 {
		return nil, fmt.Errorf("%w: require a mesh to have at least one face with three points/vertices, got %d values",
			ErrInsufficientGeometry, len(xs))
	}

	xs = append([]float64(nil), xs...)
	ys = append([]float64(nil), ys...)

	if err := reproject(xs, ys, o.crs); err != nil {
		return nil, err
	}

	// Longitudes (degrees) into the half-open interval [-180, 180).
	xs = common.Wrap(xs)

	connectivity, err := resolveConnectivity(&o, len(xs))
	if err != nil {
		return nil, err
	}

	// Reduce any singularities at the poles to a singleton longitude:
	// longitude is undefined there and stray values smear the point
	// ring into rendering artifacts.
	for i, lat := range ys {
		if scalar.EqualWithinAbsOrRel(math.Abs(lat), 90, 1e-8, 1e-5) {
			xs[i] = 0
		}
	}

	radius := o.radius
	if radius == 0 {
		radius = common.Radius
	}
	radius = math.Abs(radius)
	zfactor := common.ZLevelFactor
	if o.zfactor != nil {
		zfactor = *o.zfactor
	}
	radius += radius * float64(o.zlevel) * zfactor

	points := common.ToXYZ(xs, ys, radius)

	// Serialize the (possibly mixed vertex count) connectivity into the
	// [count, indices...] face form.
	var faces []int
	for _, face := range connectivity {
		faces = append(faces, len(face))
		faces = append(faces, face...)
	}

	m := &mesh.Mesh{
		Points: points,
		Faces:  faces,
		CRS:    WGS84WKT,
		Radius: radius,
	}

	if o.data != nil {
		if err := attachData(m, &o); err != nil {
			return nil, err
		}
	}

	if o.clean {
		m = m.Clean()
	}
	return m, nil
}

// reproject transforms the coordinates in place from the declared CRS to
// geographic lon/lat. An empty or already-geographic CRS is passed
// through untouched.
func reproject(xs, ys []float64, crs string) error {
	if crs == "" {
		return nil
	}
	src, err := proj.Parse(crs)
	if err != nil {
		return fmt.Errorf("bridge: while parsing crs: %w", err)
	}
	if src.Name == "longlat" {
		return nil
	}
	dst, err := proj.Parse(geographicProj)
	if err != nil {
		return fmt.Errorf("bridge: while parsing geographic crs: %w", err)
	}
	transform, err := src.NewTransform(dst)
	if err != nil {
		return fmt.Errorf("bridge: while creating crs transform: %w", err)
	}
	for i := range xs {
		x, y, err := transform(xs[i], ys[i])
		if err != nil {
			return fmt.Errorf("bridge: while reprojecting point %d: %w", i, err)
		}
		xs[i], ys[i] = x, y
	}
	return nil
}

// resolveConnectivity validates and normalizes the face connectivity to
// 0-based explicit indices.
func resolveConnectivity(o *options, nPoints int) ([][]int, error) {
	if o.connShape != nil {
		faces, verts := o.connShape[0], o.connShape[1]
		if verts < 3 {
			return nil, fmt.Errorf("%w: got shape (%d, %d)", ErrDegenerateFace, faces, verts)
		}
		if faces*verts != nPoints {
			return nil, fmt.Errorf("%w: connectivity with shape (%d, %d) requires %d x-values/y-values, got %d",
				ErrShapeMismatch, faces, verts, faces*verts, nPoints)
		}
		// Sequential indices; a declared start index has nothing to
		// offset here and is ignored.
		connectivity := make([][]int, faces)
		for f := 0; f < faces; f++ {
			face := make([]int, verts)
			for v := 0; v < verts; v++ {
				face[v] = f*verts + v
			}
			connectivity[f] = face
		}
		return connectivity, nil
	}

	if o.connectivity == nil {
		return nil, fmt.Errorf("%w: require face connectivity (explicit indices or a (faces, vertices) shape)",
			ErrInsufficientGeometry)
	}

	min := math.MaxInt
	connectivity := make([][]int, len(o.connectivity))
	for f, face := range o.connectivity {
		if len(face) < 3 {
			return nil, fmt.Errorf("%w: face %d has %d", ErrDegenerateFace, f, len(face))
		}
		connectivity[f] = append([]int(nil), face...)
		for _, idx := range face {
			if idx < min {
				min = idx
			}
		}
	}

	startIndex := min
	if o.startIndex != nil {
		startIndex = *o.startIndex
	}
	if startIndex != 0 && startIndex != 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidStartIndex, startIndex)
	}
	if startIndex == 1 {
		for _, face := range connectivity {
			for i := range face {
				face[i]--
			}
		}
	}
	return connectivity, nil
}

// attachData validates the data array against the mesh point and face
// counts and attaches it under its (possibly defaulted) name.
func attachData(m *mesh.Mesh, o *options) error {
	data := common.NaNMask(o.data, o.mask)

	nPoints, nCells := m.NumPoints(), m.NumCells()
	if len(data) != nPoints && len(data) != nCells {
		return fmt.Errorf("%w: require mesh data with either %d points or %d cells, got %d values",
			ErrDataSizeMismatch, nPoints, nCells, len(data))
	}

	name := o.name
	if name == "" {
		if len(data) == nPoints {
			name = DefaultNamePoints
		} else {
			name = DefaultNameCells
		}
	}

	if len(data) == nPoints {
		m.PointData = map[string][]float64{name: data}
	} else {
		m.CellData = map[string][]float64{name: data}
	}
	m.Name = name
	return nil
}
