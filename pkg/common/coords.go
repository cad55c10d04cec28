package common

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/user27182/geovista/pkg/mesh"
)

// ToXYZ converts longitudes and latitudes, in degrees, to geocentric
// (x, y, z) coordinates on a sphere of the given radius. The two slices
// must have the same length. A zero radius defaults to the unit sphere;
// a negative radius contributes its magnitude.
func ToXYZ(lons, lats []float64, radius float64) []r3.Vector {
	radius = normalizeRadius(radius)
	out := make([]r3.Vector, len(lons))
	for i, lon := range lons {
		out[i] = toXYZ(lon, lats[i], radius)
	}
	return out
}

func toXYZ(lon, lat, radius float64) r3.Vector {
	phi := lon * math.Pi / 180
	theta := (90 - lat) * math.Pi / 180
	return r3.Vector{
		X: radius * math.Sin(theta) * math.Cos(phi),
		Y: radius * math.Sin(theta) * math.Sin(phi),
		Z: radius * math.Cos(theta),
	}
}

// ToLonLats converts geocentric points on a sphere of the given radius to
// longitudes and latitudes, in degrees. Longitudes are wrapped into the
// default [-180, 180) interval. The z/radius ratio is clamped to the
// arcsin domain [-1, 1] to absorb floating round-off.
func ToLonLats(points []r3.Vector, radius float64) (lons, lats []float64) {
	radius = normalizeRadius(radius)
	lons = make([]float64, len(points))
	lats = make([]float64, len(points))
	for i, p := range points {
		lons[i], lats[i] = toLonLat(p, radius)
	}
	return lons, lats
}

// ToLonLat converts a single geocentric point to a longitude and
// latitude, in degrees.
func ToLonLat(point r3.Vector, radius float64) (lon, lat float64) {
	return toLonLat(point, normalizeRadius(radius))
}

func toLonLat(p r3.Vector, radius float64) (lon, lat float64) {
	lon = WrapValue(math.Atan2(p.Y, p.X) * 180 / math.Pi)
	zr := p.Z / radius
	if zr > 1 {
		zr = 1
	} else if zr < -1 {
		zr = -1
	}
	lat = math.Asin(zr) * 180 / math.Pi
	// Longitude is not observable at a pole; collapse to zero so the
	// round-trip law holds there too.
	if zr == 1 || zr == -1 {
		lon = 0
	}
	return lon, lat
}

// ToXY0 converts the mesh points to (longitude, latitude, 0) coordinates,
// in degrees. A non-positive radius is inferred from the mesh. With
// closedInterval set, points marked RemeshSeam in the RemeshPointIDs
// point-data array that sit on the antimeridian are emitted as +180,
// yielding longitudes in the closed interval [-180, 180].
func ToXY0(m *mesh.Mesh, radius float64, closedInterval bool) ([]r3.Vector, error) {
	if radius <= 0 {
		inferred, err := CalculateRadius(m, nil)
		if err != nil {
			return nil, err
		}
		radius = inferred
	}
	lons, lats := ToLonLats(m.Points, radius)

	if closedInterval {
		if markers, ok := m.PointData[mesh.RemeshPointIDs]; ok {
			for i, marker := range markers {
				if i >= len(lons) || int(marker) != RemeshSeam {
					continue
				}
				if scalar.EqualWithinAbsOrRel(math.Abs(lons[i]), 180, 1e-8, 1e-5) {
					lons[i] = 180
				}
			}
		}
	}

	out := make([]r3.Vector, len(lons))
	for i := range lons {
		out[i] = r3.Vector{X: lons[i], Y: lats[i]}
	}
	return out, nil
}

// CalculateRadius infers the sphere radius of the mesh as the distance
// from a representative mesh point to origin (the geocenter when nil).
// Returns ErrNotSpherical when any axis-aligned extent of the mesh is
// near zero, since a degenerate extent means the mesh is not a full
// sphere sample. When the computed radius agrees with the radius already
// recorded on the mesh, the recorded value wins; either way the result is
// recorded on the mesh.
func CalculateRadius(m *mesh.Mesh, origin *r3.Vector) (float64, error) {
	if len(m.Points) == 0 {
		return 0, ErrNotSpherical
	}

	min, max := m.Bounds()
	diff := max.Sub(min)
	if scalar.EqualWithinAbs(diff.X, 0, 1e-8) ||
		scalar.EqualWithinAbs(diff.Y, 0, 1e-8) ||
		scalar.EqualWithinAbs(diff.Z, 0, 1e-8) {
		return 0, ErrNotSpherical
	}

	var o r3.Vector
	if origin != nil {
		o = *origin
	}
	radius := m.Points[0].Sub(o).Norm()

	recorded := m.Radius
	if recorded == 0 {
		recorded = Radius
	}
	if scalar.EqualWithinAbsOrRel(radius, recorded, 1e-8, 1e-5) {
		radius = recorded
	}
	m.Radius = radius

	return radius, nil
}

func normalizeRadius(radius float64) float64 {
	if radius == 0 {
		return Radius
	}
	return math.Abs(radius)
}
