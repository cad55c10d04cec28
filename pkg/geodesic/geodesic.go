// Package geodesic builds great-circle geometries on the sphere:
// interpolated point sequences, polylines, and closed bounded-box shell
// meshes with their spatial enclosure query.
package geodesic

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/user27182/geovista/pkg/common"
	"github.com/user27182/geovista/pkg/mesh"
)

// NPts is the default number of equally spaced geodesic points
// between/including segment endpoints.
const NPts = 64

// LineRadius is the default radius for geodesic polylines, nudged off
// the unit sphere so lines sit above a unit surface mesh.
const LineRadius = 1.0 + 1.0/1e4

// ErrInvalidGeometry reports lon/lat sequences that cannot define the
// requested geometry.
var ErrInvalidGeometry = errors.New("invalid lon/lat geometry")

// NPoints returns npts points equally spaced along the great-circle
// segment between the start and end lon/lat locations, in degrees. The
// include flags state whether the two endpoints are among the returned
// points, so a caller stitching several segments can avoid duplicating
// shared vertices. Result longitudes are wrapped into [-180, 180).
func NPoints(startLon, startLat, endLon, endLat float64, npts int, includeStart, includeEnd bool) (lons, lats []float64) {
	if npts <= 0 {
		npts = NPts
	}

	start := s2.PointFromLatLng(s2.LatLngFromDegrees(startLat, startLon))
	end := s2.PointFromLatLng(s2.LatLngFromDegrees(endLat, endLon))

	// Equal spacing: with both endpoints included the fractions span
	// [0, 1]; each excluded endpoint shifts its side of the window
	// inward by one step.
	var offset, steps float64
	switch {
	case includeStart && includeEnd:
		offset, steps = 0, float64(npts-1)
	case includeStart:
		offset, steps = 0, float64(npts)
	case includeEnd:
		offset, steps = 1, float64(npts)
	default:
		offset, steps = 1, float64(npts+1)
	}

	lons = make([]float64, npts)
	lats = make([]float64, npts)
	for i := 0; i < npts; i++ {
		f := (float64(i) + offset) / steps
		ll := s2.LatLngFromPoint(s2.Interpolate(f, start, end))
		lons[i] = common.WrapValue(ll.Lng.Degrees())
		lats[i] = ll.Lat.Degrees()
	}
	return lons, lats
}

// NPointsByIdx resolves the segment endpoints by index into shared
// lon/lat arrays and interpolates between them, see NPoints.
func NPointsByIdx(lons, lats []float64, startIdx, endIdx, npts int, includeStart, includeEnd bool) ([]float64, []float64) {
	return NPoints(lons[startIdx], lats[startIdx], lons[endIdx], lats[endIdx], npts, includeStart, includeEnd)
}

// Line builds a geodesic polyline mesh through the given lon/lat
// waypoints, with npts interpolated points per segment. A closed input
// ring (first and last waypoint coincident) is opened first. When close
// is set the resulting polyline is closed back to its first point. A
// non-positive npts defaults to NPts and a non-positive radius defaults
// to LineRadius.
func Line(lons, lats []float64, npts int, radius float64, close bool) (*mesh.Mesh, error) {
	if npts <= 0 {
		npts = NPts
	}
	if radius <= 0 {
		radius = LineRadius
	}

	if len(lons) != len(lats) {
		return nil, fmt.Errorf("%w: require the same number of longitudes (%d) and latitudes (%d)",
			ErrInvalidGeometry, len(lons), len(lats))
	}
	if len(lons) < 2 {
		return nil, fmt.Errorf("%w: require a line geometry containing at least 2 lon/lat values, got %d",
			ErrInvalidGeometry, len(lons))
	}

	lons, lats = openRing(lons, lats)

	var lineLons, lineLats []float64
	for idx := 0; idx < len(lons)-1; idx++ {
		glons, glats := NPointsByIdx(lons, lats, idx, idx+1, npts, true, false)
		lineLons = append(lineLons, glons...)
		lineLats = append(lineLats, glats...)
	}
	// The terminus is excluded segment by segment; include it once.
	lineLons = append(lineLons, lons[len(lons)-1])
	lineLats = append(lineLats, lats[len(lats)-1])

	points := common.ToXYZ(lineLons, lineLats, radius)
	m := linesFromPoints(points, close)
	m.Radius = radius
	return m, nil
}

// linesFromPoints builds a polyline mesh connecting the points in order,
// optionally closing the polyline back to the first point.
func linesFromPoints(points []r3.Vector, close bool) *mesh.Mesh {
	n := len(points)
	size := n
	if close {
		size++
	}
	lines := make([]int, 0, size+1)
	lines = append(lines, size)
	for i := 0; i < n; i++ {
		lines = append(lines, i)
	}
	if close {
		lines = append(lines, 0)
	}
	return &mesh.Mesh{Points: points, Lines: lines}
}

// openRing drops the final waypoint of a closed ring so downstream
// interpolation never duplicates the shared vertex.
func openRing(lons, lats []float64) ([]float64, []float64) {
	last := len(lons) - 1
	if scalar.EqualWithinAbsOrRel(lons[0], lons[last], 1e-8, 1e-5) &&
		scalar.EqualWithinAbsOrRel(lats[0], lats[last], 1e-8, 1e-5) {
		return lons[:last], lats[:last]
	}
	return lons, lats
}
