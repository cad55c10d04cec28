// Package common provides the shared coordinate kernel: longitude
// wrapping, geodetic/geocentric conversion, radius inference and
// missing-data masking. Every routine is a pure function of its inputs.
package common

import (
	"errors"
	"math"

	"github.com/user27182/geovista/pkg/mesh"
)

// Defaults shared across the library.
const (
	// Base is the default start of the wrapped longitude half-open
	// interval, in degrees.
	Base = -180.0

	// Period is the default length of the wrapped longitude half-open
	// interval, in degrees.
	Period = 360.0

	// Radius is the default radius of a spherical mesh.
	Radius = 1.0

	// ZLevelFactor is the proportional multiplier for z-axis
	// levels/offsets.
	ZLevelFactor = 1e-3
)

// Markers used by the remesh filter point-id convention, recorded in the
// mesh.RemeshPointIDs point-data array. The values are an external
// convention shared with existing mesh consumers and must not change.
const (
	// RemeshSeam marks a western cell boundary point on the
	// antimeridian seam.
	RemeshSeam = -1

	// RemeshJoin marks a cell join point.
	RemeshJoin = -3
)

// ErrNotSpherical reports a mesh whose bounding extents are degenerate,
// so a sphere radius cannot be inferred from it.
var ErrNotSpherical = errors.New("surface does not appear to be spherical")

// Wrap transforms longitudes into the default half-open interval
// [-180, 180). The input is not modified.
func Wrap(lons []float64) []float64 {
	return WrapInterval(lons, Base, Period)
}

// WrapInterval transforms longitudes into the half-open interval
// [base, base+period). The transform is idempotent: values already inside
// the interval are returned unchanged.
func WrapInterval(lons []float64, base, period float64) []float64 {
	out := make([]float64, len(lons))
	for i, lon := range lons {
		out[i] = wrapValue(lon, base, period)
	}
	return out
}

// WrapValue transforms a single longitude into the default half-open
// interval [-180, 180).
func WrapValue(lon float64) float64 {
	return wrapValue(lon, Base, Period)
}

func wrapValue(lon, base, period float64) float64 {
	// math.Mod keeps the dividend's sign; fold a negative remainder back
	// into [0, period) before shifting to base.
	r := math.Mod(lon-base, period)
	if r < 0 {
		r += period
	}
	return r + base
}

// NaNMask returns data with every masked entry replaced by NaN. A nil
// mask returns the data unchanged.
func NaNMask(data []float64, mask []bool) []float64 {
	if mask == nil {
		return data
	}
	out := make([]float64, len(data))
	copy(out, data)
	for i, masked := range mask {
		if i >= len(out) {
			break
		}
		if masked {
			out[i] = math.NaN()
		}
	}
	return out
}

// NaNMaskInts converts integer data to floats, replacing masked entries
// with NaN. Integers cannot hold the NaN sentinel, hence the coercion.
func NaNMaskInts(data []int, mask []bool) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return NaNMask(out, mask)
}

// Sanitize purges the bookkeeping point/cell index arrays attached by
// mesh extraction from the given meshes.
func Sanitize(meshes ...*mesh.Mesh) error {
	if len(meshes) == 0 {
		return errors.New("expected one or more meshes to sanitize")
	}
	for _, m := range meshes {
		delete(m.PointData, mesh.OriginalPointIDs)
		delete(m.CellData, mesh.OriginalCellIDs)
	}
	return nil
}
