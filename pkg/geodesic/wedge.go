package geodesic

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWedge reports a degenerate or ambiguous longitudinal wedge.
var ErrInvalidWedge = errors.New(
	"a geodesic wedge must have an absolute longitudinal difference (degrees) in the open interval (0, 180)")

// Wedge builds the bounded-box spanning pole to pole between the two
// longitudes, in degrees. The absolute longitudinal difference must lie
// strictly within (0, 180): a zero-width wedge is degenerate and a
// half-sphere or larger wedge is ambiguous.
func Wedge(lon1, lon2 float64, opts ...Option) (*BBox, error) {
	delta := math.Abs(lon1 - lon2)
	if delta <= 0 || delta >= 180 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidWedge, delta)
	}
	lons := []float64{lon1, lon2, lon2, lon1}
	lats := []float64{90, 90, -90, -90}
	return NewBBox(lons, lats, opts...)
}
