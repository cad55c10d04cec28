package common

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/user27182/geovista/pkg/mesh"
)

func TestToXYZ(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     r3.Vector
	}{
		{"greenwich equator", 0, 0, r3.Vector{X: 1}},
		{"90 east equator", 90, 0, r3.Vector{Y: 1}},
		{"antimeridian equator", 180, 0, r3.Vector{X: -1}},
		{"north pole", 0, 90, r3.Vector{Z: 1}},
		{"south pole", 45, -90, r3.Vector{Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToXYZ([]float64{tt.lon}, []float64{tt.lat}, 1)[0]
			if got.Sub(tt.want).Norm() > 1e-12 {
				t.Errorf("ToXYZ(%v, %v) = %v, want %v", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestToXYZRadius(t *testing.T) {
	got := ToXYZ([]float64{0}, []float64{0}, 2.5)[0]
	if math.Abs(got.Norm()-2.5) > 1e-12 {
		t.Errorf("norm = %v, want 2.5", got.Norm())
	}

	// Zero radius defaults to the unit sphere, negative takes the
	// magnitude.
	if got := ToXYZ([]float64{0}, []float64{0}, 0)[0]; math.Abs(got.Norm()-1) > 1e-12 {
		t.Errorf("zero radius norm = %v, want 1", got.Norm())
	}
	if got := ToXYZ([]float64{0}, []float64{0}, -3)[0]; math.Abs(got.Norm()-3) > 1e-12 {
		t.Errorf("negative radius norm = %v, want 3", got.Norm())
	}
}

func TestLonLatRoundTrip(t *testing.T) {
	lons := []float64{-180, -135.5, -10, 0, 45, 90, 120.25, 179.5}
	lats := []float64{-89, -45, -1, 0, 30, 60, 89, 15}
	points := ToXYZ(lons, lats, 1)
	gotLons, gotLats := ToLonLats(points, 1)
	for i := range lons {
		if math.Abs(gotLons[i]-lons[i]) > 1e-9 {
			t.Errorf("lon round trip at %d: got %v, want %v", i, gotLons[i], lons[i])
		}
		if math.Abs(gotLats[i]-lats[i]) > 1e-9 {
			t.Errorf("lat round trip at %d: got %v, want %v", i, gotLats[i], lats[i])
		}
	}
}

func TestToLonLatPoles(t *testing.T) {
	// Longitude is unobservable at the poles and collapses to zero.
	for _, lat := range []float64{90, -90} {
		p := ToXYZ([]float64{123}, []float64{lat}, 1)[0]
		lon, gotLat := ToLonLat(p, 1)
		if lon != 0 {
			t.Errorf("pole lon = %v, want 0", lon)
		}
		if math.Abs(gotLat-lat) > 1e-9 {
			t.Errorf("pole lat = %v, want %v", gotLat, lat)
		}
	}
}

func TestToLonLatClampsArcsin(t *testing.T) {
	// z marginally above the radius must clamp instead of producing NaN.
	_, lat := ToLonLat(r3.Vector{Z: 1 + 1e-15}, 1)
	if math.IsNaN(lat) {
		t.Fatal("lat is NaN for z slightly above radius")
	}
	if math.Abs(lat-90) > 1e-9 {
		t.Errorf("lat = %v, want 90", lat)
	}
}

// spherePoints samples all six axis extremes on a sphere of the given
// radius, giving non-degenerate extents along every axis.
func spherePoints(radius float64) []r3.Vector {
	return []r3.Vector{
		{X: radius}, {Y: radius}, {Z: radius},
		{X: -radius}, {Y: -radius}, {Z: -radius},
	}
}

func TestCalculateRadius(t *testing.T) {
	m := &mesh.Mesh{Points: spherePoints(2)}
	got, err := CalculateRadius(m, nil)
	if err != nil {
		t.Fatalf("CalculateRadius() error = %v", err)
	}
	if math.Abs(got-2) > 1e-12 {
		t.Errorf("radius = %v, want 2", got)
	}
	if m.Radius != got {
		t.Errorf("radius not recorded on mesh: %v", m.Radius)
	}
}

func TestCalculateRadiusSnapsToRecorded(t *testing.T) {
	// Round-off close to the recorded radius snaps to it.
	m := &mesh.Mesh{Points: spherePoints(1 + 5e-9)}
	got, err := CalculateRadius(m, nil)
	if err != nil {
		t.Fatalf("CalculateRadius() error = %v", err)
	}
	if got != 1 {
		t.Errorf("radius = %v, want exactly 1", got)
	}
}

func TestCalculateRadiusDegenerate(t *testing.T) {
	// A flat mesh has a zero z-extent and is not spherical.
	m := &mesh.Mesh{Points: []r3.Vector{
		{X: 1}, {Y: 1}, {X: -1}, {Y: -1},
	}}
	if _, err := CalculateRadius(m, nil); !errors.Is(err, ErrNotSpherical) {
		t.Errorf("error = %v, want ErrNotSpherical", err)
	}

	empty := &mesh.Mesh{}
	if _, err := CalculateRadius(empty, nil); !errors.Is(err, ErrNotSpherical) {
		t.Errorf("empty mesh error = %v, want ErrNotSpherical", err)
	}
}

func TestCalculateRadiusOrigin(t *testing.T) {
	offset := r3.Vector{X: 10}
	points := spherePoints(1)
	for i := range points {
		points[i] = points[i].Add(offset)
	}
	m := &mesh.Mesh{Points: points}
	got, err := CalculateRadius(m, &offset)
	if err != nil {
		t.Fatalf("CalculateRadius() error = %v", err)
	}
	if got != 1 {
		t.Errorf("radius = %v, want 1", got)
	}
}

func TestToXY0(t *testing.T) {
	lons := []float64{-180, 0, 90}
	lats := []float64{0, 45, -45}
	m := &mesh.Mesh{Points: ToXYZ(lons, lats, 1)}

	got, err := ToXY0(m, 1, false)
	if err != nil {
		t.Fatalf("ToXY0() error = %v", err)
	}
	for i := range lons {
		if math.Abs(got[i].X-lons[i]) > 1e-9 || math.Abs(got[i].Y-lats[i]) > 1e-9 || got[i].Z != 0 {
			t.Errorf("point %d = %v, want (%v, %v, 0)", i, got[i], lons[i], lats[i])
		}
	}
}

func TestToXY0ClosedInterval(t *testing.T) {
	lons := []float64{-180, 0}
	lats := []float64{0, 0}
	m := &mesh.Mesh{
		Points: ToXYZ(lons, lats, 1),
		PointData: map[string][]float64{
			mesh.RemeshPointIDs: {RemeshSeam, RemeshJoin},
		},
	}

	got, err := ToXY0(m, 1, true)
	if err != nil {
		t.Fatalf("ToXY0() error = %v", err)
	}
	if math.Abs(got[0].X-180) > 1e-9 {
		t.Errorf("seam point lon = %v, want 180", got[0].X)
	}
	if math.Abs(got[1].X) > 1e-9 {
		t.Errorf("join point lon = %v, want 0", got[1].X)
	}
}
