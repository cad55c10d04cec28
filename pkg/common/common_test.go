package common

import (
	"math"
	"testing"

	"github.com/user27182/geovista/pkg/mesh"
)

func TestWrapValue(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		want float64
	}{
		{"identity", -45, -45},
		{"lower edge stays", -180, -180},
		{"upper edge wraps", 180, -180},
		{"positive overflow", 190, -170},
		{"negative overflow", -190, 170},
		{"full turn", 360, 0},
		{"multiple turns", 725, 5},
		{"multiple negative turns", -725, -5},
		{"far below base", -1000, 80},
		{"far above base", 1000, -80},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapValue(tt.lon); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("WrapValue(%v) = %v, want %v", tt.lon, got, tt.want)
			}
		})
	}
}

func TestWrapIdempotent(t *testing.T) {
	lons := []float64{-1000, -725, -540, -180, -90, 0, 90, 179.999, 270, 540, 1000}
	once := Wrap(lons)
	twice := Wrap(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("Wrap not idempotent at %d: %v then %v", i, once[i], twice[i])
		}
	}
	for i, lon := range once {
		if lon < Base || lon >= Base+Period {
			t.Errorf("Wrap(%v) = %v outside [-180, 180)", lons[i], lon)
		}
	}
}

func TestWrapInterval(t *testing.T) {
	got := WrapInterval([]float64{-10, 350, 370}, 0, 360)
	want := []float64{350, 350, 10}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("WrapInterval = %v, want %v", got, want)
			break
		}
	}
}

func TestNaNMask(t *testing.T) {
	data := []float64{1, 2, 3}

	if got := NaNMask(data, nil); &got[0] != &data[0] {
		t.Error("nil mask should return the data unchanged")
	}

	got := NaNMask(data, []bool{false, true, false})
	if got[0] != 1 || !math.IsNaN(got[1]) || got[2] != 3 {
		t.Errorf("NaNMask = %v, want [1 NaN 3]", got)
	}
	if math.IsNaN(data[1]) {
		t.Error("NaNMask modified its input")
	}
}

func TestNaNMaskInts(t *testing.T) {
	got := NaNMaskInts([]int{7, 8}, []bool{true, false})
	if !math.IsNaN(got[0]) || got[1] != 8 {
		t.Errorf("NaNMaskInts = %v, want [NaN 8]", got)
	}
}

func TestSanitize(t *testing.T) {
	m := &mesh.Mesh{
		PointData: map[string][]float64{
			mesh.OriginalPointIDs: {0, 1},
			"elevation":           {3, 4},
		},
		CellData: map[string][]float64{
			mesh.OriginalCellIDs: {0},
		},
	}
	if err := Sanitize(m); err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if _, ok := m.PointData[mesh.OriginalPointIDs]; ok {
		t.Error("original point ids survived sanitize")
	}
	if _, ok := m.CellData[mesh.OriginalCellIDs]; ok {
		t.Error("original cell ids survived sanitize")
	}
	if _, ok := m.PointData["elevation"]; !ok {
		t.Error("sanitize removed unrelated point data")
	}

	if err := Sanitize(); err == nil {
		t.Error("Sanitize() with no meshes should error")
	}
}
