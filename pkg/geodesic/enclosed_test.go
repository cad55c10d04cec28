package geodesic

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user27182/geovista/pkg/common"
	"github.com/user27182/geovista/pkg/kernel"
	"github.com/user27182/geovista/pkg/mesh"
)

// halfSpaceClassifier deems a point enclosed when its x coordinate is
// strictly positive, ignoring the solid. It gives the enclosure query a
// deterministic oracle independent of the shell geometry.
type halfSpaceClassifier struct{}

var _ kernel.Classifier = halfSpaceClassifier{}

func (halfSpaceClassifier) SelectEnclosedPoints(points []r3.Vector, _ *mesh.Mesh, _ float64, insideOut bool) ([]bool, error) {
	out := make([]bool, len(points))
	for i, p := range points {
		out[i] = (p.X > 0) != insideOut
	}
	return out, nil
}

// stripSurface is three quads side by side along the x axis:
//
//	3---2---5---7
//	| A | B | C |
//	0---1---4---6
//
// Quad A lies fully at x < 0, quad B straddles x = 0 with its centroid
// on the plane, and quad C lies fully at x > 0.
func stripSurface() *mesh.Mesh {
	return &mesh.Mesh{
		Points: []r3.Vector{
			{X: -1, Y: 0}, {X: -0.5, Y: 0}, {X: -0.5, Y: 1}, {X: -1, Y: 1},
			{X: 0.5, Y: 0}, {X: 0.5, Y: 1},
			{X: 1.5, Y: 0}, {X: 1.5, Y: 1},
		},
		Faces: []int{
			4, 0, 1, 2, 3,
			4, 1, 4, 5, 2,
			4, 4, 6, 7, 5,
		},
	}
}

func TestEnclosedPreferences(t *testing.T) {
	tests := []struct {
		name       string
		preference Preference
		wantCells  int
	}{
		// Centroids sit at x = -0.75, 0 and 1; only quad C passes.
		{"center", PreferenceCenter, 1},
		// Quads B and C have at least one vertex at x > 0.
		{"point", PreferencePoint, 2},
		// Only quad C has every vertex at x > 0.
		{"cell", PreferenceCell, 1},
	}
	b := squareBBox(t, WithClassifier(halfSpaceClassifier{}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, err := b.Enclosed(stripSurface(), WithPreference(tt.preference))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCells, region.NumCells())
		})
	}
}

func TestEnclosedCellSubsetOfPoint(t *testing.T) {
	b := squareBBox(t, WithClassifier(halfSpaceClassifier{}))
	surface := stripSurface()

	cellRegion, err := b.Enclosed(surface, WithPreference(PreferenceCell))
	require.NoError(t, err)
	pointRegion, err := b.Enclosed(surface, WithPreference(PreferencePoint))
	require.NoError(t, err)

	assert.LessOrEqual(t, cellRegion.NumCells(), pointRegion.NumCells())

	// The strict region only keeps faces whose every vertex passes the
	// classifier, so no retained point sits at x <= 0.
	for _, p := range cellRegion.Points {
		assert.Greater(t, p.X, 0.0)
	}
}

func TestEnclosedOutside(t *testing.T) {
	b := squareBBox(t, WithClassifier(halfSpaceClassifier{}))

	// Inverted: centroids at x <= 0, so quads A and B.
	region, err := b.Enclosed(stripSurface(), WithOutside(true))
	require.NoError(t, err)
	assert.Equal(t, 2, region.NumCells())
}

func TestEnclosedDefaultsToCenter(t *testing.T) {
	b := squareBBox(t, WithClassifier(halfSpaceClassifier{}))
	region, err := b.Enclosed(stripSurface())
	require.NoError(t, err)
	assert.Equal(t, 1, region.NumCells())
}

func TestEnclosedMixedFaceTypes(t *testing.T) {
	b := squareBBox(t, WithClassifier(halfSpaceClassifier{}))
	surface := &mesh.Mesh{
		Points: []r3.Vector{
			{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1},
			{X: 3, Y: 0.5},
		},
		Faces: []int{
			4, 0, 1, 2, 3,
			3, 1, 4, 2,
		},
	}

	_, err := b.Enclosed(surface, WithPreference(PreferenceCell))
	assert.ErrorIs(t, err, ErrMixedFaceTypes)

	// The laxer preferences handle mixed face types.
	region, err := b.Enclosed(surface, WithPreference(PreferencePoint))
	require.NoError(t, err)
	assert.Equal(t, 2, region.NumCells())
}

func TestEnclosedRaycast(t *testing.T) {
	// End to end against the real classifier: one triangle over the
	// gulf of Guinea, one near the antimeridian. Only the first is
	// enclosed by the africa panel shell.
	lons := []float64{-5, 5, 0, 175, -175, 180}
	lats := []float64{-5, -5, 5, -5, -5, 5}
	surface := &mesh.Mesh{
		Points: common.ToXYZ(lons, lats, 1),
		Faces: []int{
			3, 0, 1, 2,
			3, 3, 4, 5,
		},
	}

	africa, err := Panel("africa", WithSubdivisions(8))
	require.NoError(t, err)

	region, err := africa.Enclosed(surface)
	require.NoError(t, err)
	require.Equal(t, 1, region.NumCells())
	assert.Equal(t, []float64{0}, region.CellData[mesh.OriginalCellIDs])

	outside, err := africa.Enclosed(surface, WithOutside(true))
	require.NoError(t, err)
	require.Equal(t, 1, outside.NumCells())
	assert.Equal(t, []float64{1}, outside.CellData[mesh.OriginalCellIDs])
}
