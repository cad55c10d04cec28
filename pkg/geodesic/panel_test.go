package geodesic

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelByNameAndIndex(t *testing.T) {
	tests := []struct {
		name string
		idx  int
	}{
		{"africa", 0},
		{"asia", 1},
		{"pacific", 2},
		{"americas", 3},
		{"polar", 4},
		{"antarctic", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byName, err := Panel(tt.name, WithSubdivisions(4))
			require.NoError(t, err)
			byIdx, err := PanelIndex(tt.idx, WithSubdivisions(4))
			require.NoError(t, err)

			assert.True(t, byName.Equal(byIdx))
			if !reflect.DeepEqual(byName.Mesh().Points, byIdx.Mesh().Points) {
				t.Error("panel meshes differ between name and index lookup")
			}
			if !reflect.DeepEqual(byName.Mesh().Faces, byIdx.Mesh().Faces) {
				t.Error("panel connectivity differs between name and index lookup")
			}
		})
	}
}

func TestPanelCaseInsensitive(t *testing.T) {
	upper, err := Panel("AFRICA", WithSubdivisions(2))
	require.NoError(t, err)
	lower, err := Panel("africa", WithSubdivisions(2))
	require.NoError(t, err)
	assert.True(t, upper.Equal(lower))
}

func TestPanelErrors(t *testing.T) {
	_, err := Panel("atlantis")
	assert.ErrorIs(t, err, ErrInvalidPanel)

	_, err = PanelIndex(-1)
	assert.ErrorIs(t, err, ErrInvalidPanel)

	_, err = PanelIndex(6)
	assert.ErrorIs(t, err, ErrInvalidPanel)
}

func TestPanelEquatorialCorners(t *testing.T) {
	b, err := Panel("africa", WithSubdivisions(2))
	require.NoError(t, err)
	assert.Equal(t, []float64{-45, 45, 45, -45}, b.Lons())

	lats := b.Lats()
	require.Len(t, lats, 4)
	// Cubed-sphere corner latitude: asin(1/sqrt(3)) in degrees.
	assert.InDelta(t, 35.26438968, lats[0], 1e-6)
	assert.InDelta(t, -lats[0], lats[2], 1e-12)
}
