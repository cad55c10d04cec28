package geodesic

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidPanel reports an unknown cubed-sphere panel name or index.
var ErrInvalidPanel = errors.New(
	"panel must be either 'africa', 'americas', 'antarctic', 'asia', 'pacific' or 'polar', " +
		"or an index in the closed interval [0, 5]")

// csc is the latitude, in degrees, of a cubed-sphere panel corner.
var csc = math.Asin(1/math.Sqrt(3)) * 180 / math.Pi

// panelNames lists the canonical cubed-sphere panel names by index.
var panelNames = []string{"africa", "asia", "pacific", "americas", "polar", "antarctic"}

// panelCorners holds the open 4-corner lon/lat footprint of each panel.
var panelCorners = [][2][4]float64{
	{{-45, 45, 45, -45}, {csc, csc, -csc, -csc}},
	{{45, 135, 135, 45}, {csc, csc, -csc, -csc}},
	{{135, -135, -135, 135}, {csc, csc, -csc, -csc}},
	{{-135, -45, -45, -135}, {csc, csc, -csc, -csc}},
	{{-45, 45, 135, -135}, {csc, csc, csc, csc}},
	{{-45, 45, 135, -135}, {-csc, -csc, -csc, -csc}},
}

// Panel builds the bounded-box for the named cubed-sphere panel.
func Panel(name string, opts ...Option) (*BBox, error) {
	lower := strings.ToLower(name)
	for idx, candidate := range panelNames {
		if candidate == lower {
			return PanelIndex(idx, opts...)
		}
	}
	return nil, fmt.Errorf("%w, got %q", ErrInvalidPanel, name)
}

// PanelIndex builds the bounded-box for the cubed-sphere panel with the
// given index. Panel(name) and PanelIndex(index) of the same panel
// produce identical shells.
func PanelIndex(idx int, opts ...Option) (*BBox, error) {
	if idx < 0 || idx >= len(panelCorners) {
		return nil, fmt.Errorf("%w, got index %d", ErrInvalidPanel, idx)
	}
	corners := panelCorners[idx]
	return NewBBox(corners[0][:], corners[1][:], opts...)
}
