package geodesic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/user27182/geovista/pkg/mesh"
)

// Preference controls how strictly a surface face must be contained by
// the bounded-box to be selected by the enclosure query.
type Preference int

const (
	// PreferenceCenter selects faces whose centroid is enclosed.
	PreferenceCenter Preference = iota

	// PreferenceCell selects faces with every vertex enclosed.
	PreferenceCell

	// PreferencePoint selects faces with at least one vertex enclosed.
	PreferencePoint
)

// ErrInvalidPreference reports an unknown enclosure preference.
var ErrInvalidPreference = errors.New("preference must be either 'cell', 'center' or 'point'")

// ErrMixedFaceTypes reports a surface whose faces do not share a single
// vertex count, which the strict cell preference cannot process.
var ErrMixedFaceTypes = errors.New(
	"cannot extract surface enclosed by the bounded-box when the surface has mixed face types " +
		"and the preference is 'cell'; try 'center' or 'point' instead")

// ParsePreference converts a preference name, case-insensitively.
func ParsePreference(name string) (Preference, error) {
	switch strings.ToLower(name) {
	case "cell":
		return PreferenceCell, nil
	case "center":
		return PreferenceCenter, nil
	case "point":
		return PreferencePoint, nil
	default:
		return 0, fmt.Errorf("%w, got %q", ErrInvalidPreference, name)
	}
}

// String returns the canonical preference name.
func (p Preference) String() string {
	switch p {
	case PreferenceCell:
		return "cell"
	case PreferenceCenter:
		return "center"
	case PreferencePoint:
		return "point"
	default:
		return fmt.Sprintf("Preference(%d)", int(p))
	}
}

// EnclosedOption configures an enclosure query.
type EnclosedOption func(*enclosedOptions)

type enclosedOptions struct {
	tolerance  float64
	outside    bool
	preference Preference
}

// WithTolerance sets the tolerance on the intersection operation,
// expressed as a fraction of the shell's bounding-box diagonal.
func WithTolerance(tolerance float64) EnclosedOption {
	return func(o *enclosedOptions) { o.tolerance = tolerance }
}

// WithOutside inverts the query: select the surface region outside the
// bounded-box instead.
func WithOutside(outside bool) EnclosedOption {
	return func(o *enclosedOptions) { o.outside = outside }
}

// WithPreference sets the containment criteria for selecting a face.
func WithPreference(preference Preference) EnclosedOption {
	return func(o *enclosedOptions) { o.preference = preference }
}

// Enclosed extracts the region of the surface contained within the
// bounded-box shell. Surface points on the edge of the shell are deemed
// inside, as are the faces they define, subject to the preference: cell
// requires every face vertex to be enclosed, center requires the face
// centroid, and point requires at least one vertex. The strict cell
// selection is always a subset of the point selection.
func (b *BBox) Enclosed(surface *mesh.Mesh, opts ...EnclosedOption) (*mesh.Mesh, error) {
	options := enclosedOptions{
		tolerance:  BBoxTolerance,
		preference: PreferenceCenter,
	}
	for _, opt := range opts {
		opt(&options)
	}

	preference := options.preference
	checkCells := false
	if preference == PreferenceCell {
		// Seed the strict pass with the cheaper at-least-one-vertex
		// region, then reject faces with any vertex outside.
		preference = PreferencePoint
		checkCells = true
	}

	var region *mesh.Mesh
	switch preference {
	case PreferenceCenter:
		centers := surface.CellCenters()
		selected, err := b.classifier.SelectEnclosedPoints(centers, b.mesh, options.tolerance, options.outside)
		if err != nil {
			return nil, err
		}
		region = surface.ExtractCells(selected)

	case PreferencePoint:
		selected, err := b.classifier.SelectEnclosedPoints(surface.Points, b.mesh, options.tolerance, options.outside)
		if err != nil {
			return nil, err
		}
		keep := make([]bool, surface.NumCells())
		cell := 0
		for i := 0; i < len(surface.Faces); {
			n := surface.Faces[i]
			for _, idx := range surface.Faces[i+1 : i+1+n] {
				if selected[idx] {
					keep[cell] = true
					break
				}
			}
			i += n + 1
			cell++
		}
		region = surface.ExtractCells(keep)

	default:
		return nil, fmt.Errorf("%w, got %q", ErrInvalidPreference, preference)
	}

	if checkCells && region.NumCells() > 0 && region.NumPoints() > 0 {
		refined, err := b.checkCellVertices(region, options)
		if err != nil {
			return nil, err
		}
		region = refined
	}

	return region, nil
}

// checkCellVertices re-classifies the region cell by vertex slot: for
// each vertex position across all faces, the slot's points are
// classified in bulk, and only faces with every slot enclosed survive.
func (b *BBox) checkCellVertices(region *mesh.Mesh, options enclosedOptions) (*mesh.Mesh, error) {
	nVerts, uniform := region.VerticesPerFace()
	if !uniform {
		return nil, ErrMixedFaceTypes
	}

	cells := region.Cells()
	enclosed := make([]bool, len(cells))
	for i := range enclosed {
		enclosed[i] = true
	}

	for idx := 0; idx < nVerts; idx++ {
		slotPoints := make([]r3.Vector, len(cells))
		for f, cell := range cells {
			slotPoints[f] = region.Points[cell[idx]]
		}
		selected, err := b.classifier.SelectEnclosedPoints(slotPoints, b.mesh, options.tolerance, options.outside)
		if err != nil {
			return nil, err
		}
		for f := range enclosed {
			enclosed[f] = enclosed[f] && selected[f]
		}
	}

	return region.ExtractCells(enclosed), nil
}
