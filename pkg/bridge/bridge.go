// Package bridge converts caller-supplied coordinate arrays into
// spherical polygon meshes. Three families of constructors are provided
// for the supported input shapes (contiguous 1-D bounds, 2-D curvilinear
// corner grids, and fully unstructured point plus connectivity lists);
// every variant normalizes to the same canonical points/connectivity
// pair and converges on FromUnstructured.
package bridge

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/user27182/geovista/pkg/mesh"
)

// Validation failures. Every failure is reported before any partial mesh
// is built.
var (
	// ErrShapeMismatch reports coordinate or connectivity arrays whose
	// shapes disagree.
	ErrShapeMismatch = errors.New("coordinate shape mismatch")

	// ErrInsufficientGeometry reports too few coordinate values to form
	// a single face.
	ErrInsufficientGeometry = errors.New("insufficient geometry")

	// ErrNonContiguousBounds reports a bounds array whose adjacent
	// intervals do not abut.
	ErrNonContiguousBounds = errors.New("bounds array is not contiguous")

	// ErrDegenerateFace reports connectivity defining a face with fewer
	// than 3 vertices.
	ErrDegenerateFace = errors.New("connectivity must define at least 3 vertices per face")

	// ErrDataSizeMismatch reports a data array whose length matches
	// neither the mesh points nor the mesh faces.
	ErrDataSizeMismatch = errors.New("data size matches neither mesh points nor mesh cells")

	// ErrInvalidStartIndex reports a connectivity start index outside
	// the closed interval [0, 1].
	ErrInvalidStartIndex = errors.New("start index must be in the closed interval [0, 1]")
)

// From1D builds a quad-faced mesh from 1-D x-axis and y-axis values: a
// (N+1,) xs array and a (M+1,) ys array produce a rectilinear (M, N)
// mesh of M*N faces. The axes are expanded into a 2-D grid and handed to
// From2D.
func From1D(xs, ys []float64, opts ...Option) (*mesh.Mesh, error) {
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: require a 1-D x-axis array with minimal shape (2,), got %d values",
			ErrInsufficientGeometry, len(xs))
	}
	if len(ys) < 2 {
		return nil, fmt.Errorf("%w: require a 1-D y-axis array with minimal shape (2,), got %d values",
			ErrInsufficientGeometry, len(ys))
	}

	// meshgrid expansion: rows vary with ys, columns with xs.
	mxs := make([][]float64, len(ys))
	mys := make([][]float64, len(ys))
	for r := range ys {
		mxs[r] = append([]float64(nil), xs...)
		row := make([]float64, len(xs))
		for c := range xs {
			row[c] = ys[r]
		}
		mys[r] = row
	}
	return From2D(mxs, mys, opts...)
}

// From1DBounds builds a quad-faced mesh from contiguous (N, 2) x-axis
// and (M, 2) y-axis bounds arrays. Adjacent bounds must abut; the bounds
// are collapsed to shared (N+1,) and (M+1,) axes and handed to From1D.
func From1DBounds(xs, ys [][2]float64, opts ...Option) (*mesh.Mesh, error) {
	axisX, err := contiguous(xs, "x-axis")
	if err != nil {
		return nil, err
	}
	axisY, err := contiguous(ys, "y-axis")
	if err != nil {
		return nil, err
	}
	return From1D(axisX, axisY, opts...)
}

// contiguous verifies that adjacent bounds abut and collapses them into
// a single shared axis.
func contiguous(bnds [][2]float64, kind string) ([]float64, error) {
	if len(bnds) < 1 {
		return nil, fmt.Errorf("%w: require a %s bounds array with minimal shape (1, 2)",
			ErrInsufficientGeometry, kind)
	}
	left := make([]float64, 0, len(bnds)-1)
	right := make([]float64, 0, len(bnds)-1)
	for i := 0; i < len(bnds)-1; i++ {
		left = append(left, bnds[i][1])
		right = append(right, bnds[i+1][0])
	}
	if len(left) > 0 && !floats.EqualApprox(left, right, 1e-8) {
		return nil, fmt.Errorf("%w: the %s bounds array, shape (%d, 2), is not contiguous",
			ErrNonContiguousBounds, kind, len(bnds))
	}

	axis := make([]float64, 0, len(bnds)+1)
	axis = append(axis, bnds[0][0])
	axis = append(axis, left...)
	axis = append(axis, bnds[len(bnds)-1][1])
	return axis, nil
}

// From2D builds a quad-faced mesh from a 2-D (M+1, N+1) corner grid of
// x-values and y-values: grid point (r, c) is shared by the up-to-four
// faces around it. Quad connectivity is derived from the grid shape and
// the flattened coordinates are handed to FromUnstructured.
func From2D(xs, ys [][]float64, opts ...Option) (*mesh.Mesh, error) {
	if err := verify2D(xs, ys); err != nil {
		return nil, err
	}
	rows, cols := len(xs), len(xs[0])

	flatX := make([]float64, 0, rows*cols)
	flatY := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		flatX = append(flatX, xs[r]...)
		flatY = append(flatY, ys[r]...)
	}

	// Anti-clockwise quad connectivity over shared grid corners:
	//
	//	3---2
	//	|   |
	//	0---1
	connectivity := make([][]int, 0, (rows-1)*(cols-1))
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			connectivity = append(connectivity, []int{
				(r+1)*cols + c,
				(r+1)*cols + c + 1,
				r*cols + c + 1,
				r*cols + c,
			})
		}
	}

	opts = append(opts, WithConnectivity(connectivity))
	return FromUnstructured(flatX, flatY, opts...)
}

// From2DCorners builds a quad-faced mesh from independent per-face
// corner quadruples: element f of xs and ys holds the four corner
// values of face f, with no corner sharing between faces. Sequential
// 4-per-face connectivity is generated and the flattened coordinates are
// handed to FromUnstructured.
func From2DCorners(xs, ys [][4]float64, opts ...Option) (*mesh.Mesh, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: require x-values and y-values with the same shape, got (%d, 4) and (%d, 4)",
			ErrShapeMismatch, len(xs), len(ys))
	}
	if len(xs) < 1 {
		return nil, fmt.Errorf("%w: require at least one face of corner values", ErrInsufficientGeometry)
	}

	flatX := make([]float64, 0, len(xs)*4)
	flatY := make([]float64, 0, len(ys)*4)
	for f := range xs {
		flatX = append(flatX, xs[f][:]...)
		flatY = append(flatY, ys[f][:]...)
	}

	opts = append(opts, WithConnectivityShape(len(xs), 4))
	return FromUnstructured(flatX, flatY, opts...)
}

func verify2D(xs, ys [][]float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: require x-values and y-values with the same shape, got %d and %d rows",
			ErrShapeMismatch, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return fmt.Errorf("%w: require a quad-mesh with at least one face, minimal shape (2, 2)",
			ErrInsufficientGeometry)
	}
	cols := len(xs[0])
	if cols < 2 {
		return fmt.Errorf("%w: require a quad-mesh with at least one face, minimal shape (2, 2)",
			ErrInsufficientGeometry)
	}
	for r := range xs {
		if len(xs[r]) != cols || len(ys[r]) != cols {
			return fmt.Errorf("%w: require rectangular x-values and y-values, row %d differs",
				ErrShapeMismatch, r)
		}
	}
	return nil
}
