// Package raycast implements the kernel.Classifier interface with a
// ray-crossing point-in-solid test against a closed polygonal shell.
// Query points are partitioned across worker goroutines; results do not
// depend on the degree of parallelism.
package raycast

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"github.com/golang/geo/r3"

	"github.com/user27182/geovista/pkg/kernel"
	"github.com/user27182/geovista/pkg/mesh"
)

// Compile-time interface check.
var _ kernel.Classifier = (*Classifier)(nil)

// rayDirection is a fixed arbitrary direction, chosen away from the mesh
// axes so that rays rarely graze shared face edges.
var rayDirection = r3.Vector{X: 0.2810175, Y: 0.5296951, Z: 0.8003917}.Normalize()

const epsilon = 1e-12

// Classifier is a ray-crossing point-in-solid classifier.
type Classifier struct {
	// Workers bounds the number of concurrent classification
	// goroutines. Zero or negative means GOMAXPROCS.
	Workers int
}

// New returns a Classifier using one worker per available CPU.
func New() *Classifier {
	return &Classifier{}
}

type triangle struct {
	a, b, c r3.Vector
}

// SelectEnclosedPoints classifies each point against the closed solid by
// counting ray crossings: an odd number of intersections between a ray
// from the point and the solid's faces means the point is inside. Points
// within tolerance (a fraction of the solid's bounding-box diagonal) of
// the surface are deemed inside. With insideOut set the classification
// is inverted.
func (c *Classifier) SelectEnclosedPoints(points []r3.Vector, solid *mesh.Mesh, tolerance float64, insideOut bool) ([]bool, error) {
	if solid == nil || solid.NumCells() == 0 {
		return nil, errors.New("raycast: require a closed solid with at least one face")
	}

	tris, err := triangles(solid)
	if err != nil {
		return nil, err
	}

	onSurface := 0.0
	if tolerance > 0 {
		onSurface = tolerance * solid.Diagonal()
	}

	selected := make([]bool, len(points))

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(points) {
		workers = len(points)
	}
	if workers <= 1 {
		classifyRange(points, 0, len(points), tris, onSurface, insideOut, selected)
		return selected, nil
	}

	var wg sync.WaitGroup
	chunk := (len(points) + workers - 1) / workers
	for lo := 0; lo < len(points); lo += chunk {
		hi := lo + chunk
		if hi > len(points) {
			hi = len(points)
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			classifyRange(points, lo, hi, tris, onSurface, insideOut, selected)
		}(lo, hi)
	}
	wg.Wait()

	return selected, nil
}

func classifyRange(points []r3.Vector, lo, hi int, tris []triangle, onSurface float64, insideOut bool, selected []bool) {
	for i := lo; i < hi; i++ {
		selected[i] = contains(points[i], tris, onSurface) != insideOut
	}
}

func contains(p r3.Vector, tris []triangle, onSurface float64) bool {
	crossings := 0
	for _, tri := range tris {
		if onSurface > 0 && distanceToTriangle(p, tri) <= onSurface {
			return true
		}
		if intersects(p, rayDirection, tri) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// triangles fan-decomposes the solid's faces into triangles. Faces with
// fewer than three vertices cannot bound a volume.
func triangles(solid *mesh.Mesh) ([]triangle, error) {
	var tris []triangle
	faces := solid.Faces
	for i := 0; i < len(faces); {
		n := faces[i]
		if n < 3 {
			return nil, errors.New("raycast: solid has a face with fewer than 3 vertices")
		}
		idxs := faces[i+1 : i+1+n]
		for j := 1; j < n-1; j++ {
			tris = append(tris, triangle{
				a: solid.Points[idxs[0]],
				b: solid.Points[idxs[j]],
				c: solid.Points[idxs[j+1]],
			})
		}
		i += n + 1
	}
	return tris, nil
}

// intersects applies the Moeller-Trumbore ray/triangle test for the ray
// origin p and direction d.
func intersects(p, d r3.Vector, tri triangle) bool {
	e1 := tri.b.Sub(tri.a)
	e2 := tri.c.Sub(tri.a)
	pvec := d.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < epsilon {
		return false
	}
	inv := 1 / det
	tvec := p.Sub(tri.a)
	u := tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return false
	}
	qvec := tvec.Cross(e1)
	v := d.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return false
	}
	t := e2.Dot(qvec) * inv
	return t > epsilon
}

// distanceToTriangle returns the distance from p to the closest point on
// the triangle.
func distanceToTriangle(p r3.Vector, tri triangle) float64 {
	ab := tri.b.Sub(tri.a)
	ac := tri.c.Sub(tri.a)
	ap := p.Sub(tri.a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return ap.Norm()
	}

	bp := p.Sub(tri.b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return bp.Norm()
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return ap.Sub(ab.Mul(v)).Norm()
	}

	cp := p.Sub(tri.c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return cp.Norm()
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return ap.Sub(ac.Mul(w)).Norm()
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return bp.Sub(tri.c.Sub(tri.b).Mul(w)).Norm()
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	closest := tri.a.Add(ab.Mul(v)).Add(ac.Mul(w))
	return p.Sub(closest).Norm()
}
