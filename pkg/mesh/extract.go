package mesh

import "github.com/golang/geo/r3"

// ExtractCells returns a new mesh containing only the faces for which
// keep[face] is true. Points are renumbered so that only referenced points
// remain, in first-use order. Point and cell data arrays are carried over,
// and the original point/cell indices are recorded in the
// OriginalPointIDs and OriginalCellIDs data arrays.
func (m *Mesh) ExtractCells(keep []bool) *Mesh {
	remap := make(map[int]int, len(m.Points))
	var pointIDs []int

	out := &Mesh{
		CRS:    m.CRS,
		Radius: m.Radius,
		Name:   m.Name,
	}

	var cellIDs []int
	cell := 0
	for i := 0; i < len(m.Faces); {
		n := m.Faces[i]
		if cell < len(keep) && keep[cell] {
			out.Faces = append(out.Faces, n)
			for _, idx := range m.Faces[i+1 : i+1+n] {
				mapped, ok := remap[idx]
				if !ok {
					mapped = len(pointIDs)
					remap[idx] = mapped
					pointIDs = append(pointIDs, idx)
				}
				out.Faces = append(out.Faces, mapped)
			}
			cellIDs = append(cellIDs, cell)
		}
		i += n + 1
		cell++
	}

	out.Points = make([]r3.Vector, 0, len(pointIDs))
	for _, idx := range pointIDs {
		out.Points = append(out.Points, m.Points[idx])
	}

	if len(m.PointData) > 0 {
		out.PointData = make(map[string][]float64, len(m.PointData))
		for name, data := range m.PointData {
			sub := make([]float64, len(pointIDs))
			for i, idx := range pointIDs {
				sub[i] = data[idx]
			}
			out.PointData[name] = sub
		}
	}
	if len(m.CellData) > 0 {
		out.CellData = make(map[string][]float64, len(m.CellData))
		for name, data := range m.CellData {
			sub := make([]float64, len(cellIDs))
			for i, idx := range cellIDs {
				sub[i] = data[idx]
			}
			out.CellData[name] = sub
		}
	}

	if out.PointData == nil {
		out.PointData = make(map[string][]float64)
	}
	if out.CellData == nil {
		out.CellData = make(map[string][]float64)
	}
	out.PointData[OriginalPointIDs] = intsToFloats(pointIDs)
	out.CellData[OriginalCellIDs] = intsToFloats(cellIDs)

	return out
}

// Clean returns a copy of the mesh with coincident points merged, faces
// degenerated by the merge removed, and unreferenced points dropped.
func (m *Mesh) Clean() *Mesh {
	// Merge coincident points. r3.Vector is comparable, so bit-identical
	// duplicates (for example shared corners emitted per-face) collapse.
	merged := make(map[r3.Vector]int, len(m.Points))
	remap := make([]int, len(m.Points))
	var points []r3.Vector
	for i, p := range m.Points {
		if idx, ok := merged[p]; ok {
			remap[i] = idx
			continue
		}
		merged[p] = len(points)
		remap[i] = len(points)
		points = append(points, p)
	}

	keep := make([]bool, m.NumCells())
	remapped := &Mesh{
		Points:    points,
		PointData: mergePointData(m, remap, len(points)),
		CellData:  m.CellData,
		CRS:       m.CRS,
		Radius:    m.Radius,
		Name:      m.Name,
	}
	cell := 0
	for i := 0; i < len(m.Faces); {
		n := m.Faces[i]
		face := make([]int, 0, n)
		distinct := make(map[int]struct{}, n)
		for _, idx := range m.Faces[i+1 : i+1+n] {
			face = append(face, remap[idx])
			distinct[remap[idx]] = struct{}{}
		}
		keep[cell] = len(distinct) >= 3
		remapped.Faces = append(remapped.Faces, n)
		remapped.Faces = append(remapped.Faces, face...)
		i += n + 1
		cell++
	}

	// Dropping degenerate faces via extraction also discards any points
	// left unreferenced by the merge.
	return remapped.ExtractCells(keep)
}

func mergePointData(m *Mesh, remap []int, n int) map[string][]float64 {
	if len(m.PointData) == 0 {
		return nil
	}
	out := make(map[string][]float64, len(m.PointData))
	for name, data := range m.PointData {
		sub := make([]float64, n)
		for i, idx := range remap {
			sub[idx] = data[i]
		}
		out[name] = sub
	}
	return out
}

func intsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
