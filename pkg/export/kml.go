// Package export serializes geodesic geometries for external map
// viewers. Only the polyline surface (bounded-box boundaries and
// geodesic lines) is exported; scene composition and styling belong to
// the rendering collaborator.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/twpayne/go-kml/v2"

	"github.com/user27182/geovista/pkg/common"
	"github.com/user27182/geovista/pkg/mesh"
)

// ErrNoLines reports a mesh without polyline connectivity.
var ErrNoLines = errors.New("export: mesh has no polylines")

// WriteLinesKML writes the polylines of the mesh as a KML document with
// one LineString placemark per polyline. Mesh points are converted back
// to geographic lon/lat using the mesh radius (unit sphere when
// unknown).
func WriteLinesKML(w io.Writer, m *mesh.Mesh, name string) error {
	if len(m.Lines) == 0 {
		return ErrNoLines
	}

	lons, lats := common.ToLonLats(m.Points, m.Radius)

	var placemarks []kml.Element
	line := 0
	for i := 0; i < len(m.Lines); {
		n := m.Lines[i]
		coords := make([]kml.Coordinate, 0, n)
		for _, idx := range m.Lines[i+1 : i+1+n] {
			coords = append(coords, kml.Coordinate{Lon: lons[idx], Lat: lats[idx]})
		}
		placemarks = append(placemarks, kml.Placemark(
			kml.Name(fmt.Sprintf("%s-%d", name, line)),
			kml.LineString(
				kml.Coordinates(coords...),
				kml.Tessellate(true),
			),
		))
		i += n + 1
		line++
	}

	doc := kml.KML(kml.Document(placemarks...))
	return doc.WriteIndent(w, "", "  ")
}
