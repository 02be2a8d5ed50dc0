package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/install-check/internal/model"
)

// MetersPerDegree is the equirectangular degree-to-meter factor at the equator.
const MetersPerDegree = 111111.0

// BBox is a lon/lat bounding box. X is longitude and Y is latitude.
type BBox struct {
	bounds *geom.Bounds
}

// BBoxAround returns the box extending radiusM meters from c in each
// direction, using the equirectangular approximation at c's latitude.
func BBoxAround(c model.Coordinate, radiusM float64) BBox {
	dLat := radiusM / MetersPerDegree
	dLon := radiusM / (MetersPerDegree * math.Cos(c.Lat*math.Pi/180))
	return BBox{
		bounds: geom.NewBounds(geom.XY).Set(c.Lon-dLon, c.Lat-dLat, c.Lon+dLon, c.Lat+dLat),
	}
}

// BoundsOf returns the smallest box containing every coordinate in cs.
// ok is false when cs is empty.
func BoundsOf(cs []model.Coordinate) (BBox, bool) {
	if len(cs) == 0 {
		return BBox{}, false
	}
	flat := make([]float64, 0, 2*len(cs))
	for _, c := range cs {
		flat = append(flat, c.Lon, c.Lat)
	}
	b := geom.NewBounds(geom.XY).Extend(geom.NewMultiPointFlat(geom.XY, flat))
	return BBox{bounds: b}, true
}

// South returns the minimum latitude.
func (b BBox) South() float64 { return b.bounds.Min(1) }

// West returns the minimum longitude.
func (b BBox) West() float64 { return b.bounds.Min(0) }

// North returns the maximum latitude.
func (b BBox) North() float64 { return b.bounds.Max(1) }

// East returns the maximum longitude.
func (b BBox) East() float64 { return b.bounds.Max(0) }

// Center returns the midpoint of the box in degrees.
func (b BBox) Center() model.Coordinate {
	return model.Coordinate{
		Lat: (b.South() + b.North()) / 2,
		Lon: (b.West() + b.East()) / 2,
	}
}

// Contains reports whether c lies inside or on the edge of the box.
func (b BBox) Contains(c model.Coordinate) bool {
	return b.bounds.OverlapsPoint(geom.XY, geom.Coord{c.Lon, c.Lat})
}

// OverpassString formats the box as "south,west,north,east".
func (b BBox) OverpassString() string {
	return fmt.Sprintf("%.7f,%.7f,%.7f,%.7f", b.South(), b.West(), b.North(), b.East())
}
