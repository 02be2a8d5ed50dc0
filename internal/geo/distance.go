// Package geo provides the small amount of geometry the install check needs:
// great-circle distances and degree bounding boxes around a point.
package geo

import (
	"math"

	"github.com/sells-group/install-check/internal/model"
)

// EarthRadiusM is the mean Earth radius used for all distance math.
const EarthRadiusM = 6371000.0

// DistanceM returns the haversine distance between a and b in meters.
func DistanceM(a, b model.Coordinate) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return EarthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Nearest returns the candidate closest to origin and its distance in meters.
// ok is false when candidates is empty.
func Nearest(origin model.Coordinate, candidates []model.Coordinate) (idx int, distM float64, ok bool) {
	idx = -1
	for i, c := range candidates {
		d := DistanceM(origin, c)
		if idx < 0 || d < distM {
			idx, distM = i, d
		}
	}
	return idx, distM, idx >= 0
}
