// Package infer derives an Observation from the geodata features around a
// point when the network type was not given.
package infer

import (
	"math"

	"github.com/sells-group/install-check/internal/geo"
	"github.com/sells-group/install-check/internal/model"
)

// Distance limits and fallback estimates.
const (
	SidewalkRadiusM     = 25.0
	CabinetMaxDistanceM = 120.0
	NearPoleDistanceM   = 20.0

	DefaultFacadeLengthM = 35.0 // low-confidence estimate when no cabinet is near
	NearPoleHeightM      = 8.5
	FarPoleHeightM       = 9.0

	// NoPoleHeightM applies when aerial was chosen without any pole in view.
	// Only reachable if the type selection changes; kept equal to NearPoleHeightM.
	NoPoleHeightM = 8.5
)

// Inference is the observation derived from context plus the signals it was
// derived from.
type Inference struct {
	Observation     model.Observation
	HasSidewalk     bool
	NearestPoleM    *float64
	NearestCabinetM *float64
}

// FromFeatures infers network type and quantities for the point at origin.
//
// Network type, in strict priority:
//   - any pole in context: aerial
//   - a sidewalk way within 25 m: underground
//   - otherwise: facade
func FromFeatures(origin model.Coordinate, features []model.Feature) Inference {
	inf := Inference{
		HasSidewalk:     hasSidewalkWithin(origin, features, SidewalkRadiusM),
		NearestPoleM:    nearestOfKind(origin, features, model.FeaturePole),
		NearestCabinetM: nearestOfKind(origin, features, model.FeatureCabinet),
	}

	obs := model.Observation{}
	switch {
	case inf.NearestPoleM != nil:
		obs.NetworkType = model.NetworkAerial
	case inf.HasSidewalk:
		obs.NetworkType = model.NetworkUnderground
	default:
		obs.NetworkType = model.NetworkFacade
	}

	switch obs.NetworkType {
	case model.NetworkFacade:
		length := DefaultFacadeLengthM
		if inf.NearestCabinetM != nil && *inf.NearestCabinetM < CabinetMaxDistanceM {
			length = round1(*inf.NearestCabinetM)
		}
		obs.FacadeLengthM = &length
	case model.NetworkAerial:
		height := NoPoleHeightM
		if inf.NearestPoleM != nil {
			height = NearPoleHeightM
			if *inf.NearestPoleM >= NearPoleDistanceM {
				height = FarPoleHeightM
			}
		}
		obs.AerialHeightM = &height
	case model.NetworkUnderground:
		obs.PublicDigRequired = model.Ptr(inf.HasSidewalk)
	}

	inf.Observation = obs
	return inf
}

func hasSidewalkWithin(origin model.Coordinate, features []model.Feature, radiusM float64) bool {
	for _, f := range features {
		if f.Kind != model.FeatureSidewalk || f.Element != "way" {
			continue
		}
		if geo.DistanceM(origin, f.Location) <= radiusM {
			return true
		}
	}
	return false
}

func nearestOfKind(origin model.Coordinate, features []model.Feature, kind model.FeatureKind) *float64 {
	var locs []model.Coordinate
	for _, f := range features {
		if f.Kind == kind && f.Element == "node" {
			locs = append(locs, f.Location)
		}
	}
	if _, d, ok := geo.Nearest(origin, locs); ok {
		return &d
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
