// Package model defines the data types shared across the install check pipeline.
package model

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate lies within latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// FeatureKind classifies a geodata element by what it means for an install.
type FeatureKind string

const (
	FeatureBuilding   FeatureKind = "building"
	FeatureSidewalk   FeatureKind = "sidewalk"
	FeaturePole       FeatureKind = "pole"
	FeatureCabinet    FeatureKind = "cabinet"
	FeatureStreetLamp FeatureKind = "street_lamp" // streetscape proxy, not a pole
)

// Feature is a nearby geodata element located at a point or a centroid.
// Features are fetched per request and never persisted.
type Feature struct {
	ID       int64             `json:"id"`
	Element  string            `json:"element"` // node, way or relation
	Kind     FeatureKind       `json:"kind"`
	Location Coordinate        `json:"location"`
	Tags     map[string]string `json:"tags,omitempty"`
}
