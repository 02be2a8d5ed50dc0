package pipeline

import (
	"github.com/sells-group/install-check/internal/locator"
	"github.com/sells-group/install-check/internal/model"
)

// Entry points.
const (
	EntryCheck   = "check"
	EntryAnalyze = "analyze"
)

// ManualInput is what a reviewer enters on the check path. Nil fields are
// unknown.
type ManualInput struct {
	URL               string            `json:"url"`
	NetworkType       model.NetworkType `json:"network_type"`
	FacadeLengthM     *float64          `json:"facade_length_m,omitempty"`
	AerialHeightM     *float64          `json:"aerial_height_m,omitempty"`
	PublicDigRequired *bool             `json:"public_dig_required,omitempty"`
}

// ContextSummary holds the geodata signals behind an inferred observation.
// Distances are rounded to 0.1 m.
type ContextSummary struct {
	FeatureCount    int      `json:"feature_count"`
	HasSidewalk     bool     `json:"has_sidewalk_nearby"`
	NearestPoleM    *float64 `json:"nearest_pole_m"`
	NearestCabinetM *float64 `json:"nearest_cabinet_m"`
}

// Result is the outcome of one check or analysis, ready to display or save.
type Result struct {
	Entry         string              `json:"entry"`
	URL           string              `json:"url,omitempty"`
	Address       string              `json:"address,omitempty"`
	Coordinate    *model.Coordinate   `json:"coordinate,omitempty"`
	PanoID        string              `json:"pano_id,omitempty"`
	Geocode       *locator.Resolution `json:"geocode,omitempty"`
	Observation   model.Observation   `json:"observation"`
	Decision      model.Decision      `json:"decision"`
	Context       *ContextSummary     `json:"context,omitempty"`
	NoContext     bool                `json:"no_context,omitempty"`
	StreetViewURL string              `json:"street_view_url,omitempty"`
}
