package model

import "time"

// RecordCoords is the location block of a Record.
type RecordCoords struct {
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Pano *string  `json:"pano,omitempty"`
}

// RecordFields mirrors the observation and context signals behind a decision.
type RecordFields struct {
	NetworkType       NetworkType `json:"network_type"`
	FacadeLengthM     *float64    `json:"facade_length_m"`
	AerialHeightM     *float64    `json:"aerial_height_m"`
	PublicDigRequired *bool       `json:"public_dig_required"`
	HasSidewalkNearby *bool       `json:"has_sidewalk_nearby,omitempty"`
	NearestPoleM      *float64    `json:"nearest_pole_m,omitempty"`
	NearestCabinetM   *float64    `json:"nearest_cabinet_m,omitempty"`
}

// RecordLinks holds links a reviewer can open for the case.
type RecordLinks struct {
	StreetView string `json:"street_view,omitempty"`
}

// Record is one immutable line of the classification log.
type Record struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	CaseID     *string      `json:"case_id"`
	URL        *string      `json:"url,omitempty"`
	Address    *string      `json:"address,omitempty"`
	Coords     RecordCoords `json:"coords"`
	Decision   Label        `json:"decision"`
	RiskScore  float64      `json:"risk_score"`
	Confidence *float64     `json:"confidence,omitempty"`
	Policy     string       `json:"risk_policy"`
	Reasons    []string     `json:"reasons"`
	Fields     RecordFields `json:"fields"`
	Links      *RecordLinks `json:"links,omitempty"`
}
