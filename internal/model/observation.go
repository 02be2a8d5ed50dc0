package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// NetworkType is the kind of last-mile network run to the premises.
type NetworkType string

const (
	NetworkFacade      NetworkType = "facade"
	NetworkAerial      NetworkType = "aerial"
	NetworkUnderground NetworkType = "underground"

	// NetworkAuto is only valid as input; it is resolved before rules run.
	NetworkAuto NetworkType = "auto"
)

// ParseNetworkType parses a user-supplied network type. Empty input means auto.
func ParseNetworkType(s string) (NetworkType, error) {
	switch NetworkType(strings.ToLower(strings.TrimSpace(s))) {
	case "", NetworkAuto:
		return NetworkAuto, nil
	case NetworkFacade, "façade":
		return NetworkFacade, nil
	case NetworkAerial:
		return NetworkAerial, nil
	case NetworkUnderground:
		return NetworkUnderground, nil
	default:
		return "", eris.Errorf("model: unknown network type %q", s)
	}
}

// Observation holds the quantities measured or inferred for one case.
// A nil field means the quantity is unknown.
type Observation struct {
	NetworkType       NetworkType `json:"network_type"`
	FacadeLengthM     *float64    `json:"facade_length_m"`
	AerialHeightM     *float64    `json:"aerial_height_m"`
	PublicDigRequired *bool       `json:"public_dig_required"`
}

// ParseTriState parses "yes", "no" or "unknown" into a *bool.
func ParseTriState(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return nil, nil
	case "yes", "true":
		return Ptr(true), nil
	case "no", "false":
		return Ptr(false), nil
	default:
		return nil, eris.Errorf("model: expected yes, no or unknown, got %q", s)
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
