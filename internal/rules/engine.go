// Package rules implements the three install complexity rules and the risk
// policies applied to their outcome.
package rules

import (
	"fmt"

	"github.com/sells-group/install-check/internal/model"
)

// Thresholds for the per-network rules.
const (
	FacadeMaxLengthM = 50.0 // façade run from the TAP, inclusive
	AerialMaxHeightM = 8.0  // attachment height, inclusive
)

// Verdict is the output of the rule engine for one observation.
type Verdict struct {
	Label       model.Label
	NetworkType model.NetworkType
	Reasons     []string
}

// Evaluate applies the rule matching the observation's network type.
// An auto network type is resolved with ResolveManualType first.
//
// Rules:
//   - facade: complex when length > 50 m, simple when <= 50 m
//   - aerial: complex when height > 8 m, simple when <= 8 m
//   - underground: complex when public digging is required, simple otherwise
//
// A rule whose deciding quantity is unknown votes borderline, and so does
// a network type no rule covers.
func Evaluate(obs model.Observation) Verdict {
	netType := ResolveManualType(obs)

	var votes []model.Label
	var reasons []string
	cast := func(vote model.Label, reason string) {
		votes = append(votes, vote)
		reasons = append(reasons, reason)
	}

	switch netType {
	case model.NetworkFacade:
		cast(facadeRule(obs.FacadeLengthM))
	case model.NetworkAerial:
		cast(aerialRule(obs.AerialHeightM))
	case model.NetworkUnderground:
		cast(undergroundRule(obs.PublicDigRequired))
	default:
		cast(model.LabelBorderline, fmt.Sprintf("Network type %q not recognised → no rule applies; marking as borderline.", netType))
	}

	return Verdict{
		Label:       Aggregate(votes),
		NetworkType: netType,
		Reasons:     reasons,
	}
}

// ResolveManualType returns the observation's network type, resolving auto
// from which quantities were entered: a known height means aerial, else a
// known length means facade, else underground.
func ResolveManualType(obs model.Observation) model.NetworkType {
	if obs.NetworkType != model.NetworkAuto && obs.NetworkType != "" {
		return obs.NetworkType
	}
	switch {
	case obs.AerialHeightM != nil:
		return model.NetworkAerial
	case obs.FacadeLengthM != nil:
		return model.NetworkFacade
	default:
		return model.NetworkUnderground
	}
}

// Aggregate folds rule votes into one label: any complex vote wins, then
// borderline when no rule voted simple, else simple.
func Aggregate(votes []model.Label) model.Label {
	var sawSimple, sawBorderline bool
	for _, v := range votes {
		switch v {
		case model.LabelComplex:
			return model.LabelComplex
		case model.LabelSimple:
			sawSimple = true
		case model.LabelBorderline:
			sawBorderline = true
		}
	}
	if sawBorderline && !sawSimple {
		return model.LabelBorderline
	}
	return model.LabelSimple
}

func facadeRule(lengthM *float64) (model.Label, string) {
	if lengthM == nil {
		return model.LabelBorderline, "Façade: length unknown → cannot decide; marking as borderline."
	}
	if *lengthM > FacadeMaxLengthM {
		return model.LabelComplex, fmt.Sprintf("Façade length %.1f m > %.0f m → complex.", *lengthM, FacadeMaxLengthM)
	}
	return model.LabelSimple, fmt.Sprintf("Façade length %.1f m ≤ %.0f m → simple.", *lengthM, FacadeMaxLengthM)
}

func aerialRule(heightM *float64) (model.Label, string) {
	if heightM == nil {
		return model.LabelBorderline, "Aerial: attachment height unknown → cannot decide; marking as borderline."
	}
	if *heightM > AerialMaxHeightM {
		return model.LabelComplex, fmt.Sprintf("Aerial attachment %.1f m > %.0f m → complex.", *heightM, AerialMaxHeightM)
	}
	return model.LabelSimple, fmt.Sprintf("Aerial attachment %.1f m ≤ %.0f m → simple.", *heightM, AerialMaxHeightM)
}

func undergroundRule(digRequired *bool) (model.Label, string) {
	switch {
	case digRequired == nil:
		return model.LabelBorderline, "Underground: public digging unknown → cannot decide; marking as borderline."
	case *digRequired:
		return model.LabelComplex, "Underground path requires digging in public area → complex."
	default:
		return model.LabelSimple, "Underground path stays on private domain only → simple."
	}
}
