package rules

import (
	"math"

	"github.com/sells-group/install-check/internal/model"
)

// Policy names recorded alongside every decision.
const (
	PolicyConfidence = "confidence_based"
	PolicyAdditive   = "additive_penalty"
	PolicyNoContext  = "no_context"
)

// ReviewRiskThreshold is the risk at or above which a case goes to review.
const ReviewRiskThreshold = 0.6

// NoContextRisk is the fixed risk reported when no geodata could be fetched.
const NoContextRisk = 0.7

// RiskInput carries everything a risk policy may look at.
type RiskInput struct {
	Observation model.Observation
	Label       model.Label

	// Context signals, only known on the address path.
	CabinetFound bool
	PoleFound    bool
}

// Risk is a policy result. Confidence is nil for policies that do not
// derive risk from a confidence.
type Risk struct {
	Score      float64
	Confidence *float64
}

// RiskPolicy computes a risk score in [0,1] for a rule outcome.
type RiskPolicy interface {
	Name() string
	Score(in RiskInput) Risk
}

// ConfidenceBasedRisk starts from full confidence, dampens it near the rule
// thresholds and for missing fields, then reports risk = 1 - confidence.
// Used by the manual check entry point.
type ConfidenceBasedRisk struct{}

// Name implements RiskPolicy.
func (ConfidenceBasedRisk) Name() string { return PolicyConfidence }

// Score implements RiskPolicy.
func (ConfidenceBasedRisk) Score(in RiskInput) Risk {
	confidence := 1.0
	missing := 0
	obs := in.Observation

	if obs.FacadeLengthM != nil {
		confidence *= nearThreshold(math.Abs(*obs.FacadeLengthM-FacadeMaxLengthM), 5, 10)
	} else {
		missing++
	}

	if obs.AerialHeightM != nil {
		confidence *= nearThreshold(math.Abs(*obs.AerialHeightM-AerialMaxHeightM), 0.8, 1.6)
	} else {
		missing++
	}

	// Boolean, so no distance dampening.
	if obs.PublicDigRequired == nil {
		missing++
	}

	switch {
	case missing == 1:
		confidence *= 0.85
	case missing == 2:
		confidence *= 0.65
	case missing >= 3:
		confidence *= 0.5
	}

	if in.Label == model.LabelBorderline {
		confidence = math.Min(confidence, 0.5)
	}

	c := round2(confidence)
	return Risk{Score: round2(1 - confidence), Confidence: &c}
}

// nearThreshold returns 0.6 within the close band, 0.8 within the far band
// and 1 otherwise.
func nearThreshold(dist, closeBand, farBand float64) float64 {
	switch {
	case dist < closeBand:
		return 0.6
	case dist < farBand:
		return 0.8
	default:
		return 1
	}
}

// AdditivePenaltyRisk starts from a base risk and adds a penalty each time
// the chosen network type lacks its supporting context signal. Used by the
// address entry point.
type AdditivePenaltyRisk struct{}

const (
	additiveBase           = 0.35
	additivePenalty        = 0.25
	additiveBorderlineRisk = 0.55
)

// Name implements RiskPolicy.
func (AdditivePenaltyRisk) Name() string { return PolicyAdditive }

// Score implements RiskPolicy.
func (AdditivePenaltyRisk) Score(in RiskInput) Risk {
	risk := additiveBase
	switch in.Observation.NetworkType {
	case model.NetworkFacade:
		if !in.CabinetFound {
			risk += additivePenalty
		}
	case model.NetworkAerial:
		if !in.PoleFound {
			risk += additivePenalty
		}
	case model.NetworkUnderground:
		if in.Observation.PublicDigRequired == nil {
			risk += additivePenalty
		}
	}
	if in.Label == model.LabelBorderline {
		risk = math.Max(risk, additiveBorderlineRisk)
	}
	return Risk{Score: round2(clamp01(risk))}
}

// NeedsReview reports whether a decision should be flagged for a human.
func NeedsReview(label model.Label, risk float64) bool {
	return label == model.LabelBorderline || risk >= ReviewRiskThreshold
}

// NoContextDecision is the conservative decision used when the geodata
// service could not be reached: façade type, nothing known, borderline.
func NoContextDecision() model.Decision {
	return model.Decision{
		Label:       model.LabelBorderline,
		NetworkType: model.NetworkFacade,
		Reasons:     []string{"No context data retrieved → marked borderline and sent to review."},
		Risk:        NoContextRisk,
		Policy:      PolicyNoContext,
		NeedsReview: true,
	}
}

// Decide runs the rule engine and the given policy over one observation.
func Decide(obs model.Observation, policy RiskPolicy, signals RiskInput) model.Decision {
	v := Evaluate(obs)
	obs.NetworkType = v.NetworkType

	signals.Observation = obs
	signals.Label = v.Label
	r := policy.Score(signals)

	return model.Decision{
		Label:       v.Label,
		NetworkType: v.NetworkType,
		Reasons:     v.Reasons,
		Risk:        r.Score,
		Confidence:  r.Confidence,
		Policy:      policy.Name(),
		NeedsReview: NeedsReview(v.Label, r.Score),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
