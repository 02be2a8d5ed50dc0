package pipeline

import (
	"math"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/internal/rules"
)

// ErrInconsistentResult is returned when a result's decision is not the one
// the rules derive from its observation.
var ErrInconsistentResult = eris.New("pipeline: decision does not follow from observation")

// Rederive recomputes the decision for res with the policy of its entry
// point. Results that went through the HTTP API come back from the client,
// so this is the only decision that may be logged.
func Rederive(res *Result) (model.Decision, error) {
	switch res.Entry {
	case EntryCheck:
		if res.NoContext || res.Context != nil {
			return model.Decision{}, eris.Wrap(ErrInconsistentResult, "check result carries geodata context")
		}
		return rules.Decide(res.Observation, rules.ConfidenceBasedRisk{}, rules.RiskInput{}), nil
	case EntryAnalyze:
		if res.NoContext {
			return rules.NoContextDecision(), nil
		}
		if res.Context == nil {
			return model.Decision{}, eris.Wrap(ErrInconsistentResult, "analysis result has no context summary")
		}
		return rules.Decide(res.Observation, rules.AdditivePenaltyRisk{}, rules.RiskInput{
			CabinetFound: res.Context.NearestCabinetM != nil,
			PoleFound:    res.Context.NearestPoleM != nil,
		}), nil
	default:
		return model.Decision{}, eris.Wrapf(ErrInconsistentResult, "unknown entry %q", res.Entry)
	}
}

// verifyDecision fails with ErrInconsistentResult unless res.Decision is
// exactly what Rederive produces.
func verifyDecision(res *Result) error {
	want, err := Rederive(res)
	if err != nil {
		return err
	}
	if !sameDecision(res.Decision, want) {
		return eris.Wrapf(ErrInconsistentResult,
			"got %s/%s risk %.2f, rules give %s/%s risk %.2f",
			res.Decision.Label, res.Decision.NetworkType, res.Decision.Risk,
			want.Label, want.NetworkType, want.Risk)
	}
	return nil
}

func sameDecision(a, b model.Decision) bool {
	const eps = 1e-9
	if a.Label != b.Label || a.NetworkType != b.NetworkType || a.Policy != b.Policy || a.NeedsReview != b.NeedsReview {
		return false
	}
	if !slices.Equal(a.Reasons, b.Reasons) || math.Abs(a.Risk-b.Risk) > eps {
		return false
	}
	switch {
	case a.Confidence == nil && b.Confidence == nil:
		return true
	case a.Confidence == nil || b.Confidence == nil:
		return false
	default:
		return math.Abs(*a.Confidence-*b.Confidence) <= eps
	}
}
