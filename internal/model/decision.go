package model

// Label is the outcome of the rule engine.
type Label string

const (
	LabelSimple     Label = "simple"
	LabelComplex    Label = "complex"
	LabelBorderline Label = "borderline" // insufficient data, needs human review
)

// Decision is derived from an Observation on every analysis and never stored
// on its own.
type Decision struct {
	Label       Label       `json:"label"`
	NetworkType NetworkType `json:"network_type"`
	Reasons     []string    `json:"reasons"`
	Risk        float64     `json:"risk_score"`
	Confidence  *float64    `json:"confidence,omitempty"`
	Policy      string      `json:"risk_policy"`
	NeedsReview bool        `json:"needs_review"`
}
