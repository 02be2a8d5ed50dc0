// Package pipeline wires locator, context fetch, inference, rules and
// recorder into the two install check entry points.
package pipeline

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/install-check/internal/infer"
	"github.com/sells-group/install-check/internal/locator"
	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/internal/overpass"
	"github.com/sells-group/install-check/internal/recorder"
	"github.com/sells-group/install-check/internal/rules"
	"github.com/sells-group/install-check/pkg/mapurl"
)

// Checker runs install checks. It holds no per-request state.
type Checker struct {
	locator  *locator.Locator
	fetcher  overpass.Fetcher
	recorder recorder.Recorder

	now   func() time.Time
	newID func() string
}

// New creates a Checker. The recorder may be nil when saving is not needed.
func New(loc *locator.Locator, fetcher overpass.Fetcher, rec recorder.Recorder) *Checker {
	return &Checker{
		locator:  loc,
		fetcher:  fetcher,
		recorder: rec,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Check evaluates manually entered facts for a map link. It never fails:
// an unrecognised URL only leaves the location empty.
func (c *Checker) Check(_ context.Context, in ManualInput) *Result {
	loc := c.locator.FromURL(in.URL)

	netType := in.NetworkType
	if netType == "" {
		netType = model.NetworkAuto
	}
	obs := model.Observation{
		NetworkType:       netType,
		FacadeLengthM:     in.FacadeLengthM,
		AerialHeightM:     in.AerialHeightM,
		PublicDigRequired: in.PublicDigRequired,
	}

	decision := rules.Decide(obs, rules.ConfidenceBasedRisk{}, rules.RiskInput{})
	obs.NetworkType = decision.NetworkType

	res := &Result{
		Entry:       EntryCheck,
		URL:         strings.TrimSpace(in.URL),
		Coordinate:  loc.Coordinate,
		PanoID:      loc.PanoID,
		Observation: obs,
		Decision:    decision,
	}
	if loc.Coordinate != nil {
		res.StreetViewURL = mapurl.StreetViewURL(*loc.Coordinate)
	}

	zap.L().Info("pipeline: manual check",
		zap.String("label", string(decision.Label)),
		zap.String("network_type", string(decision.NetworkType)),
		zap.Float64("risk", decision.Risk),
		zap.Bool("located", loc.Coordinate != nil),
	)
	return res
}

// Analyze geocodes address, fetches the surrounding geodata and infers the
// install decision. An unresolved address returns locator.ErrUnresolved and
// no decision. A failed context fetch degrades to the no-context decision.
func (c *Checker) Analyze(ctx context.Context, address string) (*Result, error) {
	resolved, err := c.locator.FromAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	coord := resolved.Coordinate

	res := &Result{
		Entry:         EntryAnalyze,
		Address:       locator.NormalizeAddress(address),
		Coordinate:    &coord,
		Geocode:       resolved,
		StreetViewURL: mapurl.StreetViewURL(coord),
	}

	log := zap.L().With(
		zap.Float64("lat", coord.Lat),
		zap.Float64("lon", coord.Lon),
		zap.String("geocoder", resolved.Source),
	)

	features, err := c.fetcher.Fetch(ctx, coord)
	if err != nil {
		log.Warn("pipeline: context fetch failed, marking borderline", zap.Error(err))
		res.NoContext = true
		res.Observation = model.Observation{NetworkType: model.NetworkFacade}
		res.Decision = rules.NoContextDecision()
		return res, nil
	}

	inf := infer.FromFeatures(coord, features)
	res.Decision = rules.Decide(inf.Observation, rules.AdditivePenaltyRisk{}, rules.RiskInput{
		CabinetFound: inf.NearestCabinetM != nil,
		PoleFound:    inf.NearestPoleM != nil,
	})
	res.Observation = inf.Observation
	res.Context = &ContextSummary{
		FeatureCount:    len(features),
		HasSidewalk:     inf.HasSidewalk,
		NearestPoleM:    round1(inf.NearestPoleM),
		NearestCabinetM: round1(inf.NearestCabinetM),
	}

	log.Info("pipeline: address analyzed",
		zap.Int("features", len(features)),
		zap.String("label", string(res.Decision.Label)),
		zap.String("network_type", string(res.Decision.NetworkType)),
		zap.Float64("risk", res.Decision.Risk),
	)
	return res, nil
}

// Save appends res to the log. The decision must be the one the rules
// derive from the observation. An empty caseID is stored as null.
func (c *Checker) Save(ctx context.Context, res *Result, caseID string) (*model.Record, error) {
	if c.recorder == nil {
		return nil, eris.New("pipeline: no recorder configured")
	}
	if res == nil {
		return nil, eris.New("pipeline: nothing to save")
	}
	if err := verifyDecision(res); err != nil {
		return nil, err
	}

	rec := BuildRecord(res, caseID, c.newID(), c.now())
	if err := c.recorder.Append(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "pipeline: save record")
	}

	zap.L().Info("pipeline: record saved",
		zap.String("id", rec.ID),
		zap.String("decision", string(rec.Decision)),
	)
	return &rec, nil
}

// BuildRecord converts a result into a log record stamped at ts (UTC,
// second precision).
func BuildRecord(res *Result, caseID, id string, ts time.Time) model.Record {
	rec := model.Record{
		ID:         id,
		Timestamp:  ts.UTC().Truncate(time.Second),
		Decision:   res.Decision.Label,
		RiskScore:  res.Decision.Risk,
		Confidence: res.Decision.Confidence,
		Policy:     res.Decision.Policy,
		Reasons:    res.Decision.Reasons,
		Fields: model.RecordFields{
			NetworkType:       res.Observation.NetworkType,
			FacadeLengthM:     res.Observation.FacadeLengthM,
			AerialHeightM:     res.Observation.AerialHeightM,
			PublicDigRequired: res.Observation.PublicDigRequired,
		},
	}

	if id := strings.TrimSpace(caseID); id != "" {
		rec.CaseID = &id
	}
	if res.URL != "" {
		rec.URL = model.Ptr(res.URL)
	}
	if res.Address != "" {
		rec.Address = model.Ptr(res.Address)
	}
	if res.Coordinate != nil {
		rec.Coords.Lat = model.Ptr(res.Coordinate.Lat)
		rec.Coords.Lon = model.Ptr(res.Coordinate.Lon)
	}
	if res.PanoID != "" {
		rec.Coords.Pano = model.Ptr(res.PanoID)
	}
	if res.Context != nil {
		rec.Fields.HasSidewalkNearby = model.Ptr(res.Context.HasSidewalk)
		rec.Fields.NearestPoleM = res.Context.NearestPoleM
		rec.Fields.NearestCabinetM = res.Context.NearestCabinetM
	}
	if res.StreetViewURL != "" {
		rec.Links = &model.RecordLinks{StreetView: res.StreetViewURL}
	}
	return rec
}

func round1(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*10) / 10
	return &r
}
