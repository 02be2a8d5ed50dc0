package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/install-check/internal/config"
	"github.com/sells-group/install-check/internal/locator"
	"github.com/sells-group/install-check/internal/overpass"
	"github.com/sells-group/install-check/internal/pipeline"
	"github.com/sells-group/install-check/internal/recorder"
	"github.com/sells-group/install-check/internal/resilience"
	"github.com/sells-group/install-check/pkg/geocode"
)

// checkerEnv holds the checker and the resources it owns.
type checkerEnv struct {
	Checker  *pipeline.Checker
	Recorder recorder.Recorder // nil unless requested
}

// Close releases resources held by the environment.
func (e *checkerEnv) Close() {
	if e.Recorder != nil {
		_ = e.Recorder.Close()
	}
}

// initChecker validates cfg for mode and builds the checker. The recorder is
// only opened when withRecorder is set so a plain check never touches the log.
func initChecker(ctx context.Context, c *config.Config, mode string, withRecorder bool) (*checkerEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	env := &checkerEnv{}
	if withRecorder {
		rec, err := recorder.New(ctx, c.Recorder)
		if err != nil {
			return nil, eris.Wrap(err, "init recorder")
		}
		env.Recorder = rec
	}

	env.Checker = pipeline.New(
		locator.New(newGeocoder(c.Geocode)),
		newFetcher(c.Overpass),
		env.Recorder,
	)
	return env, nil
}

func newGeocoder(gc config.GeocodeConfig) geocode.Client {
	return geocode.NewClient(
		geocode.WithGoogleAPIKey(gc.GoogleAPIKey),
		geocode.WithNominatimURL(gc.NominatimURL),
		geocode.WithUserAgent(gc.UserAgent),
		geocode.WithRateLimit(gc.RateLimit),
		geocode.WithTimeouts(
			time.Duration(gc.GoogleTimeoutSecs)*time.Second,
			time.Duration(gc.NominatimTimeoutSecs)*time.Second,
		),
	)
}

func newFetcher(oc config.OverpassConfig) *overpass.Client {
	retry := resilience.DefaultRetryConfig()
	if oc.MaxAttempts > 0 {
		retry.MaxAttempts = oc.MaxAttempts
	}
	return overpass.New(
		overpass.WithURL(oc.URL),
		overpass.WithRadius(oc.RadiusM),
		overpass.WithTimeout(time.Duration(oc.TimeoutSecs)*time.Second),
		overpass.WithRetry(retry),
	)
}
