// Package geocode resolves free-text addresses via Google Geocoding (primary,
// when an API key is configured) and Nominatim (open fallback).
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client geocodes free-text addresses.
type Client interface {
	// Geocode returns the first match for address. A miss on every provider
	// is not an error: it returns a Result with Matched=false.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64
	Longitude   float64
	Source      string // "google" or "nominatim"
	Quality     string // "rooftop", "range", "centroid", "approximate"
	DisplayName string
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithGoogleAPIKey enables Google Geocoding as the primary provider.
// An empty key leaves Nominatim as the only provider.
func WithGoogleAPIKey(key string) Option {
	return func(g *geocoder) {
		g.googleKey = strings.TrimSpace(key)
	}
}

// WithHTTPClient sets a custom HTTP client for both providers.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithNominatimURL overrides the Nominatim search endpoint.
func WithNominatimURL(u string) Option {
	return func(g *geocoder) {
		if u != "" {
			g.nominatimURL = u
		}
	}
}

// WithUserAgent sets the User-Agent sent to Nominatim, which requires one.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithRateLimit sets the requests-per-second limit for Nominatim calls.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithTimeouts bounds each provider call. Zero keeps the default.
func WithTimeouts(google, nominatim time.Duration) Option {
	return func(g *geocoder) {
		if google > 0 {
			g.googleTimeout = google
		}
		if nominatim > 0 {
			g.nominatimTimeout = nominatim
		}
	}
}

const (
	sourceGoogle    = "google"
	sourceNominatim = "nominatim"
)

const (
	defaultUserAgent        = "install-check/1.0"
	defaultGoogleTimeout    = 15 * time.Second
	defaultNominatimTimeout = 20 * time.Second
)

type geocoder struct {
	httpClient       *http.Client
	googleKey        string
	nominatimURL     string
	userAgent        string
	limiter          *rate.Limiter
	googleTimeout    time.Duration
	nominatimTimeout time.Duration
}

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient:       &http.Client{},
		nominatimURL:     nominatimSearchURL,
		userAgent:        defaultUserAgent,
		limiter:          rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
		googleTimeout:    defaultGoogleTimeout,
		nominatimTimeout: defaultNominatimTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode walks the provider cascade and returns the first match.
// Provider errors are logged and treated as misses.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return &Result{Matched: false}, nil
	}

	for _, p := range g.providers() {
		result, err := p.lookup(ctx, address)
		if err != nil {
			zap.L().Debug("geocode: provider failed", zap.String("provider", p.name), zap.Error(err))
			continue
		}
		if result.Matched {
			return result, nil
		}
	}

	// A total miss is an unmatched result, not an error.
	return &Result{Matched: false}, nil
}
