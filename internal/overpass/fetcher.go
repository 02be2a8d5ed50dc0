// Package overpass fetches the geodata features around a point from an
// Overpass API instance.
package overpass

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	goverpass "github.com/serjvanilla/go-overpass"
	"go.uber.org/zap"

	"github.com/sells-group/install-check/internal/geo"
	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/internal/resilience"
)

// Defaults for the public Overpass instance.
const (
	DefaultURL     = "https://overpass-api.de/api/interpreter"
	DefaultRadiusM = 80.0
	DefaultTimeout = 60 * time.Second
)

// Fetcher returns the features near a coordinate. A returned error is the
// "no context" signal; callers must degrade rather than guess.
type Fetcher interface {
	Fetch(ctx context.Context, c model.Coordinate) ([]model.Feature, error)
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the Overpass interpreter endpoint.
func WithURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// WithRadius sets the half-size of the search box in meters.
func WithRadius(m float64) Option {
	return func(c *Client) {
		if m > 0 {
			c.radiusM = m
		}
	}
}

// WithTimeout bounds a single Overpass request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetry sets the retry policy for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithTransport sets the base HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// Client is a Fetcher backed by go-overpass.
type Client struct {
	endpoint  string
	radiusM   float64
	timeout   time.Duration
	retry     resilience.RetryConfig
	transport http.RoundTripper
}

// New creates an Overpass Client.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:  DefaultURL,
		radiusM:   DefaultRadiusM,
		timeout:   DefaultTimeout,
		retry:     resilience.DefaultRetryConfig(),
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("overpass")
	}
	return c
}

// Fetch queries the box of the configured radius around center and returns
// the classified features, sorted by element and id.
func (c *Client) Fetch(ctx context.Context, center model.Coordinate) ([]model.Feature, error) {
	if !center.Valid() {
		return nil, eris.Errorf("overpass: invalid coordinate %v,%v", center.Lat, center.Lon)
	}

	box := geo.BBoxAround(center, c.radiusM)
	query := BuildQuery(box, int(c.timeout.Seconds()))

	result, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (goverpass.Result, error) {
		return c.query(ctx, query)
	})
	if err != nil {
		return nil, eris.Wrap(err, "overpass: fetch")
	}

	features := toFeatures(&result)
	zap.L().Debug("overpass: fetched features",
		zap.Float64("lat", center.Lat),
		zap.Float64("lon", center.Lon),
		zap.Int("count", len(features)),
	)
	return features, nil
}

// query runs one Overpass request. go-overpass takes no context, so the
// context is attached to each outgoing request by the transport.
func (c *Client) query(ctx context.Context, q string) (goverpass.Result, error) {
	hc := &http.Client{
		Timeout: c.timeout,
		Transport: &contextTransport{
			ctx:  ctx,
			base: &resilience.StatusTransport{Base: c.transport},
		},
	}
	client := goverpass.NewWithSettings(c.endpoint, 1, hc)
	return client.Query(q)
}

type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// toFeatures converts an Overpass result into features. Untagged nodes
// pulled in only as way geometry are skipped by classification.
func toFeatures(res *goverpass.Result) []model.Feature {
	var out []model.Feature

	for _, n := range res.Nodes {
		kind, ok := classifyNode(n.Tags)
		if !ok {
			continue
		}
		out = append(out, model.Feature{
			ID:       n.ID,
			Element:  string(goverpass.ElementTypeNode),
			Kind:     kind,
			Location: model.Coordinate{Lat: n.Lat, Lon: n.Lon},
			Tags:     n.Tags,
		})
	}

	for _, w := range res.Ways {
		kind, ok := classifyWay(w.Tags)
		if !ok {
			continue
		}
		loc, ok := wayCenter(w)
		if !ok {
			continue
		}
		out = append(out, model.Feature{
			ID:       w.ID,
			Element:  string(goverpass.ElementTypeWay),
			Kind:     kind,
			Location: loc,
			Tags:     w.Tags,
		})
	}

	for _, r := range res.Relations {
		kind, ok := classifyRelation(r.Tags)
		if !ok || r.Bounds == nil {
			continue
		}
		out = append(out, model.Feature{
			ID:       r.ID,
			Element:  string(goverpass.ElementTypeRelation),
			Kind:     kind,
			Location: boxCenter(r.Bounds),
			Tags:     r.Tags,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Element != out[j].Element {
			return out[i].Element < out[j].Element
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// wayCenter is the center of the way's bounds, from the server-side box when
// present, else from its resolved nodes.
func wayCenter(w *goverpass.Way) (model.Coordinate, bool) {
	if w.Bounds != nil {
		return boxCenter(w.Bounds), true
	}
	coords := make([]model.Coordinate, 0, len(w.Nodes))
	for _, n := range w.Nodes {
		// Node references the response never resolved stay at 0,0.
		if n == nil || (n.Lat == 0 && n.Lon == 0) {
			continue
		}
		coords = append(coords, model.Coordinate{Lat: n.Lat, Lon: n.Lon})
	}
	box, ok := geo.BoundsOf(coords)
	if !ok {
		return model.Coordinate{}, false
	}
	return box.Center(), true
}

func boxCenter(b *goverpass.Box) model.Coordinate {
	return model.Coordinate{
		Lat: (b.Min.Lat + b.Max.Lat) / 2,
		Lon: (b.Min.Lon + b.Max.Lon) / 2,
	}
}
