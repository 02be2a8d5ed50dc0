package geocode

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// newTestLimiter never blocks.
func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newRewriteClient returns a client that sends requests for each production
// endpoint prefix to the matching test server instead.
func newRewriteClient(rewrites map[string]string) *http.Client {
	return &http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, rewrites: rewrites}}
}

type rewriteTransport struct {
	base     http.RoundTripper
	rewrites map[string]string // endpoint prefix -> test server URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	orig := req.URL.String()
	for prefix, target := range t.rewrites {
		suffix, ok := strings.CutPrefix(orig, prefix)
		if !ok {
			continue
		}
		parsed, err := req.URL.Parse(target + suffix)
		if err != nil {
			return nil, err
		}
		out := req.Clone(req.Context())
		out.URL = parsed
		out.Host = parsed.Host
		return t.base.RoundTrip(out)
	}
	return t.base.RoundTrip(req)
}
