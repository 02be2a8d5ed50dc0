package geocode

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
)

// provider is one step of the cascade. A miss returns Matched=false; an
// error means the provider could not answer and the next one is tried.
type provider struct {
	name   string
	lookup func(ctx context.Context, address string) (*Result, error)
}

// providers lists the cascade in order. Google is only included with a key.
func (g *geocoder) providers() []provider {
	var ps []provider
	if g.googleKey != "" {
		ps = append(ps, provider{name: sourceGoogle, lookup: g.lookupGoogle})
	}
	return append(ps, provider{name: sourceNominatim, lookup: g.lookupNominatim})
}

// getJSON performs a GET and decodes a 200 response body into v.
func (g *geocoder) getJSON(ctx context.Context, source, reqURL string, header http.Header, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrapf(err, "geocode: %s build request", source)
	}
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return eris.Wrapf(err, "geocode: %s request", source)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("geocode: %s returned status %d", source, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return eris.Wrapf(err, "geocode: %s parse response", source)
	}
	return nil
}
