package geocode

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// lookupGoogle queries the Geocoding API for a free-text address.
// ZERO_RESULTS is a miss; any other non-OK status (REQUEST_DENIED,
// OVER_QUERY_LIMIT, ...) is an error so the cascade moves on and logs why.
func (g *geocoder) lookupGoogle(ctx context.Context, address string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.googleTimeout)
	defer cancel()

	q := url.Values{"address": {address}, "key": {g.googleKey}}
	var body googleResponse
	if err := g.getJSON(ctx, sourceGoogle, googleGeocodeURL+"?"+q.Encode(), nil, &body); err != nil {
		return nil, err
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return &Result{Source: sourceGoogle}, nil
	default:
		return nil, eris.Errorf("geocode: google status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return &Result{Source: sourceGoogle}, nil
	}

	top := body.Results[0]
	return &Result{
		Latitude:    top.Geometry.Location.Lat,
		Longitude:   top.Geometry.Location.Lng,
		Source:      sourceGoogle,
		Quality:     googleQuality(top.Geometry.LocationType),
		DisplayName: top.FormattedAddress,
		Matched:     true,
	}, nil
}

func googleQuality(locType string) string {
	switch strings.ToUpper(locType) {
	case "ROOFTOP":
		return "rooftop"
	case "RANGE_INTERPOLATED":
		return "range"
	case "GEOMETRIC_CENTER":
		return "centroid"
	default:
		return "approximate"
	}
}
