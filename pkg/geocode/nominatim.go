package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

const nominatimSearchURL = "https://nominatim.openstreetmap.org/search"

// nominatimPlace is one element of the Nominatim jsonv2 search response.
// Coordinates are returned as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	PlaceRank   int    `json:"place_rank"`
}

// lookupNominatim queries the Nominatim search API. Calls are rate limited
// and carry the configured User-Agent, as the usage policy requires.
func (g *geocoder) lookupNominatim(ctx context.Context, address string) (*Result, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	ctx, cancel := context.WithTimeout(ctx, g.nominatimTimeout)
	defer cancel()

	q := url.Values{
		"q":              {address},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {"1"},
	}
	header := http.Header{"User-Agent": {g.userAgent}}

	var places []nominatimPlace
	if err := g.getJSON(ctx, sourceNominatim, g.nominatimURL+"?"+q.Encode(), header, &places); err != nil {
		return nil, err
	}

	if len(places) == 0 {
		return &Result{Matched: false, Source: sourceNominatim}, nil
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse lat")
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse lon")
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		Source:      sourceNominatim,
		Quality:     placeRankToQuality(place.PlaceRank),
		DisplayName: place.DisplayName,
		Matched:     true,
	}, nil
}

// placeRankToQuality maps Nominatim's place_rank to our quality taxonomy.
// 30 is a house or building, 26-27 a street.
func placeRankToQuality(rank int) string {
	switch {
	case rank >= 30:
		return "rooftop"
	case rank >= 26:
		return "range"
	case rank >= 16:
		return "centroid"
	default:
		return "approximate"
	}
}
