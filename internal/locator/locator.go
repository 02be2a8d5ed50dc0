// Package locator resolves user input (free-text address or pasted map link)
// to a coordinate.
package locator

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/install-check/internal/model"
	"github.com/sells-group/install-check/pkg/geocode"
	"github.com/sells-group/install-check/pkg/mapurl"
)

// ErrUnresolved is returned when an address could not be geocoded.
var ErrUnresolved = eris.New("locator: address could not be resolved")

// Resolution is a located address.
type Resolution struct {
	Coordinate  model.Coordinate `json:"coordinate"`
	Source      string           `json:"source"`
	Quality     string           `json:"quality"`
	DisplayName string           `json:"display_name,omitempty"`
}

// Locator turns addresses and map links into coordinates.
type Locator struct {
	geocoder geocode.Client
}

// New creates a Locator backed by the given geocoder.
func New(gc geocode.Client) *Locator {
	return &Locator{geocoder: gc}
}

// FromAddress geocodes address. Any provider failure or empty result yields
// ErrUnresolved; the caller must not produce a decision.
func (l *Locator) FromAddress(ctx context.Context, address string) (*Resolution, error) {
	address = NormalizeAddress(address)
	if address == "" {
		return nil, eris.Wrap(ErrUnresolved, "empty address")
	}

	res, err := l.geocoder.Geocode(ctx, address)
	if err != nil {
		zap.L().Warn("locator: geocode failed", zap.String("address", address), zap.Error(err))
		return nil, eris.Wrap(ErrUnresolved, err.Error())
	}
	if res == nil || !res.Matched {
		return nil, ErrUnresolved
	}

	c := model.Coordinate{Lat: res.Latitude, Lon: res.Longitude}
	if !c.Valid() {
		zap.L().Warn("locator: geocoder returned out-of-range coordinate",
			zap.Float64("lat", c.Lat), zap.Float64("lon", c.Lon))
		return nil, ErrUnresolved
	}

	return &Resolution{
		Coordinate:  c,
		Source:      res.Source,
		Quality:     res.Quality,
		DisplayName: res.DisplayName,
	}, nil
}

// FromURL extracts what it can from a map link. It never fails.
func (l *Locator) FromURL(raw string) mapurl.Location {
	return mapurl.Parse(strings.TrimSpace(raw))
}

// NormalizeAddress NFC-normalizes address and collapses whitespace.
func NormalizeAddress(address string) string {
	return strings.Join(strings.Fields(norm.NFC.String(address)), " ")
}
