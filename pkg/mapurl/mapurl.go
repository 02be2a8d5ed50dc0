// Package mapurl extracts coordinates and a Street View panorama id from
// pasted Google Maps / Street View links, and builds Street View links.
package mapurl

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sells-group/install-check/internal/model"
)

// Location is what could be recovered from a map URL. A nil Coordinate and
// empty PanoID mean the URL shape was not recognised.
type Location struct {
	Coordinate *model.Coordinate `json:"coordinate,omitempty"`
	PanoID     string            `json:"pano_id,omitempty"`
	Pattern    string            `json:"pattern,omitempty"`
}

type coordPattern struct {
	name string
	re   *regexp.Regexp
}

// coordPatterns are tried in order; the first match wins.
var coordPatterns = []coordPattern{
	{name: "cbll", re: regexp.MustCompile(`[?&]cbll=(-?\d+\.\d+),(-?\d+\.\d+)`)},
	{name: "data", re: regexp.MustCompile(`!3d(-?\d+\.\d+)!4d(-?\d+\.\d+)`)},
	{name: "viewport", re: regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+),`)},
}

var panoPattern = regexp.MustCompile(`[?&]pano=([\w-]+)`)

// Parse recovers a coordinate and panorama id from raw. It never fails;
// unmatched input yields an empty Location.
func Parse(raw string) Location {
	var loc Location

	for _, p := range coordPatterns {
		m := p.re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		c, ok := parseCoordinate(m[1], m[2])
		if !ok {
			continue
		}
		loc.Coordinate = &c
		loc.Pattern = p.name
		break
	}

	if m := panoPattern.FindStringSubmatch(raw); m != nil {
		loc.PanoID = m[1]
	}

	return loc
}

func parseCoordinate(latStr, lonStr string) (model.Coordinate, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return model.Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return model.Coordinate{}, false
	}
	c := model.Coordinate{Lat: lat, Lon: lon}
	return c, c.Valid()
}

// StreetViewURL returns a Google Maps link that opens Street View at c.
// No imagery is fetched.
func StreetViewURL(c model.Coordinate) string {
	return fmt.Sprintf("https://www.google.com/maps?q&layer=c&cbll=%s,%s&cbp=11,0,0,0,0",
		strconv.FormatFloat(c.Lat, 'f', -1, 64),
		strconv.FormatFloat(c.Lon, 'f', -1, 64),
	)
}
