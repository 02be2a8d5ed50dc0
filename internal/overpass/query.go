package overpass

import (
	"fmt"
	"strings"

	"github.com/sells-group/install-check/internal/geo"
)

// featureFilters select the elements that matter for an install decision.
var featureFilters = []string{
	`way["building"]`,
	`relation["building"]`,
	`way["highway"]["sidewalk"]`,
	`way["highway"="footway"]["footway"="sidewalk"]`,
	`node["highway"="street_lamp"]`,
	`node["power"="pole"]`,
	`node["man_made"="utility_pole"]`,
	`node["telecom"="pole"]`,
	`node["man_made"="street_cabinet"]`,
	`node["telecom"="cabinet"]`,
}

// BuildQuery returns the Overpass QL query for all relevant features in box.
// Ways and relations carry their bounds (bb), so member nodes are not
// recursed: a recursed vertex comes back untagged and would replace a
// tagged pole or cabinet with the same id.
func BuildQuery(box geo.BBox, timeoutSecs int) string {
	bbox := box.OverpassString()

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSecs)
	for _, f := range featureFilters {
		fmt.Fprintf(&b, "  %s(%s);\n", f, bbox)
	}
	b.WriteString(");\nout body bb qt;\n")
	return b.String()
}
