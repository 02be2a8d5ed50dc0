package overpass

import "github.com/sells-group/install-check/internal/model"

// classifyNode maps a tagged node to a feature kind.
func classifyNode(tags map[string]string) (model.FeatureKind, bool) {
	switch {
	case tags["power"] == "pole", tags["man_made"] == "utility_pole", tags["telecom"] == "pole":
		return model.FeaturePole, true
	case tags["man_made"] == "street_cabinet", tags["telecom"] == "cabinet":
		return model.FeatureCabinet, true
	case tags["highway"] == "street_lamp":
		return model.FeatureStreetLamp, true
	}
	return "", false
}

// classifyWay maps a tagged way to a feature kind. A highway carrying any
// sidewalk tag counts as a sidewalk.
func classifyWay(tags map[string]string) (model.FeatureKind, bool) {
	_, hasSidewalk := tags["sidewalk"]
	switch {
	case tags["highway"] != "" && hasSidewalk,
		tags["highway"] == "footway" && tags["footway"] == "sidewalk":
		return model.FeatureSidewalk, true
	case tags["building"] != "":
		return model.FeatureBuilding, true
	}
	return "", false
}

func classifyRelation(tags map[string]string) (model.FeatureKind, bool) {
	if tags["building"] != "" {
		return model.FeatureBuilding, true
	}
	return "", false
}
