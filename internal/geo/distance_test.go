package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/install-check/internal/model"
)

func TestDistanceM(t *testing.T) {
	brussels := model.Coordinate{Lat: 50.8503, Lon: 4.3517}
	liege := model.Coordinate{Lat: 50.6326, Lon: 5.5797}

	// Brussels to Liège is roughly 90 km.
	assert.InDelta(t, 90000, DistanceM(brussels, liege), 2000)
	assert.InDelta(t, DistanceM(brussels, liege), DistanceM(liege, brussels), 1e-6)
	assert.InDelta(t, 0, DistanceM(brussels, brussels), 1e-9)
}

func TestDistanceM_OneDegreeLatitude(t *testing.T) {
	a := model.Coordinate{Lat: 0, Lon: 0}
	b := model.Coordinate{Lat: 1, Lon: 0}

	// 2πR/360 for R = 6,371,000 m.
	assert.InDelta(t, 111194.93, DistanceM(a, b), 0.1)
}

func TestDistanceM_ShortRange(t *testing.T) {
	origin := model.Coordinate{Lat: 50.6326, Lon: 5.5797}
	north := model.Coordinate{Lat: origin.Lat + 20/111194.93, Lon: origin.Lon}

	assert.InDelta(t, 20, DistanceM(origin, north), 0.01)
}

func TestNearest(t *testing.T) {
	origin := model.Coordinate{Lat: 50.0, Lon: 4.0}
	candidates := []model.Coordinate{
		{Lat: 50.001, Lon: 4.0},
		{Lat: 50.0002, Lon: 4.0},
		{Lat: 50.01, Lon: 4.0},
	}

	idx, d, ok := Nearest(origin, candidates)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 22.24, d, 0.05)
}

func TestNearest_Empty(t *testing.T) {
	idx, d, ok := Nearest(model.Coordinate{}, nil)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	assert.Zero(t, d)
}
