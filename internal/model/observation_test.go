package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetworkType(t *testing.T) {
	tests := []struct {
		in      string
		want    NetworkType
		wantErr bool
	}{
		{"", NetworkAuto, false},
		{"auto", NetworkAuto, false},
		{"Facade", NetworkFacade, false},
		{"façade", NetworkFacade, false},
		{" aerial ", NetworkAerial, false},
		{"underground", NetworkUnderground, false},
		{"satellite", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNetworkType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTriState(t *testing.T) {
	v, err := ParseTriState("unknown")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseTriState("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseTriState("YES")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = ParseTriState("no")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = ParseTriState("maybe")
	assert.Error(t, err)
}

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Lat: 50.85, Lon: 4.35}.Valid())
	assert.True(t, Coordinate{Lat: -90, Lon: 180}.Valid())
	assert.False(t, Coordinate{Lat: 91, Lon: 0}.Valid())
	assert.False(t, Coordinate{Lat: 0, Lon: -180.5}.Valid())
}
