package models

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoPointInput(t *testing.T) {
	tests := []struct {
		name    string
		input   GeoPointInput
		want    orb.Point
		wantErr bool
	}{
		{
			name:  "valid point",
			input: GeoPointInput{Type: "Point", Coordinates: []float64{-122.65, 45.52}},
			want:  orb.Point{-122.65, 45.52},
		},
		{
			name:    "single coordinate",
			input:   GeoPointInput{Type: "Point", Coordinates: []float64{-122.65}},
			wantErr: true,
		},
		{
			name:    "three coordinates",
			input:   GeoPointInput{Type: "Point", Coordinates: []float64{-122.65, 45.52, 12.0}},
			wantErr: true,
		},
		{
			name:    "no coordinates",
			input:   GeoPointInput{Type: "Point"},
			wantErr: true,
		},
		{
			name:    "NaN longitude",
			input:   GeoPointInput{Type: "Point", Coordinates: []float64{math.NaN(), 45.52}},
			wantErr: true,
		},
		{
			name:    "infinite latitude",
			input:   GeoPointInput{Type: "Point", Coordinates: []float64{-122.65, math.Inf(1)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := tt.input.GeoPoint()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLocation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Point", point.Type)
			assert.Equal(t, tt.want, point.Coordinates)
		})
	}
}

func TestParseGeoPoint(t *testing.T) {
	point, err := ParseGeoPoint(`{"type":"Point","coordinates":[-122.65,45.52]}`)
	require.NoError(t, err)
	assert.Equal(t, orb.Point{-122.65, 45.52}, point.Coordinates)

	_, err = ParseGeoPoint(`{"type":"Point","coordinates":[-122.65]}`)
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = ParseGeoPoint(`not json`)
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = ParseGeoPoint(``)
	assert.ErrorIs(t, err, ErrInvalidLocation)
}
