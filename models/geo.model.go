package models

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrInvalidLocation is returned for any location payload that does not
// describe a valid GeoJSON point.
var ErrInvalidLocation = errors.New("location must be a GeoJSON Point with 2 numeric coordinates")

// GeoPoint is a GeoJSON point: longitude first, then latitude.
// It is validated on construction and replaced wholesale on update,
// never merged field by field.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates orb.Point `bson:"coordinates" json:"coordinates"`
}

// GeoPointInput is the wire form of a location. Coordinates are decoded
// into a slice so that a wrong element count is detectable; decoding
// straight into a fixed-size point would silently zero-fill.
type GeoPointInput struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// GeoPoint validates the input and returns the immutable point.
func (in GeoPointInput) GeoPoint() (GeoPoint, error) {
	if len(in.Coordinates) != 2 {
		return GeoPoint{}, ErrInvalidLocation
	}
	lng, lat := in.Coordinates[0], in.Coordinates[1]
	if math.IsNaN(lng) || math.IsInf(lng, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return GeoPoint{}, ErrInvalidLocation
	}
	return GeoPoint{Type: "Point", Coordinates: orb.Point{lng, lat}}, nil
}

// ParseGeoPoint parses a location submitted as a JSON-encoded string,
// which is how it arrives alongside multipart file uploads.
func ParseGeoPoint(raw string) (GeoPoint, error) {
	var in GeoPointInput
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return GeoPoint{}, ErrInvalidLocation
	}
	return in.GeoPoint()
}
