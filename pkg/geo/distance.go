// Package geo holds the single great-circle distance implementation used by
// every component that needs to measure between two points on Earth.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean spherical Earth radius used for all distances.
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate is returned for coordinates outside the WGS84 ranges.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// NewCoordinate builds a validated coordinate.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	return isFinite(c.Lat) && isFinite(c.Lon) &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lon >= -180 && c.Lon <= 180
}

// Validate returns ErrInvalidCoordinate wrapped with the offending values.
func (c Coordinate) Validate() error {
	if c.Valid() {
		return nil
	}
	return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, c.Lat, c.Lon)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lon)
}

// DistanceKm returns the Haversine great-circle distance between a and b in
// kilometers. Inputs are assumed valid; callers validate at their boundary.
func DistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// rounding can push h just outside [0, 1] for near-antipodal points
	h = math.Max(0, math.Min(1, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Antipode returns the point diametrically opposite c.
func Antipode(c Coordinate) Coordinate {
	lon := c.Lon + 180
	if lon > 180 {
		lon -= 360
	}
	return Coordinate{Lat: -c.Lat, Lon: lon}
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
