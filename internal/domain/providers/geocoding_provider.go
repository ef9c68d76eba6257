package providers

import (
	"context"

	"github.com/kruthikhak/Care-Connect/pkg/geo"
)

// GeocodingProvider resolves free-text places ("Oakland, CA") to coordinates
type GeocodingProvider interface {
	// Geocode converts an address or place name to a location
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string         `json:"formatted_address"`
	City             string         `json:"city,omitempty"`
	State            string         `json:"state,omitempty"`
	Country          string         `json:"country,omitempty"`
	Coordinate       geo.Coordinate `json:"coordinate"`
}
