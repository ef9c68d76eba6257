package geocoding

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
)

type place struct {
	name  string
	state string
	coord geo.Coordinate
}

// Bay Area cities covered by the demo directory
var staticCities = []place{
	{"San Francisco", "CA", geo.Coordinate{Lat: 37.7749, Lon: -122.4194}},
	{"Oakland", "CA", geo.Coordinate{Lat: 37.8044, Lon: -122.2712}},
	{"Berkeley", "CA", geo.Coordinate{Lat: 37.8715, Lon: -122.2730}},
	{"Walnut Creek", "CA", geo.Coordinate{Lat: 37.9101, Lon: -122.0652}},
	{"Castro Valley", "CA", geo.Coordinate{Lat: 37.6941, Lon: -122.0864}},
	{"San Ramon", "CA", geo.Coordinate{Lat: 37.7799, Lon: -121.9780}},
	{"San Jose", "CA", geo.Coordinate{Lat: 37.3382, Lon: -121.8863}},
	{"Palo Alto", "CA", geo.Coordinate{Lat: 37.4419, Lon: -122.1430}},
	{"Daly City", "CA", geo.Coordinate{Lat: 37.6879, Lon: -122.4702}},
	{"Hayward", "CA", geo.Coordinate{Lat: 37.6688, Lon: -122.0808}},
	{"Fremont", "CA", geo.Coordinate{Lat: 37.5485, Lon: -121.9886}},
	{"Richmond", "CA", geo.Coordinate{Lat: 37.9358, Lon: -122.3477}},
}

var staticZipCodes = map[string]place{
	"94109": {"San Francisco", "CA", geo.Coordinate{Lat: 37.7917, Lon: -122.4186}},
	"94110": {"San Francisco", "CA", geo.Coordinate{Lat: 37.7484, Lon: -122.4156}},
	"94115": {"San Francisco", "CA", geo.Coordinate{Lat: 37.7856, Lon: -122.4358}},
	"94117": {"San Francisco", "CA", geo.Coordinate{Lat: 37.7700, Lon: -122.4469}},
	"94133": {"San Francisco", "CA", geo.Coordinate{Lat: 37.8002, Lon: -122.4091}},
	"94143": {"San Francisco", "CA", geo.Coordinate{Lat: 37.7631, Lon: -122.4586}},
	"94611": {"Oakland", "CA", geo.Coordinate{Lat: 37.8300, Lon: -122.2184}},
	"94705": {"Berkeley", "CA", geo.Coordinate{Lat: 37.8640, Lon: -122.2400}},
	"94598": {"Walnut Creek", "CA", geo.Coordinate{Lat: 37.9000, Lon: -122.0300}},
	"94546": {"Castro Valley", "CA", geo.Coordinate{Lat: 37.7000, Lon: -122.0800}},
	"94583": {"San Ramon", "CA", geo.Coordinate{Lat: 37.7600, Lon: -121.9500}},
}

var zipPattern = regexp.MustCompile(`\b\d{5}\b`)

// StaticProvider resolves place names from a fixed table. It needs no
// network and is the default for local runs and tests.
type StaticProvider struct {
	cities []place
}

// NewStaticProvider creates a table-backed geocoder
func NewStaticProvider() providers.GeocodingProvider {
	cities := make([]place, len(staticCities))
	copy(cities, staticCities)
	// Longest names first so "San Ramon" wins over a shorter prefix match.
	sort.SliceStable(cities, func(i, j int) bool { return len(cities[i].name) > len(cities[j].name) })
	return &StaticProvider{cities: cities}
}

// Geocode matches a ZIP code first, then a known city name
func (p *StaticProvider) Geocode(_ context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("address is required")
	}

	if zip := zipPattern.FindString(trimmed); zip != "" {
		if match, ok := staticZipCodes[zip]; ok {
			return toAddress(match, fmt.Sprintf("%s, %s %s, USA", match.name, match.state, zip)), nil
		}
	}

	lower := strings.ToLower(trimmed)
	for _, city := range p.cities {
		if strings.Contains(lower, strings.ToLower(city.name)) {
			return toAddress(city, fmt.Sprintf("%s, %s, USA", city.name, city.state)), nil
		}
	}

	return nil, apperrors.NewNotFoundError(fmt.Sprintf("location %q not found", trimmed))
}

func toAddress(p place, formatted string) *providers.GeocodedAddress {
	return &providers.GeocodedAddress{
		FormattedAddress: formatted,
		City:             p.name,
		State:            p.state,
		Country:          "USA",
		Coordinate:       p.coord,
	}
}
