package entities

import (
	"strings"
	"time"

	"github.com/kruthikhak/Care-Connect/pkg/geo"
)

// Hospital represents a healthcare facility listed in the directory
type Hospital struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Address      Address   `json:"address" db:"-"`
	Location     Location  `json:"location" db:"-"`
	Phone        string    `json:"phone" db:"phone"`
	Website      string    `json:"website" db:"website"`
	Description  string    `json:"description,omitempty" db:"description"`
	FacilityType string    `json:"facility_type" db:"facility_type"`
	Specialties  []string  `json:"specialties" db:"-"`
	Services     []string  `json:"services" db:"-"`
	Rating       float64   `json:"rating" db:"rating"`
	ReviewCount  int       `json:"review_count" db:"review_count"`
	Hours        string    `json:"hours" db:"hours"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasSpecialty reports whether the hospital lists the given specialty, ignoring case.
func (h *Hospital) HasSpecialty(specialty string) bool {
	for _, s := range h.Specialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// String formats the address on a single line.
func (a Address) String() string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	stateZip := strings.TrimSpace(a.State + " " + a.ZipCode)
	if stateZip != "" {
		parts = append(parts, stateZip)
	}
	return strings.Join(parts, ", ")
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Coordinate converts the location to the distance engine's value type.
func (l Location) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: l.Latitude, Lon: l.Longitude}
}

// LocationFromCoordinate is the inverse of Location.Coordinate.
func LocationFromCoordinate(c geo.Coordinate) Location {
	return Location{Latitude: c.Lat, Longitude: c.Lon}
}
