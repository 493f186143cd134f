// Package geocode places an incident address on the map.
package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/freedom_case_2/callemail/internal/models"
)

var ErrNotFound = errors.New("geocode not found")

// Result is the best match for an address query.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Confidence  float64
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// BuildQuery joins the non-empty address parts, most specific last.
func BuildQuery(parts ...string) string {
	out := []string{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// LocationQuery builds the lookup for a location's address properties.
func LocationQuery(loc *models.Location) string {
	if loc == nil {
		return ""
	}
	p := loc.Properties
	return BuildQuery(deref(p.Country), deref(p.State), deref(p.TownSuburb), deref(p.Postcode), deref(p.Street))
}

// ShouldGeocode reports whether the location still needs a point.
func ShouldGeocode(loc *models.Location, force bool) bool {
	if force {
		return true
	}
	return loc == nil || loc.Geometry == nil || len(loc.Geometry.Coordinates) < 2
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
