// Package geo computes display distances between the map center and results.
package geo

import (
	"fmt"
	"math"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

const earthRadiusKm = 6371

// Kilometers returns the great-circle distance between a and b (haversine).
func Kilometers(a, b domain.Coords) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// FormatDistance renders the distance from center to point: whole meters under
// one kilometer, kilometers to one decimal above. Either pair missing yields
// "" (distance unavailable); it never fails.
func FormatDistance(center, point *domain.Coords) string {
	if center == nil || point == nil {
		return ""
	}
	d := Kilometers(*center, *point)
	if d < 1 {
		return fmt.Sprintf("%d m", int(math.Round(d*1000)))
	}
	return fmt.Sprintf("%.1f km", d)
}
