package usecase

import (
	"math"

	"carpool-service/internal/domain/entity"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FilterPostings keeps active postings whose chosen endpoint lies within
// maxDistKm of point. Used by the fallback geo path, where the filtering
// the primary aggregation does in the database happens in application
// code instead.
func FilterPostings(postings []entity.RidePosting, point entity.GeoPoint, maxDistKm float64, locType string) []entity.RidePosting {
	var kept []entity.RidePosting
	for _, p := range postings {
		if !p.IsRideActive {
			continue
		}
		loc := p.Start
		if locType == entity.LocEnd {
			loc = p.End
		}
		if len(loc.Coordinates) != 2 {
			continue
		}
		if HaversineKm(point.Lat(), point.Lng(), loc.Lat(), loc.Lng()) <= maxDistKm {
			kept = append(kept, p)
		}
	}
	return kept
}
