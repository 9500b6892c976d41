package utils

import "math"

const earthRadiusKm = 6371.0

func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	lat1R := degreesToRadians(lat1)
	lat2R := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1R)*math.Cos(lat2R)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// BoundingBox returns min/max lat and lon of a box centered at (lat, lon)
// with the given half-side in kilometers. Used to prefilter candidates
// before exact Haversine checks.
func BoundingBox(lat, lon, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm / 110.574
	lonDelta := radiusKm / (111.320 * math.Cos(degreesToRadians(lat)))
	if lonDelta < 0 {
		lonDelta = -lonDelta
	}
	return lat - latDelta, lat + latDelta, lon - lonDelta, lon + lonDelta
}
