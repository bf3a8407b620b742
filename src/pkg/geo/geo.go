package geo

import "math"

// EarthRadiusKm is Earth's radius in kilometers for the Haversine formula.
const EarthRadiusKm = 6371.0

// MinutesPerKm is the flat delivery-time heuristic: 20 km/h average speed.
const MinutesPerKm = 3.0

// DistanceKm calculates the great-circle distance in kilometers between two
// points given in decimal degrees, using the Haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// EstimatedMinutes converts a distance to a delivery estimate in whole
// minutes. Not a routing engine, just distance times MinutesPerKm.
func EstimatedMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm * MinutesPerKm))
}
