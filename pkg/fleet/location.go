package fleet

import "math"

// EarthRadiusKM is the radius used for all great-circle calculations.
const EarthRadiusKM = 6371

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Equal(other Coordinate) bool {
	return c.Lat == other.Lat && c.Lng == other.Lng
}

// Distance returns the haversine great-circle distance between two points
// in kilometres. Every distance in the codebase must go through this
// function so that trips, stats and proximity sorting agree on the same
// answer for the same two points.
func Distance(from Coordinate, to Coordinate) float64 {
	dLat := deg2rad(to.Lat - from.Lat)
	dLng := deg2rad(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(from.Lat))*math.Cos(deg2rad(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
