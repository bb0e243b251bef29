package stats

import (
	"slices"

	"github.com/fleettrace/fleettrace/pkg/fleet"
)

type VehicleDistance struct {
	Vehicle *fleet.VehicleSnapshot `json:"vehicle"`
	// Distance is the great-circle distance in kilometres.
	Distance float64 `json:"distance"`
}

// NearestVehicles ranks a snapshot's vehicles by distance from a point and
// returns the closest ones, at most limit. Ties break on vehicle identifier
// so results are stable.
func NearestVehicles(snapshot *fleet.FleetSnapshot, point fleet.Coordinate, limit int) []VehicleDistance {
	ranked := make([]VehicleDistance, 0, len(snapshot.Vehicles))

	for _, vehicle := range snapshot.Vehicles {
		ranked = append(ranked, VehicleDistance{
			Vehicle:  vehicle,
			Distance: fleet.Distance(point, vehicle.Position),
		})
	}

	slices.SortFunc(ranked, func(a VehicleDistance, b VehicleDistance) int {
		if a.Distance != b.Distance {
			if a.Distance < b.Distance {
				return -1
			}

			return 1
		}

		if a.Vehicle.VIN < b.Vehicle.VIN {
			return -1
		}
		if a.Vehicle.VIN > b.Vehicle.VIN {
			return 1
		}

		return 0
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
