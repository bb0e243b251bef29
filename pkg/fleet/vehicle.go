package fleet

import (
	"fmt"
	"time"
)

// VehicleSnapshot is one vehicle's state at one sampling cycle, as reported
// by a carshare system. Attributes holds the provider-specific extras that
// can change during a trip (charging state, cleanliness, ...); identity-type
// fields that never change mid-trip are excluded at extraction time.
type VehicleSnapshot struct {
	VIN        string         `json:"vin"`
	Position   Coordinate     `json:"coords"`
	Fuel       float64        `json:"fuel"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// FleetSnapshot is the set of vehicles visible at one timestamp. Vehicles
// keeps the order they appeared in the source payload.
type FleetSnapshot struct {
	Time     time.Time          `json:"time"`
	Vehicles []*VehicleSnapshot `json:"vehicles"`
}

// ByVIN indexes the snapshot by vehicle identifier. Duplicate identifiers
// within one snapshot are an adapter contract violation.
func (fs *FleetSnapshot) ByVIN() (map[string]*VehicleSnapshot, error) {
	byVIN := map[string]*VehicleSnapshot{}

	for _, vehicle := range fs.Vehicles {
		if _, exists := byVIN[vehicle.VIN]; exists {
			return nil, fmt.Errorf("duplicate vehicle %s in snapshot at %s", vehicle.VIN, fs.Time)
		}
		byVIN[vehicle.VIN] = vehicle
	}

	return byVIN, nil
}
