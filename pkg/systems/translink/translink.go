package translink

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

// TransLink tracks transit buses, not carshare vehicles: there is no fuel
// reading, so the canonical fuel level is always reported as zero.
type Payload struct {
	Vehicles []json.RawMessage `json:"vehicles"`
}

type Vehicle struct {
	VehicleNo string  `json:"VehicleNo"`
	TripID    float64 `json:"TripId"`
	RouteNo   string  `json:"RouteNo"`
	Direction string  `json:"Direction"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

type System struct{}

func (s System) Name() string {
	return "translink"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.Vehicles, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var vehicle Vehicle
	if err := json.Unmarshal(record, &vehicle); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return vehicle.VehicleNo, fleet.Coordinate{Lat: vehicle.Latitude, Lng: vehicle.Longitude}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var vehicle Vehicle
	if err := json.Unmarshal(record, &vehicle); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  vehicle.VehicleNo,
		systems.KeyLat:  vehicle.Latitude,
		systems.KeyLng:  vehicle.Longitude,
		systems.KeyFuel: float64(0),

		"route_no":  vehicle.RouteNo,
		"direction": vehicle.Direction,
		"trip_id":   vehicle.TripID,
	}, nil
}
