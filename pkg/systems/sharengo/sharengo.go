package sharengo

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

// Sharengo returns the vehicle list at the top level of the payload.
type Car struct {
	ID        float64 `json:"id"`
	Plate     string  `json:"plate"`
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Battery   float64 `json:"battery"`
	Busy      bool    `json:"busy"`
}

type System struct{}

func (s System) Name() string {
	return "sharengo"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return car.Plate, fleet.Coordinate{Lat: car.Latitude, Lng: car.Longitude}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  car.Plate,
		systems.KeyLat:  car.Latitude,
		systems.KeyLng:  car.Longitude,
		systems.KeyFuel: car.Battery,

		"name": car.Label,
		"busy": car.Busy,
	}, nil
}
