package evo

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

type Payload struct {
	Data []json.RawMessage `json:"data"`
}

type Car struct {
	ID          string  `json:"Id"`
	Name        string  `json:"Name"`
	Lat         float64 `json:"Lat"`
	Lon         float64 `json:"Lon"`
	Fuel        float64 `json:"Fuel"`
	ChargeState string  `json:"ChargeState"`
}

type System struct{}

func (s System) Name() string {
	return "evo"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.Data, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return car.ID, fleet.Coordinate{Lat: car.Lat, Lng: car.Lon}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  car.ID,
		systems.KeyLat:  car.Lat,
		systems.KeyLng:  car.Lon,
		systems.KeyFuel: car.Fuel,

		"name":         car.Name,
		"charge_state": car.ChargeState,
	}, nil
}
