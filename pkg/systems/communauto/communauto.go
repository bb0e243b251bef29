package communauto

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

type Payload struct {
	D struct {
		Vehicles []json.RawMessage `json:"Vehicles"`
	} `json:"d"`
}

type Vehicle struct {
	CarPlate    string  `json:"CarPlate"`
	CarBrand    string  `json:"CarBrand"`
	CarModel    string  `json:"CarModel"`
	CarColor    string  `json:"CarColor"`
	Latitude    float64 `json:"Latitude"`
	Longitude   float64 `json:"Longitude"`
	EnergyLevel float64 `json:"EnergyLevel"`
}

type System struct{}

func (s System) Name() string {
	return "communauto"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.D.Vehicles, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var vehicle Vehicle
	if err := json.Unmarshal(record, &vehicle); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return vehicle.CarPlate, fleet.Coordinate{Lat: vehicle.Latitude, Lng: vehicle.Longitude}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var vehicle Vehicle
	if err := json.Unmarshal(record, &vehicle); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  vehicle.CarPlate,
		systems.KeyLat:  vehicle.Latitude,
		systems.KeyLng:  vehicle.Longitude,
		systems.KeyFuel: vehicle.EnergyLevel,

		"license_plate": vehicle.CarPlate,
		"model":         vehicle.CarModel,
		"color":         vehicle.CarColor,
		"brand":         vehicle.CarBrand,
	}, nil
}
