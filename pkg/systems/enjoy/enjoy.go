package enjoy

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

type Payload struct {
	Cars []json.RawMessage `json:"car_list"`
}

type Car struct {
	CarPlate   string  `json:"car_plate"`
	CarName    string  `json:"car_name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	FuelLevel  float64 `json:"fuel_level"`
	Virtual    bool    `json:"virtual_rental"`
	OnlineData bool    `json:"car_category_online"`
}

type System struct{}

func (s System) Name() string {
	return "enjoy"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.Cars, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return car.CarPlate, fleet.Coordinate{Lat: car.Lat, Lng: car.Lon}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  car.CarPlate,
		systems.KeyLat:  car.Lat,
		systems.KeyLng:  car.Lon,
		systems.KeyFuel: car.FuelLevel,

		"name":           car.CarName,
		"virtual_rental": car.Virtual,
	}, nil
}
