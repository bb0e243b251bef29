package car2go

import (
	"encoding/json"
	"errors"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

// Payload as returned by the car2go availability endpoint: a flat list of
// "placemarks" with coordinates in GeoJSON lng,lat order.
type Payload struct {
	Placemarks []json.RawMessage `json:"placemarks"`
}

type Placemark struct {
	VIN         string    `json:"vin"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates"`
	Fuel        float64   `json:"fuel"`
	EngineType  string    `json:"engineType"`
	Exterior    string    `json:"exterior"`
	Interior    string    `json:"interior"`
}

type System struct{}

func (s System) Name() string {
	return "car2go"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.Placemarks, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	placemark, err := decodePlacemark(record)
	if err != nil {
		return "", fleet.Coordinate{}, err
	}

	return placemark.VIN, fleet.Coordinate{Lat: placemark.Coordinates[1], Lng: placemark.Coordinates[0]}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	placemark, err := decodePlacemark(record)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  placemark.VIN,
		systems.KeyLat:  placemark.Coordinates[1],
		systems.KeyLng:  placemark.Coordinates[0],
		systems.KeyFuel: placemark.Fuel,

		"name":        placemark.Name,
		"address":     placemark.Address,
		"engine_type": placemark.EngineType,
		"exterior":    placemark.Exterior,
		"interior":    placemark.Interior,
	}, nil
}

// RenderPayload rebuilds a placemarks payload from canonical snapshots.
// Identity attributes that extraction filters out (name, address) are not
// part of the canonical record and render as empty strings.
func (s System) RenderPayload(vehicles []*fleet.VehicleSnapshot) ([]byte, error) {
	placemarks := []json.RawMessage{}

	for _, vehicle := range vehicles {
		placemark := Placemark{
			VIN:         vehicle.VIN,
			Coordinates: []float64{vehicle.Position.Lng, vehicle.Position.Lat, 0},
			Fuel:        vehicle.Fuel,
			EngineType:  systems.StringAttr(vehicle.Attributes, "engine_type"),
			Exterior:    systems.StringAttr(vehicle.Attributes, "exterior"),
			Interior:    systems.StringAttr(vehicle.Attributes, "interior"),
		}

		encoded, err := json.Marshal(placemark)
		if err != nil {
			return nil, err
		}
		placemarks = append(placemarks, encoded)
	}

	return json.Marshal(Payload{Placemarks: placemarks})
}

func decodePlacemark(record json.RawMessage) (*Placemark, error) {
	var placemark Placemark
	if err := json.Unmarshal(record, &placemark); err != nil {
		return nil, err
	}

	if len(placemark.Coordinates) < 2 {
		return nil, errors.New("placemark has no coordinates")
	}

	return &placemark, nil
}
