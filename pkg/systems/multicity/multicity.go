package multicity

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

type Payload struct {
	Marker []json.RawMessage `json:"marker"`
}

type Marker struct {
	VIN     string  `json:"vin"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Charge  float64 `json:"charge"`
	Tooltip string  `json:"tooltip"`
}

type System struct{}

func (s System) Name() string {
	return "multicity"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.Marker, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var marker Marker
	if err := json.Unmarshal(record, &marker); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return marker.VIN, fleet.Coordinate{Lat: marker.Lat, Lng: marker.Lng}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var marker Marker
	if err := json.Unmarshal(record, &marker); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  marker.VIN,
		systems.KeyLat:  marker.Lat,
		systems.KeyLng:  marker.Lng,
		systems.KeyFuel: marker.Charge,

		"name": marker.Tooltip,
	}, nil
}
