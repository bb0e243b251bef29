package drivenow

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

// DriveNow nests its vehicle list a couple of levels deep and keys vehicles
// on licence plates rather than VINs.
type Payload struct {
	Cars struct {
		Items []json.RawMessage `json:"items"`
	} `json:"cars"`
}

type Car struct {
	LicensePlate       string  `json:"licensePlate"`
	Name               string  `json:"name"`
	Group              string  `json:"group"`
	Series             string  `json:"series"`
	Color              string  `json:"color"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	FuelLevelInPercent float64 `json:"fuelLevelInPercent"`
	InnerCleanliness   string  `json:"innerCleanliness"`
	IsCharging         bool    `json:"isCharging"`
	EstimatedRange     float64 `json:"estimatedRange"`
}

type System struct{}

func (s System) Name() string {
	return "drivenow"
}

func (s System) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var decoded Payload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, err
	}

	return decoded.Cars.Items, nil
}

func (s System) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return "", fleet.Coordinate{}, err
	}

	return car.LicensePlate, fleet.Coordinate{Lat: car.Latitude, Lng: car.Longitude}, nil
}

func (s System) Vehicle(record json.RawMessage) (map[string]any, error) {
	var car Car
	if err := json.Unmarshal(record, &car); err != nil {
		return nil, err
	}

	return map[string]any{
		systems.KeyVIN:  car.LicensePlate,
		systems.KeyLat:  car.Latitude,
		systems.KeyLng:  car.Longitude,
		systems.KeyFuel: car.FuelLevelInPercent,

		"name":              car.Name,
		"model":             car.Series,
		"color":             car.Color,
		"group":             car.Group,
		"inner_cleanliness": car.InnerCleanliness,
		"is_charging":       car.IsCharging,
		"estimated_range":   car.EstimatedRange,
	}, nil
}

func (s System) RenderPayload(vehicles []*fleet.VehicleSnapshot) ([]byte, error) {
	var payload Payload
	payload.Cars.Items = []json.RawMessage{}

	for _, vehicle := range vehicles {
		car := Car{
			LicensePlate:       vehicle.VIN,
			Latitude:           vehicle.Position.Lat,
			Longitude:          vehicle.Position.Lng,
			FuelLevelInPercent: vehicle.Fuel,
			Group:              systems.StringAttr(vehicle.Attributes, "group"),
			InnerCleanliness:   systems.StringAttr(vehicle.Attributes, "inner_cleanliness"),
			IsCharging:         systems.BoolAttr(vehicle.Attributes, "is_charging"),
			EstimatedRange:     systems.NumberAttr(vehicle.Attributes, "estimated_range"),
		}

		encoded, err := json.Marshal(car)
		if err != nil {
			return nil, err
		}
		payload.Cars.Items = append(payload.Cars.Items, encoded)
	}

	return json.Marshal(payload)
}
