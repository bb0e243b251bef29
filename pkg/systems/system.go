package systems

import (
	"encoding/json"

	"github.com/fleettrace/fleettrace/pkg/fleet"
)

// Canonical keys every extracted record must carry. Everything else in the
// flat record is a provider-specific extra attribute.
const (
	KeyVIN  = "vin"
	KeyLat  = "lat"
	KeyLng  = "lng"
	KeyFuel = "fuel"
)

// System is the capability set a carshare provider adapter has to offer.
// All methods must be deterministic: the same payload always yields the same
// records, with no clock or randomness involved.
type System interface {
	Name() string

	// VehicleList unwraps the provider's outer payload structure and
	// returns the raw per-vehicle records in payload order.
	VehicleList(payload []byte) ([]json.RawMessage, error)

	// Basics cheaply extracts identifier and position from one raw record,
	// for membership and movement checks that don't need a full decode.
	Basics(record json.RawMessage) (vin string, position fleet.Coordinate, err error)

	// Vehicle fully decodes one raw record into a flat mapping holding the
	// canonical keys (vin, lat, lng, fuel) plus the provider's extras.
	// Records within one snapshot must all produce the same key set.
	Vehicle(record json.RawMessage) (map[string]any, error)
}

// Renderer is the optional reverse capability: turning canonical vehicle
// snapshots back into a payload the same system's VehicleList can parse.
// Used for round-trip verification and for regenerating archives.
type Renderer interface {
	RenderPayload(vehicles []*fleet.VehicleSnapshot) ([]byte, error)
}

// StringAttr reads an attribute as a string, tolerating absence.
func StringAttr(attributes map[string]any, key string) string {
	if value, ok := attributes[key].(string); ok {
		return value
	}
	return ""
}

// NumberAttr reads an attribute as a float64, tolerating absence.
func NumberAttr(attributes map[string]any, key string) float64 {
	if value, ok := attributes[key].(float64); ok {
		return value
	}
	return 0
}

// BoolAttr reads an attribute as a bool, tolerating absence.
func BoolAttr(attributes map[string]any, key string) bool {
	if value, ok := attributes[key].(bool); ok {
		return value
	}
	return false
}
