package reconstruct

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
	"github.com/jinzhu/copier"
	"golang.org/x/exp/maps"
)

// Keys handled explicitly by the engine rather than tracked as attributes.
var recognisedKeys = []string{systems.KeyVIN, systems.KeyLat, systems.KeyLng, systems.KeyFuel}

// Attributes known never to change during a trip; tracking them would only
// bloat every trip record.
var ignoredKeys = []string{"name", "license_plate", "address", "model", "color", "fuel_type", "transmission"}

// sampleAttributeKeys determines the extra-attribute schema for a snapshot
// by looking at its first record. All carshare systems report a uniform key
// set within one snapshot; a later record that disagrees indicates merged
// systems and is rejected in extractVehicle.
//
// Known sharp edge, kept for compatibility: if the first record is atypical
// the sampled schema will be too.
func sampleAttributeKeys(system systems.System, first json.RawMessage) ([]string, error) {
	record, err := system.Vehicle(first)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	return attributeKeys(record), nil
}

func attributeKeys(record map[string]any) []string {
	keys := []string{}

	for _, key := range maps.Keys(record) {
		if slices.Contains(recognisedKeys, key) || slices.Contains(ignoredKeys, key) {
			continue
		}
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// extractVehicle fully decodes one record into a canonical snapshot,
// keeping only the sampled attribute keys.
func extractVehicle(system systems.System, raw json.RawMessage, sampledKeys []string) (*fleet.VehicleSnapshot, error) {
	record, err := system.Vehicle(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	vin, ok := record[systems.KeyVIN].(string)
	if !ok {
		return nil, fmt.Errorf("%w: record has no vehicle identifier", ErrInvalidPayload)
	}

	if !slices.Equal(attributeKeys(record), sampledKeys) {
		return nil, &ContractViolationError{
			VIN:    vin,
			Reason: fmt.Sprintf("attribute keys %v differ from snapshot baseline %v", attributeKeys(record), sampledKeys),
		}
	}

	lat, latOK := record[systems.KeyLat].(float64)
	lng, lngOK := record[systems.KeyLng].(float64)
	if !latOK || !lngOK {
		return nil, fmt.Errorf("%w: record for %s has no position", ErrInvalidPayload, vin)
	}

	fuel, _ := record[systems.KeyFuel].(float64)

	attributes := map[string]any{}
	for _, key := range sampledKeys {
		attributes[key] = record[key]
	}

	return &fleet.VehicleSnapshot{
		VIN:        vin,
		Position:   fleet.Coordinate{Lat: lat, Lng: lng},
		Fuel:       fuel,
		Attributes: attributes,
	}, nil
}

// cloneAttributes deep-copies an attribute map so records appended to the
// dataset stay untouched by later state mutation.
func cloneAttributes(attributes map[string]any) map[string]any {
	clone := map[string]any{}

	if err := copier.CopyWithOption(&clone, attributes, copier.Option{DeepCopy: true}); err != nil {
		return maps.Clone(attributes)
	}

	return clone
}
