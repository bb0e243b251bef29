package reconstruct

import (
	"fmt"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
)

// ParseSnapshot decodes one payload into canonical vehicle snapshots without
// advancing any state machine. Used by the pieces that look at a single
// moment: nearest-vehicle queries, payload inspection.
func ParseSnapshot(system systems.System, t time.Time, payload []byte) (*fleet.FleetSnapshot, error) {
	records, err := system.VehicleList(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}

	var sampledKeys []string
	if len(records) > 0 {
		sampledKeys, err = sampleAttributeKeys(system, records[0])
		if err != nil {
			return nil, err
		}
	}

	snapshot := &fleet.FleetSnapshot{Time: t}

	for _, record := range records {
		vehicle, err := extractVehicle(system, record, sampledKeys)
		if err != nil {
			return nil, err
		}

		snapshot.Vehicles = append(snapshot.Vehicles, vehicle)
	}

	if _, err := snapshot.ByVIN(); err != nil {
		return nil, err
	}

	return snapshot, nil
}
