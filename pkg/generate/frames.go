package generate

import (
	"fmt"
	"slices"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
	"github.com/sourcegraph/conc/iter"
)

// Frame is one regenerated snapshot: the payload the carshare system would
// have served at that cycle, rebuilt from reconstructed activity.
type Frame struct {
	Time    time.Time
	Payload []byte
}

// BuildFrames regenerates the snapshot series a dataset was reconstructed
// from. A vehicle is visible at a cycle exactly when one of its parking
// periods covers it; vehicles mid-trip are off the map, which is precisely
// what made the trip reconstructable in the first place.
//
// Only systems with a payload renderer can be regenerated.
func BuildFrames(system systems.System, result *fleet.DatasetResult) ([]Frame, error) {
	renderer, ok := system.(systems.Renderer)
	if !ok {
		return nil, fmt.Errorf("system %s cannot render snapshot payloads", system.Name())
	}

	step := time.Duration(result.Metadata.TimeStep * float64(time.Second))
	if step <= 0 {
		return nil, fmt.Errorf("dataset has no usable sampling interval")
	}

	missing := map[time.Time]bool{}
	for _, t := range result.Metadata.Missing {
		missing[t] = true
	}

	parkings := parkingsByVIN(result)

	cycles := []time.Time{}
	for t := result.Metadata.StartingTime; !t.After(result.Metadata.EndingTime); t = t.Add(step) {
		if missing[t] {
			continue
		}
		cycles = append(cycles, t)
	}

	frames, err := iter.MapErr(cycles, func(t *time.Time) (Frame, error) {
		payload, err := renderer.RenderPayload(vehiclesAt(*t, parkings))
		if err != nil {
			return Frame{}, fmt.Errorf("rendering cycle %s: %w", *t, err)
		}

		return Frame{Time: *t, Payload: payload}, nil
	})
	if err != nil {
		return nil, err
	}

	return frames, nil
}

// parkingsByVIN flattens a dataset to every parking period it contains, open
// ones included, keyed by vehicle.
func parkingsByVIN(result *fleet.DatasetResult) map[string][]*fleet.ParkingPeriod {
	parkings := map[string][]*fleet.ParkingPeriod{}

	for vin, periods := range result.FinishedParkings {
		parkings[vin] = append(parkings[vin], periods...)
	}
	for vin, period := range result.UnfinishedParkings {
		parkings[vin] = append(parkings[vin], period)
	}

	return parkings
}

func vehiclesAt(t time.Time, parkings map[string][]*fleet.ParkingPeriod) []*fleet.VehicleSnapshot {
	vehicles := []*fleet.VehicleSnapshot{}

	for vin, periods := range parkings {
		for _, period := range periods {
			if !covers(period, t) {
				continue
			}

			vehicles = append(vehicles, &fleet.VehicleSnapshot{
				VIN:        vin,
				Position:   period.Position,
				Fuel:       period.Fuel,
				Attributes: period.Attributes,
			})

			break
		}
	}

	slices.SortFunc(vehicles, func(a *fleet.VehicleSnapshot, b *fleet.VehicleSnapshot) int {
		if a.VIN < b.VIN {
			return -1
		}
		if a.VIN > b.VIN {
			return 1
		}

		return 0
	})

	return vehicles
}

// covers is inclusive on both ends: a vehicle is still present on the cycle
// its parking ends on, since the departure only becomes visible one cycle
// later. An open parking covers everything from its start onward.
func covers(period *fleet.ParkingPeriod, t time.Time) bool {
	if t.Before(period.StartingTime) {
		return false
	}
	if period.EndingTime.IsZero() {
		return true
	}

	return !t.After(period.EndingTime)
}
