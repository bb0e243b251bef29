package reconstruct

import (
	"fmt"
	"slices"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
	"golang.org/x/exp/maps"
)

// State holds the per-vehicle machine state between cycles. A vehicle is
// either parked or on a trip, never both; a vehicle in neither map has not
// been seen yet.
type State struct {
	UnfinishedTrips    map[string]*fleet.TripRecord
	UnfinishedParkings map[string]*fleet.ParkingPeriod
}

func NewState() *State {
	return &State{
		UnfinishedTrips:    map[string]*fleet.TripRecord{},
		UnfinishedParkings: map[string]*fleet.ParkingPeriod{},
	}
}

// CycleResult is what one snapshot's processing produced: entities that
// became final during this cycle.
type CycleResult struct {
	FinishedTrips    map[string]*fleet.TripRecord
	FinishedParkings map[string]*fleet.ParkingPeriod
	UnstartedTrips   map[string]*fleet.UnstartedTrip
}

// ProcessSnapshot advances every vehicle's state machine by one cycle.
//
// t is when the snapshot was captured; prevT is the previous successfully
// processed cycle, which can be more than one interval earlier when cycles
// in between were missing. A parking period ends on prevT (the last time
// the vehicle was actually seen stationary) and a new one starts on t; a
// trip therefore runs from prevT to the t it was seen to have ended on.
//
// The state maps are mutated in place. Contract violations (duplicate
// vehicle ids, attribute key drift) abort with a *ContractViolationError.
func ProcessSnapshot(system systems.System, t time.Time, prevT time.Time, payload []byte, state *State) (*CycleResult, error) {
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

	result := &CycleResult{
		FinishedTrips:    map[string]*fleet.TripRecord{},
		FinishedParkings: map[string]*fleet.ParkingPeriod{},
		UnstartedTrips:   map[string]*fleet.UnstartedTrip{},
	}

	presentVINs := map[string]bool{}

	for _, record := range records {
		vin, position, err := system.Basics(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
		}

		if presentVINs[vin] {
			return nil, &ContractViolationError{VIN: vin, Reason: "duplicate vehicle id in snapshot"}
		}
		presentVINs[vin] = true

		openTrip, moving := state.UnfinishedTrips[vin]
		openParking, parked := state.UnfinishedParkings[vin]

		// Most of the time none of the branches below fire - most cars sit
		// parked for many cycles in a row.

		switch {
		case !moving && !parked:
			// First time we're seeing this vehicle: it is returning from a
			// trip that started before observation began.
			vehicle, err := extractVehicle(system, record, sampledKeys)
			if err != nil {
				return nil, err
			}

			result.UnstartedTrips[vin] = endUnstartedTrip(t, vehicle)
			state.UnfinishedParkings[vin] = startParking(t, vehicle)

		case moving:
			// The trip has just finished.
			vehicle, err := extractVehicle(system, record, sampledKeys)
			if err != nil {
				return nil, err
			}

			delete(state.UnfinishedTrips, vin)
			openTrip.Close(t, vehicle.Position, vehicle.Fuel, cloneAttributes(vehicle.Attributes))
			result.FinishedTrips[vin] = openTrip

			state.UnfinishedParkings[vin] = startParking(t, vehicle)

		case !position.Equal(openParking.Position):
			// The vehicle moved, but the trip took exactly one cycle, so
			// the departure was never visible as an absence. Synthesise
			// the whole park-end/trip/park-start sequence at once.
			vehicle, err := extractVehicle(system, record, sampledKeys)
			if err != nil {
				return nil, err
			}

			openParking.Close(prevT)
			result.FinishedParkings[vin] = openParking

			trip := startTrip(prevT, openParking)
			trip.Close(t, vehicle.Position, vehicle.Fuel, cloneAttributes(vehicle.Attributes))
			result.FinishedTrips[vin] = trip

			state.UnfinishedParkings[vin] = startParking(t, vehicle)
		}

		// Parked and unmoved: nothing to do, the driver's prevT bookkeeping
		// covers "last seen".
	}

	// Every parked vehicle absent from this snapshot has just started a
	// trip. It was last seen stationary at prevT, so both the parking end
	// and the trip start are pinned there, not at t.
	departed := []string{}
	for vin := range state.UnfinishedParkings {
		if !presentVINs[vin] {
			departed = append(departed, vin)
		}
	}
	slices.Sort(departed)

	for _, vin := range departed {
		openParking := state.UnfinishedParkings[vin]
		delete(state.UnfinishedParkings, vin)

		openParking.Close(prevT)
		result.FinishedParkings[vin] = openParking

		state.UnfinishedTrips[vin] = startTrip(prevT, openParking)
	}

	return result, nil
}

func startParking(t time.Time, vehicle *fleet.VehicleSnapshot) *fleet.ParkingPeriod {
	// Vehicle properties don't change while parked, so a single attribute
	// capture at the start is enough.
	return &fleet.ParkingPeriod{
		VIN:          vehicle.VIN,
		Position:     vehicle.Position,
		Fuel:         vehicle.Fuel,
		StartingTime: t,
		Attributes:   cloneAttributes(vehicle.Attributes),
	}
}

func startTrip(t time.Time, endedParking *fleet.ParkingPeriod) *fleet.TripRecord {
	return &fleet.TripRecord{
		VIN:          endedParking.VIN,
		From:         endedParking.Position,
		StartingTime: t,
		StartingFuel: endedParking.Fuel,
		Start:        cloneAttributes(endedParking.Attributes),
	}
}

func endUnstartedTrip(t time.Time, vehicle *fleet.VehicleSnapshot) *fleet.UnstartedTrip {
	return &fleet.UnstartedTrip{
		VIN:        vehicle.VIN,
		To:         vehicle.Position,
		EndingTime: t,
		EndingFuel: vehicle.Fuel,
		End:        cloneAttributes(vehicle.Attributes),
	}
}

// OpenVINs lists every vehicle currently known to the state, parked or on a
// trip, in sorted order.
func (s *State) OpenVINs() []string {
	vins := append(maps.Keys(s.UnfinishedTrips), maps.Keys(s.UnfinishedParkings)...)
	slices.Sort(vins)

	return vins
}
