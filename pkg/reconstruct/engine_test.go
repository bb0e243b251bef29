package reconstruct

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/systems"
	"github.com/fleettrace/fleettrace/pkg/systems/car2go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	downtown = fleet.Coordinate{Lat: 49.28307, Lng: -123.12103}
	eastside = fleet.Coordinate{Lat: 49.27333, Lng: -123.10361}
)

func placemark(t *testing.T, vin string, position fleet.Coordinate, fuel float64) json.RawMessage {
	t.Helper()

	encoded, err := json.Marshal(car2go.Placemark{
		VIN:         vin,
		Coordinates: []float64{position.Lng, position.Lat, 0},
		Fuel:        fuel,
		EngineType:  "ED",
	})
	require.NoError(t, err)

	return encoded
}

func payload(t *testing.T, placemarks ...json.RawMessage) []byte {
	t.Helper()

	if placemarks == nil {
		placemarks = []json.RawMessage{}
	}

	encoded, err := json.Marshal(car2go.Payload{Placemarks: placemarks})
	require.NoError(t, err)

	return encoded
}

func TestFirstObservationOpensParkingAndUnstartedTrip(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	start := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)

	cycle, err := ProcessSnapshot(system, start, start, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)

	require.Contains(t, cycle.UnstartedTrips, "A")
	assert.True(t, cycle.UnstartedTrips["A"].EndingTime.Equal(start))
	assert.Equal(t, 80.0, cycle.UnstartedTrips["A"].EndingFuel)

	require.Contains(t, state.UnfinishedParkings, "A")
	assert.True(t, state.UnfinishedParkings["A"].StartingTime.Equal(start))
	assert.Empty(t, cycle.FinishedTrips)
	assert.Empty(t, cycle.FinishedParkings)
}

func TestParkedVehicleStaysParked(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	start := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)

	_, err := ProcessSnapshot(system, start, start, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)

	next := start.Add(time.Minute)
	cycle, err := ProcessSnapshot(system, next, start, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)

	assert.Empty(t, cycle.FinishedTrips)
	assert.Empty(t, cycle.FinishedParkings)
	assert.Empty(t, cycle.UnstartedTrips)
	assert.True(t, state.UnfinishedParkings["A"].StartingTime.Equal(start), "parking keeps its original start")
}

func TestDepartureAndReturnMakesOneTrip(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	t0 := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	_, err := ProcessSnapshot(system, t0, t0, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)
	_, err = ProcessSnapshot(system, t1, t0, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)

	// Vehicle gone at t2: parking ends at t1, the last cycle it was seen.
	cycle, err := ProcessSnapshot(system, t2, t1, payload(t), state)
	require.NoError(t, err)

	require.Contains(t, cycle.FinishedParkings, "A")
	assert.True(t, cycle.FinishedParkings["A"].EndingTime.Equal(t1))
	assert.Equal(t, 60.0, cycle.FinishedParkings["A"].Duration)

	require.Contains(t, state.UnfinishedTrips, "A")
	assert.True(t, state.UnfinishedTrips["A"].StartingTime.Equal(t1))
	assert.NotContains(t, state.UnfinishedParkings, "A")

	// Vehicle back at t3 somewhere else: the trip closes t1 to t3.
	cycle, err = ProcessSnapshot(system, t3, t2, payload(t, placemark(t, "A", eastside, 72)), state)
	require.NoError(t, err)

	require.Contains(t, cycle.FinishedTrips, "A")
	trip := cycle.FinishedTrips["A"]
	assert.True(t, trip.StartingTime.Equal(t1))
	assert.True(t, trip.EndingTime.Equal(t3))
	assert.Equal(t, 120.0, trip.Duration)
	assert.Equal(t, 8.0, trip.FuelUse)
	assert.InDelta(t, 1.66, trip.Distance, 0.02)

	require.Contains(t, state.UnfinishedParkings, "A")
	assert.True(t, state.UnfinishedParkings["A"].StartingTime.Equal(t3))
	assert.NotContains(t, state.UnfinishedTrips, "A")
}

func TestOneCycleTripIsSynthesised(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	t0 := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	_, err := ProcessSnapshot(system, t0, t0, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)

	// Moved between consecutive cycles: never absent, yet clearly travelled.
	cycle, err := ProcessSnapshot(system, t1, t0, payload(t, placemark(t, "A", eastside, 79)), state)
	require.NoError(t, err)

	require.Contains(t, cycle.FinishedParkings, "A")
	assert.True(t, cycle.FinishedParkings["A"].EndingTime.Equal(t0))

	require.Contains(t, cycle.FinishedTrips, "A")
	trip := cycle.FinishedTrips["A"]
	assert.True(t, trip.StartingTime.Equal(t0))
	assert.True(t, trip.EndingTime.Equal(t1))
	assert.True(t, trip.From.Equal(downtown))
	assert.True(t, trip.To.Equal(eastside))

	assert.True(t, state.UnfinishedParkings["A"].StartingTime.Equal(t1))
}

func TestTripSpanningMissingCyclesKeepsFullDuration(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	t0 := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	_, err := ProcessSnapshot(system, t0, t0, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)
	_, err = ProcessSnapshot(system, t1, t0, payload(t, placemark(t, "A", downtown, 80)), state)
	require.NoError(t, err)

	// Cycles at 9:02 through 9:04 were lost; the vehicle reappears at 9:05.
	// prevT stays at the last good cycle, so nothing gets truncated.
	t5 := t0.Add(5 * time.Minute)
	cycle, err := ProcessSnapshot(system, t5, t1, payload(t, placemark(t, "A", eastside, 70)), state)
	require.NoError(t, err)

	require.Contains(t, cycle.FinishedTrips, "A")
	assert.Equal(t, 240.0, cycle.FinishedTrips["A"].Duration, "trip runs from 9:01 to 9:05")
	require.Contains(t, cycle.FinishedParkings, "A")
	assert.True(t, cycle.FinishedParkings["A"].EndingTime.Equal(t1))
}

func TestDuplicateVINIsContractViolation(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	start := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)

	duplicated := payload(t,
		placemark(t, "A", downtown, 80),
		placemark(t, "A", eastside, 50),
	)

	_, err := ProcessSnapshot(system, start, start, duplicated, state)

	var violation *ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "A", violation.VIN)
}

func TestGarbagePayloadIsInvalidNotFatal(t *testing.T) {
	system := car2go.System{}
	state := NewState()
	start := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)

	_, err := ProcessSnapshot(system, start, start, []byte(`{"placemarks": "nope"}`), state)

	assert.ErrorIs(t, err, ErrInvalidPayload)
}

// mapSystem passes records through untouched, which makes it easy to feed
// the engine records with mismatched attribute keys.
type mapSystem struct{}

func (s mapSystem) Name() string { return "maptest" }

func (s mapSystem) VehicleList(payload []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s mapSystem) Basics(record json.RawMessage) (string, fleet.Coordinate, error) {
	decoded, err := s.Vehicle(record)
	if err != nil {
		return "", fleet.Coordinate{}, err
	}

	vin, _ := decoded[systems.KeyVIN].(string)
	lat, _ := decoded[systems.KeyLat].(float64)
	lng, _ := decoded[systems.KeyLng].(float64)

	return vin, fleet.Coordinate{Lat: lat, Lng: lng}, nil
}

func (s mapSystem) Vehicle(record json.RawMessage) (map[string]any, error) {
	var decoded map[string]any
	if err := json.Unmarshal(record, &decoded); err != nil {
		return nil, err
	}

	return decoded, nil
}

func TestAttributeKeyDriftIsContractViolation(t *testing.T) {
	state := NewState()
	start := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)

	mixed := []byte(`[
		{"vin": "A", "lat": 49.28, "lng": -123.12, "fuel": 80, "charging": false},
		{"vin": "B", "lat": 49.27, "lng": -123.10, "fuel": 60, "cleanliness": "CLEAN"}
	]`)

	_, err := ProcessSnapshot(mapSystem{}, start, start, mixed, state)

	var violation *ContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "B", violation.VIN)
}

func TestStateOpenVINs(t *testing.T) {
	state := NewState()
	state.UnfinishedTrips["C"] = &fleet.TripRecord{VIN: "C"}
	state.UnfinishedParkings["A"] = &fleet.ParkingPeriod{VIN: "A"}
	state.UnfinishedParkings["B"] = &fleet.ParkingPeriod{VIN: "B"}

	assert.Equal(t, []string{"A", "B", "C"}, state.OpenVINs())
}
