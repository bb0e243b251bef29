package fleet

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetResultJSONRoundTrip(t *testing.T) {
	start := time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC)

	original := NewDatasetResult()
	original.Metadata = Metadata{
		System:       "car2go",
		City:         "vancouver",
		StartingTime: start,
		EndingTime:   start.Add(10 * time.Minute),
		TimeStep:     60,
		Missing:      []time.Time{start.Add(3 * time.Minute)},
	}

	trip := &TripRecord{
		VIN:          "WME4533421K767942",
		From:         Coordinate{Lat: 49.28307, Lng: -123.12103},
		StartingTime: start,
		StartingFuel: 80,
		Start:        map[string]any{"engine_type": "ED"},
	}
	trip.Close(start.Add(5*time.Minute), Coordinate{Lat: 49.27333, Lng: -123.10361}, 78, map[string]any{"engine_type": "ED"})
	original.FinishedTrips[trip.VIN] = []*TripRecord{trip}

	original.UnfinishedParkings["WME4533421K767943"] = &ParkingPeriod{
		VIN:          "WME4533421K767943",
		Position:     Coordinate{Lat: 49.28, Lng: -123.12},
		Fuel:         42,
		StartingTime: start,
	}

	original.UnstartedTrips["WME4533421K767944"] = &UnstartedTrip{
		VIN:        "WME4533421K767944",
		To:         Coordinate{Lat: 49.29, Lng: -123.13},
		EndingTime: start,
		EndingFuel: 100,
	}

	var buffer bytes.Buffer
	require.NoError(t, original.WriteJSON(&buffer))

	decoded, err := ReadDatasetResult(&buffer)
	require.NoError(t, err)

	assert.Equal(t, original.Metadata.System, decoded.Metadata.System)
	assert.True(t, original.Metadata.StartingTime.Equal(decoded.Metadata.StartingTime))
	assert.Len(t, decoded.FinishedTrips["WME4533421K767942"], 1)
	assert.Equal(t, trip.Distance, decoded.FinishedTrips["WME4533421K767942"][0].Distance)
	assert.Equal(t, "ED", decoded.FinishedTrips["WME4533421K767942"][0].Start["engine_type"])
	assert.True(t, decoded.UnfinishedParkings["WME4533421K767943"].EndingTime.IsZero())
	assert.Len(t, decoded.Metadata.Missing, 1)
}

func TestDatasetResultOpenEntitiesOmitEndings(t *testing.T) {
	result := NewDatasetResult()
	result.UnfinishedTrips["X"] = &TripRecord{
		VIN:          "X",
		From:         Coordinate{Lat: 1, Lng: 2},
		StartingTime: time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC),
	}

	var buffer bytes.Buffer
	require.NoError(t, result.WriteJSON(&buffer))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))

	trip := decoded["unfinished_trips"].(map[string]any)["X"].(map[string]any)
	assert.NotContains(t, trip, "ending_time", "open trips serialise without an ending")
	assert.NotContains(t, trip, "speed")
}

func TestFleetSnapshotByVINDetectsDuplicates(t *testing.T) {
	snapshot := &FleetSnapshot{
		Time: time.Date(2015, 6, 19, 9, 0, 0, 0, time.UTC),
		Vehicles: []*VehicleSnapshot{
			{VIN: "A", Position: Coordinate{Lat: 1, Lng: 2}},
			{VIN: "A", Position: Coordinate{Lat: 3, Lng: 4}},
		},
	}

	_, err := snapshot.ByVIN()
	assert.Error(t, err)
}
