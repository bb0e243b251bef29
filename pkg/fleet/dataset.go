package fleet

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// DatasetResult is the accumulated output of one batch reconstruction run.
// Finished sequences are append-only and in chronological order; the
// unfinished maps hold whatever was still open when the range ended.
type DatasetResult struct {
	FinishedTrips    map[string][]*TripRecord    `json:"finished_trips"`
	FinishedParkings map[string][]*ParkingPeriod `json:"finished_parkings"`

	UnfinishedTrips    map[string]*TripRecord    `json:"unfinished_trips"`
	UnfinishedParkings map[string]*ParkingPeriod `json:"unfinished_parkings"`

	UnstartedTrips map[string]*UnstartedTrip `json:"unstarted_trips"`

	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	System string `json:"system"`
	City   string `json:"city"`

	StartingTime time.Time `json:"starting_time"`
	// EndingTime is the last cycle actually processed, which can fall short
	// of RequestedEndingTime when the data runs out early.
	EndingTime          time.Time `json:"ending_time"`
	RequestedEndingTime time.Time `json:"requested_ending_time,omitzero"`

	// TimeStep is the sampling interval in seconds.
	TimeStep float64 `json:"time_step"`

	// Missing lists the cycle timestamps for which no usable snapshot was
	// found.
	Missing []time.Time `json:"missing"`
}

func NewDatasetResult() *DatasetResult {
	return &DatasetResult{
		FinishedTrips:      map[string][]*TripRecord{},
		FinishedParkings:   map[string][]*ParkingPeriod{},
		UnfinishedTrips:    map[string]*TripRecord{},
		UnfinishedParkings: map[string]*ParkingPeriod{},
		UnstartedTrips:     map[string]*UnstartedTrip{},
	}
}

// WriteJSON serialises the result with ISO-8601 dates and full-precision
// floats, the interchange format consumed by merge, stats and generate.
func (d *DatasetResult) WriteJSON(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(d)
}

func ReadDatasetResult(reader io.Reader) (*DatasetResult, error) {
	result := NewDatasetResult()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(result); err != nil {
		return nil, err
	}

	return result, nil
}

func LoadDatasetResult(path string) (*DatasetResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadDatasetResult(file)
}
