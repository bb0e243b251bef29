package stats

import (
	"slices"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
)

// Quartiles describes a distribution the way fleet reports usually want it:
// the five-number summary plus the mean.
type Quartiles struct {
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

type Summary struct {
	System string `json:"system"`
	City   string `json:"city"`

	StartingTime time.Time `json:"starting_time"`
	EndingTime   time.Time `json:"ending_time"`

	Vehicles      int `json:"vehicles"`
	Trips         int `json:"trips"`
	Parkings      int `json:"parkings"`
	MissingCycles int `json:"missing_cycles"`

	TripDuration Quartiles `json:"trip_duration"`
	TripDistance Quartiles `json:"trip_distance"`
	TripFuelUse  Quartiles `json:"trip_fuel_use"`

	ParkingDuration Quartiles `json:"parking_duration"`

	// TimePractical is TripDuration restricted to trips that plausibly moved
	// a customer somewhere: at least five minutes long or further than 500
	// metres. The rest are card checks, repositioning within a parking spot
	// and GPS jitter.
	TimePractical Quartiles `json:"trip_duration_practical"`
}

// Summarise computes fleet-level statistics over every finished trip and
// parking in a dataset. Open entities are excluded, their durations are not
// knowable yet.
func Summarise(result *fleet.DatasetResult) *Summary {
	summary := &Summary{
		System:        result.Metadata.System,
		City:          result.Metadata.City,
		StartingTime:  result.Metadata.StartingTime,
		EndingTime:    result.Metadata.EndingTime,
		MissingCycles: len(result.Metadata.Missing),
	}

	vehicles := map[string]bool{}

	durations := []float64{}
	distances := []float64{}
	fuelUses := []float64{}
	practical := []float64{}

	for vin, trips := range result.FinishedTrips {
		vehicles[vin] = true

		for _, trip := range trips {
			summary.Trips++
			durations = append(durations, trip.Duration)
			distances = append(distances, trip.Distance)
			fuelUses = append(fuelUses, trip.FuelUse)

			if trip.Duration >= 5*60 || trip.Distance >= 0.5 {
				practical = append(practical, trip.Duration)
			}
		}
	}

	parkingDurations := []float64{}
	for vin, parkings := range result.FinishedParkings {
		vehicles[vin] = true

		for _, parking := range parkings {
			summary.Parkings++
			parkingDurations = append(parkingDurations, parking.Duration)
		}
	}

	for vin := range result.UnfinishedTrips {
		vehicles[vin] = true
	}
	for vin := range result.UnfinishedParkings {
		vehicles[vin] = true
	}

	summary.Vehicles = len(vehicles)
	summary.TripDuration = quartiles(durations)
	summary.TripDistance = quartiles(distances)
	summary.TripFuelUse = quartiles(fuelUses)
	summary.ParkingDuration = quartiles(parkingDurations)
	summary.TimePractical = quartiles(practical)

	return summary
}

func quartiles(values []float64) Quartiles {
	if len(values) == 0 {
		return Quartiles{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	sum := 0.0
	for _, value := range sorted {
		sum += value
	}

	return Quartiles{
		Min:    sorted[0],
		P25:    percentile(sorted, 0.25),
		Median: percentile(sorted, 0.50),
		P75:    percentile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(sorted)),
	}
}

// percentile interpolates linearly between the two nearest ranks, matching
// how spreadsheet software computes it.
func percentile(sorted []float64, fraction float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := fraction * float64(len(sorted)-1)
	lower := int(rank)
	if lower == len(sorted)-1 {
		return sorted[lower]
	}

	weight := rank - float64(lower)

	return sorted[lower]*(1-weight) + sorted[lower+1]*weight
}
