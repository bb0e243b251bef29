package stats

import (
	"io"
	"slices"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/gocarina/gocsv"
	"golang.org/x/exp/maps"
)

// TripRow flattens a trip for spreadsheet use, one row per finished trip.
type TripRow struct {
	VIN          string    `csv:"vin"`
	StartingTime time.Time `csv:"starting_time"`
	EndingTime   time.Time `csv:"ending_time"`
	FromLat      float64   `csv:"from_lat"`
	FromLng      float64   `csv:"from_lng"`
	ToLat        float64   `csv:"to_lat"`
	ToLng        float64   `csv:"to_lng"`
	Duration     float64   `csv:"duration"`
	Distance     float64   `csv:"distance"`
	Speed        float64   `csv:"speed"`
	StartingFuel float64   `csv:"starting_fuel"`
	EndingFuel   float64   `csv:"ending_fuel"`
	FuelUse      float64   `csv:"fuel_use"`
}

// WriteTripsCSV exports every finished trip, grouped by vehicle and in
// chronological order within each group.
func WriteTripsCSV(result *fleet.DatasetResult, writer io.Writer) error {
	rows := []*TripRow{}

	vins := maps.Keys(result.FinishedTrips)
	slices.Sort(vins)

	for _, vin := range vins {
		for _, trip := range result.FinishedTrips[vin] {
			rows = append(rows, &TripRow{
				VIN:          trip.VIN,
				StartingTime: trip.StartingTime,
				EndingTime:   trip.EndingTime,
				FromLat:      trip.From.Lat,
				FromLng:      trip.From.Lng,
				ToLat:        trip.To.Lat,
				ToLng:        trip.To.Lng,
				Duration:     trip.Duration,
				Distance:     trip.Distance,
				Speed:        trip.Speed,
				StartingFuel: trip.StartingFuel,
				EndingFuel:   trip.EndingFuel,
				FuelUse:      trip.FuelUse,
			})
		}
	}

	return gocsv.Marshal(rows, writer)
}
