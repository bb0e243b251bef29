package batch

import (
	"fmt"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/rs/zerolog/log"
)

// Merge combines two datasets over adjacent time ranges into one equivalent
// to a single run over the combined range. a must end where b begins.
//
// The interesting part is the seam: entities left open at the end of a are
// reconciled against the first observations of b, which b necessarily
// recorded as unstarted trips since it had no earlier state to draw on.
func Merge(a *fleet.DatasetResult, b *fleet.DatasetResult) (*fleet.DatasetResult, error) {
	if a.Metadata.System != b.Metadata.System || a.Metadata.City != b.Metadata.City {
		return nil, fmt.Errorf("datasets describe different fleets: %s/%s vs %s/%s",
			a.Metadata.System, a.Metadata.City, b.Metadata.System, b.Metadata.City)
	}
	if a.Metadata.TimeStep != b.Metadata.TimeStep {
		return nil, fmt.Errorf("datasets have different sampling intervals: %gs vs %gs",
			a.Metadata.TimeStep, b.Metadata.TimeStep)
	}
	if b.Metadata.StartingTime.Before(a.Metadata.EndingTime) {
		return nil, fmt.Errorf("datasets overlap: first ends %s, second starts %s",
			a.Metadata.EndingTime, b.Metadata.StartingTime)
	}

	merged := fleet.NewDatasetResult()
	merged.Metadata = fleet.Metadata{
		System:              a.Metadata.System,
		City:                a.Metadata.City,
		StartingTime:        a.Metadata.StartingTime,
		EndingTime:          b.Metadata.EndingTime,
		RequestedEndingTime: b.Metadata.RequestedEndingTime,
		TimeStep:            a.Metadata.TimeStep,
		Missing:             append(append([]time.Time{}, a.Metadata.Missing...), b.Metadata.Missing...),
	}

	for vin, trips := range a.FinishedTrips {
		merged.FinishedTrips[vin] = append(merged.FinishedTrips[vin], trips...)
	}
	for vin, parkings := range a.FinishedParkings {
		merged.FinishedParkings[vin] = append(merged.FinishedParkings[vin], parkings...)
	}
	for vin, unstarted := range a.UnstartedTrips {
		merged.UnstartedTrips[vin] = unstarted
	}

	// Open state carries over from a until the seam reconciliation below
	// proves otherwise.
	openTrips := map[string]*fleet.TripRecord{}
	for vin, trip := range a.UnfinishedTrips {
		openTrips[vin] = trip
	}
	openParkings := map[string]*fleet.ParkingPeriod{}
	for vin, parking := range a.UnfinishedParkings {
		openParkings[vin] = parking
	}

	// stitched tracks b parkings whose real start precedes the seam; they
	// replace a's still-open parking for the same vehicle. stitchAt is when
	// b first saw the vehicle, identifying which of its parkings to backdate.
	stitched := map[string]*fleet.ParkingPeriod{}
	stitchAt := map[string]time.Time{}

	step := time.Duration(b.Metadata.TimeStep * float64(time.Second))
	missing := map[time.Time]bool{}
	for _, t := range b.Metadata.Missing {
		missing[t] = true
	}

	// Whether b could actually have observed the vehicle before firstSeen.
	// When every earlier cycle was missing, a vehicle first seen standing
	// where a left it never moved at all.
	observableBefore := func(firstSeen time.Time) bool {
		for t := b.Metadata.StartingTime; t.Before(firstSeen); t = t.Add(step) {
			if !missing[t] {
				return true
			}
		}

		return false
	}

	for vin, unstarted := range b.UnstartedTrips {
		if openTrip, moving := openTrips[vin]; moving {
			// a saw the departure, b saw the arrival.
			delete(openTrips, vin)
			openTrip.Close(unstarted.EndingTime, unstarted.To, unstarted.EndingFuel, unstarted.End)
			merged.FinishedTrips[vin] = append(merged.FinishedTrips[vin], openTrip)

			continue
		}

		if openParking, parked := openParkings[vin]; parked {
			if unstarted.To.Equal(openParking.Position) && !observableBefore(unstarted.EndingTime) {
				// The vehicle sat still across the seam. b's parking really
				// started back when a first saw it stand there.
				stitched[vin] = openParking
				stitchAt[vin] = unstarted.EndingTime
				delete(openParkings, vin)

				continue
			}

			// The vehicle left after a's last cycle and b caught it arriving.
			delete(openParkings, vin)
			openParking.Close(a.Metadata.EndingTime)
			merged.FinishedParkings[vin] = append(merged.FinishedParkings[vin], openParking)

			trip := &fleet.TripRecord{
				VIN:          vin,
				From:         openParking.Position,
				StartingTime: a.Metadata.EndingTime,
				StartingFuel: openParking.Fuel,
				Start:        openParking.Attributes,
			}
			trip.Close(unstarted.EndingTime, unstarted.To, unstarted.EndingFuel, unstarted.End)
			merged.FinishedTrips[vin] = append(merged.FinishedTrips[vin], trip)

			continue
		}

		// Genuinely never seen before the seam either.
		merged.UnstartedTrips[vin] = unstarted
	}

	// Vehicles a last saw parked that b never saw at all must have departed
	// right after a ended and stayed out.
	for vin, openParking := range openParkings {
		openParking.Close(a.Metadata.EndingTime)
		merged.FinishedParkings[vin] = append(merged.FinishedParkings[vin], openParking)

		openTrips[vin] = &fleet.TripRecord{
			VIN:          vin,
			From:         openParking.Position,
			StartingTime: a.Metadata.EndingTime,
			StartingFuel: openParking.Fuel,
			Start:        openParking.Attributes,
		}
	}

	for vin, trips := range b.FinishedTrips {
		merged.FinishedTrips[vin] = append(merged.FinishedTrips[vin], trips...)
	}
	for vin, parkings := range b.FinishedParkings {
		for _, parking := range parkings {
			if original, ok := stitched[vin]; ok && parking.StartingTime.Equal(stitchAt[vin]) {
				restartParking(parking, original)
				delete(stitched, vin)
			}

			merged.FinishedParkings[vin] = append(merged.FinishedParkings[vin], parking)
		}
	}

	for vin, trip := range b.UnfinishedTrips {
		openTrips[vin] = trip
	}
	merged.UnfinishedTrips = openTrips

	merged.UnfinishedParkings = map[string]*fleet.ParkingPeriod{}
	for vin, parking := range b.UnfinishedParkings {
		if original, ok := stitched[vin]; ok && parking.StartingTime.Equal(stitchAt[vin]) {
			restartParking(parking, original)
			delete(stitched, vin)
		}

		merged.UnfinishedParkings[vin] = parking
	}

	log.Info().
		Str("system", merged.Metadata.System).
		Str("city", merged.Metadata.City).
		Time("start", merged.Metadata.StartingTime).
		Time("end", merged.Metadata.EndingTime).
		Msg("Merged adjacent datasets")

	return merged, nil
}

// restartParking backdates a post-seam parking to the pre-seam one it
// continues, keeping the attributes captured when the vehicle first stopped.
func restartParking(parking *fleet.ParkingPeriod, original *fleet.ParkingPeriod) {
	parking.StartingTime = original.StartingTime
	parking.Fuel = original.Fuel
	parking.Attributes = original.Attributes

	if !parking.EndingTime.IsZero() {
		parking.Duration = parking.EndingTime.Sub(parking.StartingTime).Seconds()
	}
}
