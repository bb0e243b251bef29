package batch

import (
	"errors"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/reconstruct"
	"github.com/fleettrace/fleettrace/pkg/snapshots"
	"github.com/fleettrace/fleettrace/pkg/systems"
	"github.com/rs/zerolog/log"
)

type Options struct {
	City string

	Start time.Time
	// End bounds the run; zero means "up to the last available snapshot".
	// An End beyond the available data is clamped to it.
	End time.Time

	// Step is the sampling interval.
	Step time.Duration

	// MaxSkip is how many consecutive missing or malformed cycles to
	// tolerate before concluding the data has run out. Negative means
	// unlimited.
	MaxSkip int
}

// Run drives the reconstruction engine across the requested range, strictly
// in increasing timestamp order, one cycle at a time. Cycles are never
// processed concurrently: each cycle's transitions depend on the open-state
// maps left behind by the previous one.
func Run(system systems.System, source snapshots.Source, opts Options) (*fleet.DatasetResult, error) {
	if opts.Step <= 0 {
		return nil, errors.New("sampling interval must be positive")
	}

	result := fleet.NewDatasetResult()
	result.Metadata = fleet.Metadata{
		System:              system.Name(),
		City:                opts.City,
		StartingTime:        opts.Start,
		RequestedEndingTime: opts.End,
		TimeStep:            opts.Step.Seconds(),
		Missing:             []time.Time{},
	}

	end := opts.End
	if lastAvailable, err := source.LastTimestamp(); err == nil {
		if end.IsZero() || end.After(lastAvailable) {
			end = lastAvailable
		}
	} else if end.IsZero() {
		return nil, err
	}

	state := reconstruct.NewState()

	// prevT tracks the previous cycle that actually yielded data. Until the
	// first good cycle it holds the starting time, which doubles as the
	// ending time of an empty run.
	prevT := opts.Start
	consecutiveMisses := 0
	processed := 0

	for t := opts.Start; !t.After(end); t = t.Add(opts.Step) {
		payload, ok := source.Load(t)
		if !ok {
			// Transient: record the cycle as missing and move on. prevT
			// deliberately stays put, so a trip straddling the gap is
			// reported with its full elapsed duration.
			log.Debug().Time("cycle", t).Msg("Snapshot missing or malformed")
			result.Metadata.Missing = append(result.Metadata.Missing, t)

			consecutiveMisses++
			if opts.MaxSkip >= 0 && consecutiveMisses > opts.MaxSkip {
				log.Info().Time("cycle", t).Int("maxSkip", opts.MaxSkip).Msg("Too many consecutive missing cycles, stopping early")
				break
			}
			continue
		}
		consecutiveMisses = 0

		cycle, err := reconstruct.ProcessSnapshot(system, t, prevT, payload, state)
		if err != nil {
			if errors.Is(err, reconstruct.ErrInvalidPayload) {
				log.Debug().Time("cycle", t).Err(err).Msg("Snapshot not usable")
				result.Metadata.Missing = append(result.Metadata.Missing, t)

				consecutiveMisses++
				if opts.MaxSkip >= 0 && consecutiveMisses > opts.MaxSkip {
					break
				}
				continue
			}

			// Contract violations mean mixed data sources; stop the run.
			return nil, err
		}

		for vin, unstarted := range cycle.UnstartedTrips {
			result.UnstartedTrips[vin] = unstarted
		}
		for vin, parking := range cycle.FinishedParkings {
			result.FinishedParkings[vin] = append(result.FinishedParkings[vin], parking)
		}
		for vin, trip := range cycle.FinishedTrips {
			result.FinishedTrips[vin] = append(result.FinishedTrips[vin], trip)
		}

		prevT = t
		processed++
	}

	// Whatever is still open stays open; the next adjacent run (or a merge)
	// picks it up from here.
	result.UnfinishedTrips = state.UnfinishedTrips
	result.UnfinishedParkings = state.UnfinishedParkings
	result.Metadata.EndingTime = prevT

	log.Info().
		Str("system", system.Name()).
		Str("city", opts.City).
		Int("cycles", processed).
		Int("missing", len(result.Metadata.Missing)).
		Time("start", opts.Start).
		Time("end", prevT).
		Msg("Batch reconstruction complete")

	return result, nil
}
