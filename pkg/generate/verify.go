package generate

import (
	"errors"
	"time"

	"github.com/fleettrace/fleettrace/pkg/fleet"
	"github.com/fleettrace/fleettrace/pkg/reconstruct/batch"
	"github.com/fleettrace/fleettrace/pkg/snapshots"
	"github.com/fleettrace/fleettrace/pkg/systems"
	"github.com/kr/pretty"
)

// memorySource serves regenerated frames back to the batch driver without
// a round trip through the filesystem.
type memorySource struct {
	frames map[time.Time][]byte
	last   time.Time
}

func newMemorySource(frames []Frame) *memorySource {
	source := &memorySource{frames: map[time.Time][]byte{}}

	for _, frame := range frames {
		source.frames[frame.Time] = frame.Payload
		if frame.Time.After(source.last) {
			source.last = frame.Time
		}
	}

	return source
}

func (s *memorySource) Load(t time.Time) ([]byte, bool) {
	payload, exists := s.frames[t]

	return payload, exists
}

func (s *memorySource) LastTimestamp() (time.Time, error) {
	if s.last.IsZero() {
		return time.Time{}, errors.New("no frames generated")
	}

	return s.last, nil
}

func (s *memorySource) Close() error {
	return nil
}

var _ snapshots.Source = (*memorySource)(nil)

// Verify regenerates a dataset's snapshots, reconstructs them again and
// diffs the two datasets. An empty diff means the reconstruct/generate pair
// loses nothing but the attribute fields excluded from regeneration.
func Verify(system systems.System, result *fleet.DatasetResult) ([]string, error) {
	frames, err := BuildFrames(system, result)
	if err != nil {
		return nil, err
	}

	source := newMemorySource(frames)

	// Unlimited skip tolerance: gaps in the original data reappear as gaps
	// in the regenerated series and must not cut the run short.
	rebuilt, err := batch.Run(system, source, batch.Options{
		City:    result.Metadata.City,
		Start:   result.Metadata.StartingTime,
		End:     result.Metadata.EndingTime,
		Step:    time.Duration(result.Metadata.TimeStep * float64(time.Second)),
		MaxSkip: -1,
	})
	if err != nil {
		return nil, err
	}

	differences := []string{}
	differences = append(differences, pretty.Diff(result.FinishedTrips, rebuilt.FinishedTrips)...)
	differences = append(differences, pretty.Diff(result.FinishedParkings, rebuilt.FinishedParkings)...)
	differences = append(differences, pretty.Diff(result.UnfinishedTrips, rebuilt.UnfinishedTrips)...)
	differences = append(differences, pretty.Diff(result.UnfinishedParkings, rebuilt.UnfinishedParkings)...)
	differences = append(differences, pretty.Diff(result.UnstartedTrips, rebuilt.UnstartedTrips)...)
	differences = append(differences, pretty.Diff(result.Metadata.Missing, rebuilt.Metadata.Missing)...)

	return differences, nil
}
