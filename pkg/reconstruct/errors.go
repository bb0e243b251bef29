package reconstruct

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload marks a snapshot that could not be interpreted as a
// fleet snapshot at all. The batch driver treats these like missing cycles;
// they never abort a run.
var ErrInvalidPayload = errors.New("invalid snapshot payload")

// ContractViolationError reports an adapter contract breach: duplicate
// vehicle identifiers within one snapshot, or a record whose attribute key
// set differs from the snapshot's baseline. Either means incompatible data
// sources were mixed in one run, so the whole run is aborted.
type ContractViolationError struct {
	VIN    string
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("adapter contract violation for vehicle %s: %s", e.VIN, e.Reason)
}
