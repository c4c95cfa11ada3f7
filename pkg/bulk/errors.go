package bulk

import "fmt"

// PoolError names the pool whose fetch or parse aborted a bundle. The
// fan-out is fail-fast: the first unrecoverable pool failure cancels
// outstanding work and surfaces here.
type PoolError struct {
	PoolID string
	Err    error
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("pool %s: %v", e.PoolID, e.Err)
}

func (e *PoolError) Unwrap() error {
	return e.Err
}

// NotYetAvailableError means the results endpoint has nothing to serve
// yet: the pool round has not closed. Callers can safely retry later.
type NotYetAvailableError struct {
	EventID string
	RoundID string
	Err     error
}

func (e *NotYetAvailableError) Error() string {
	return fmt.Sprintf("pool results not yet available for event %s round %s", e.EventID, e.RoundID)
}

func (e *NotYetAvailableError) Unwrap() error {
	return e.Err
}
