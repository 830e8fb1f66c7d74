package core

// MissingToken marks absent fields in analysis prompts and rendered
// snapshots
const MissingToken = "DATA_MISSING"

// State tags the outcome of a single fetch operation
type State int

const (
	// StateOK means the value was retrieved successfully
	StateOK State = iota

	// StateMissing means the upstream legitimately has no value
	// (e.g. open interest for a spot-only pair)
	StateMissing

	// StateFailed means the fetch was attempted and failed
	StateFailed
)

// Result is a tagged fetch outcome: a value, a legitimate absence,
// or a failure with its cause
type Result[T any] struct {
	State State
	Value T
	Err   error
}

// OK wraps a successfully fetched value
func OK[T any](value T) Result[T] {
	return Result[T]{State: StateOK, Value: value}
}

// Missing marks a legitimately absent value
func Missing[T any]() Result[T] {
	return Result[T]{State: StateMissing}
}

// Failed marks a fetch failure with its cause
func Failed[T any](err error) Result[T] {
	return Result[T]{State: StateFailed, Err: err}
}

// IsOK reports whether the result carries a value
func (r Result[T]) IsOK() bool { return r.State == StateOK }
