package trace

import "fmt"

// NumericalDegeneracyError marks a ray aborted due to a geometrical or
// numerical impossibility that is a programmer error, not a user error: a
// zero-length direction, a NaN wavelength, or an intersection list that came
// back empty while the ray was supposedly still inside the world. The ray
// is killed with a distinguished error event so the rest of the batch can
// proceed.
type NumericalDegeneracyError struct {
	RayID  int64
	Reason string
}

func (e *NumericalDegeneracyError) Error() string {
	return fmt.Sprintf("trace: numerical degeneracy on ray %d: %s", e.RayID, e.Reason)
}

// SinkError wraps a failure returned by a Sink. Per spec it is surfaced to
// the caller and the whole batch is aborted, rather than silently dropping
// events.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("trace: sink error: %v", e.Err) }
func (e *SinkError) Unwrap() error { return e.Err }
