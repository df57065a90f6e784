package eventlog

import "fmt"

// SinkError wraps a storage failure (open, migrate, or write). Per spec.md
// §7, a sink failure aborts the batch rather than silently dropping events.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("eventlog: %v", e.Err) }
func (e *SinkError) Unwrap() error { return e.Err }
