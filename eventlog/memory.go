package eventlog

import (
	"sync"

	"github.com/scottlawsonbc/pvtrace/trace"
)

// MemorySink accumulates ray/event rows in process memory. Safe for
// concurrent use by TraceBatch's workers. Used by tests and by callers that
// want the event stream without standing up a database.
type MemorySink struct {
	mu     sync.Mutex
	Rays   []RayRow
	Events []EventRow
}

var _ trace.Sink = (*MemorySink)(nil)

func (s *MemorySink) Emit(e trace.Event) error {
	ray, event := toRows(e)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rays = append(s.Rays, ray)
	s.Events = append(s.Events, event)
	return nil
}

// ByThrowID groups every recorded event row by the ray id that produced it,
// in insertion order, for reporting and for comparing two runs of the same
// seed ray by ray.
func (s *MemorySink) ByThrowID() map[int64][]EventRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64][]EventRow)
	for _, e := range s.Events {
		out[e.RayID] = append(out[e.RayID], e)
	}
	return out
}
