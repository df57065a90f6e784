package eventlog

import (
	"testing"

	"github.com/scottlawsonbc/pvtrace/r3"
	"github.com/scottlawsonbc/pvtrace/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySinkRecordsRayAndEventRows(t *testing.T) {
	sink := &MemorySink{}
	err := sink.Emit(trace.Event{
		Kind:      trace.Hit,
		Hit:       "lens",
		Container: "world",
		Adjacent:  "lens",
		Facet:     "+x",
		Normal:    r3.Vec{X: 1},
		Ray: trace.Ray{
			ID:           7,
			Position:     r3.Point{X: 1, Y: 2, Z: 3},
			Direction:    r3.Vec{X: 1},
			WavelengthNM: 555,
			Source:       "sun",
		},
	})
	require.NoError(t, err)
	require.Len(t, sink.Rays, 1)
	require.Len(t, sink.Events, 1)

	assert.Equal(t, int64(7), sink.Rays[0].ThrowID)
	assert.Equal(t, 1.0, sink.Rays[0].X)
	assert.Equal(t, "sun", sink.Rays[0].Source)
	assert.Equal(t, "HIT", sink.Events[0].Kind)
	assert.Equal(t, "lens", sink.Events[0].Hit)
	assert.Equal(t, 1.0, sink.Events[0].NI)
}

func TestMemorySinkGroupsByThrowID(t *testing.T) {
	sink := &MemorySink{}
	for _, id := range []int64{1, 2, 1} {
		require.NoError(t, sink.Emit(trace.Event{Kind: trace.Generate, Ray: trace.Ray{ID: id}}))
	}
	grouped := sink.ByThrowID()
	assert.Len(t, grouped[1], 2)
	assert.Len(t, grouped[2], 1)
}

func TestOpenSQLiteSinkMigratesAndWrites(t *testing.T) {
	dir := t.TempDir()
	sink, err := OpenSQLiteSink(dir + "/events.db")
	require.NoError(t, err)
	defer sink.Close()

	err = sink.Emit(trace.Event{
		Kind:      trace.Exit,
		Container: "world",
		Ray:       trace.Ray{ID: 1, WavelengthNM: 555, Source: "sun"},
	})
	require.NoError(t, err)
}
