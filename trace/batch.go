package trace

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/scottlawsonbc/pvtrace/lightsource"
)

// BatchStats summarises the terminal outcomes of a batch, so a caller can
// judge whether the killed fraction biases the result (spec.md §4.7's
// diagnostic requirement).
type BatchStats struct {
	Traced   uint64
	Exited   uint64
	Killed   uint64
	Absorbed uint64
	Errored  uint64
}

// sourceBinding pairs a light source with the scene-graph node that emits
// it, so TraceBatch can apply the node's world transform to a local-frame
// Sample before handing it to the engine.
type sourceBinding struct {
	nodeIndex int
	nodeName  string
	source    *lightsource.Source
}

// job is one unit of work handed to a TraceBatch worker: a single light
// source sample already assigned its monotonic ray ID.
type job struct {
	id     int64
	sample lightsource.Sample
	source *sourceBinding
}

// TraceBatch runs every remaining sample from each of sources to completion,
// distributing rays across a fixed number of workers. Per spec.md §5,
// scheduling is per-ray parallelism over a read-only scene: each worker owns
// a *rand.Rand seeded deterministically from (seed, worker index), so the
// same (seed, workers) pair reproduces an identical event stream regardless
// of how the OS schedules goroutines. sink must be safe for concurrent use
// by up to `workers` goroutines; the engine itself does not serialise
// access to it.
func (e *Engine) TraceBatch(ctx context.Context, sources []*lightsource.Source, seed int64, workers int, sink Sink) (BatchStats, error) {
	if workers <= 0 {
		workers = 1
	}

	bindings := make([]*sourceBinding, 0, len(sources))
	for _, src := range sources {
		idx, name := -1, ""
		for i := range e.Scene.Nodes {
			if e.Scene.Nodes[i].Light == src {
				idx, name = i, e.Scene.Nodes[i].Name
				break
			}
		}
		bindings = append(bindings, &sourceBinding{nodeIndex: idx, nodeName: name, source: src})
	}

	// Each worker reads from its own channel so that which ray a given
	// worker traces is determined by the ray's ID, not by goroutine
	// scheduling: a shared work-stealing queue would make the
	// (seed, workers) -> event log mapping depend on runtime timing, which
	// spec.md §5's reproducibility requirement rules out.
	queues := make([]chan job, workers)
	for i := range queues {
		queues[i] = make(chan job, 1)
	}
	var nextID int64
	var stats BatchStats
	var firstErr error
	var errOnce sync.Once
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerIndex int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed*int64(workers) + int64(workerIndex) + 1))
			for j := range queues[workerIndex] {
				if ctx.Err() != nil {
					return
				}
				ray := e.assembleRay(j)
				kind, err := e.TraceOne(ray, sink, rng)
				atomic.AddUint64(&stats.Traced, 1)
				switch {
				case err != nil:
					atomic.AddUint64(&stats.Errored, 1)
					// A degenerate ray has already recorded its Error event;
					// only that ray is lost and the batch goes on.
					if _, degenerate := err.(*NumericalDegeneracyError); degenerate {
						continue
					}
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
				case kind == Exit:
					atomic.AddUint64(&stats.Exited, 1)
				case kind == Kill:
					atomic.AddUint64(&stats.Killed, 1)
				case kind == Absorb:
					atomic.AddUint64(&stats.Absorbed, 1)
				}
			}
		}(w)
	}

	// The feeder goroutine owns every source's emission sequence and a
	// single generator RNG; sources themselves are not safe for concurrent
	// Emit calls, so only this goroutine ever calls Emit. Rays are handed
	// out round-robin by ID so the same ray always lands on the same
	// worker for a given worker count.
	go func() {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()
		genRNG := rand.New(rand.NewSource(seed))
		for _, b := range bindings {
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				sample, ok := b.source.Emit(genRNG)
				if !ok {
					break
				}
				id := atomic.AddInt64(&nextID, 1)
				queue := queues[(id-1)%int64(workers)]
				select {
				case queue <- job{id: id, sample: sample, source: b}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	wg.Wait()
	if firstErr != nil {
		return stats, firstErr
	}
	return stats, ctx.Err()
}

// assembleRay applies j.source's node world transform to a local-frame
// Sample and stamps the result with the ray ID and source name, producing
// the Ray that GENERATE starts from.
func (e *Engine) assembleRay(j job) Ray {
	sample := j.sample
	position := sample.Position
	direction := sample.Direction
	if j.source.nodeIndex >= 0 {
		world := e.Scene.WorldTransform(j.source.nodeIndex)
		position = world.ApplyToPoint(position)
		direction = world.ApplyToVector(direction).Unit()
	}
	return Ray{
		ID:           j.id,
		Position:     position,
		Direction:    direction,
		WavelengthNM: sample.WavelengthNM,
		Source:       j.source.nodeName,
		Alive:        true,
	}
}
