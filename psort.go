package extsort

import (
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/outofcore/extsort/queue"
)

// parallelMinSize is the smallest buffer the parallel sort bothers with;
// below this the goroutine fan-out costs more than it saves.
const parallelMinSize = 1 << 13

// sortedPart is a cursor over one sorted partition during the merge step.
type sortedPart[E any] struct {
	data []E
	pos  int
}

// parallelSort sorts data with up to workers goroutines: the slice is cut
// into near-equal partitions, each partition is sorted concurrently, and the
// sorted partitions are k-way merged. The merged result is returned as a new
// slice; the input slice is used as scratch space.
func parallelSort[E any](data []E, compare CompareFunc[E], workers int) []E {
	if workers > len(data) {
		workers = len(data)
	}
	if workers < 2 {
		slices.SortFunc(data, compare)
		return data
	}

	per := (len(data) + workers - 1) / workers
	parts := make([]*sortedPart[E], 0, workers)
	for start := 0; start < len(data); start += per {
		end := min(start+per, len(data))
		parts = append(parts, &sortedPart[E]{data: data[start:end]})
	}

	var g errgroup.Group
	for _, part := range parts {
		g.Go(func() error {
			slices.SortFunc(part.data, compare)
			return nil
		})
	}
	// the workers return no errors; Wait is just the join barrier
	_ = g.Wait()

	pq := queue.NewPriorityQueue(func(a, b *sortedPart[E]) int {
		return compare(a.data[a.pos], b.data[b.pos])
	})
	for _, part := range parts {
		pq.Push(part)
	}

	out := make([]E, 0, len(data))
	for pq.Len() > 0 {
		part := pq.Peek()
		out = append(out, part.data[part.pos])
		part.pos++
		if part.pos < len(part.data) {
			pq.PeekUpdate()
		} else {
			pq.Pop()
		}
	}
	return out
}
