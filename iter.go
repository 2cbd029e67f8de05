package extsort

import (
	"bufio"
	"errors"
	"io"
	"iter"

	"go.uber.org/zap"

	"github.com/outofcore/extsort/queue"
	"github.com/outofcore/extsort/tempfile"
)

// Iter is a lazy, single-pass cursor over the sorted output of one sort.
//
//	it, err := sorter.Sort(input)
//	...
//	defer it.Close()
//	for it.Next() {
//	    use(it.Item())
//	}
//	if err := it.Err(); err != nil { ... }
//
// Consuming the cursor drives the k-way merge; temporary storage is reclaimed
// when the cursor is exhausted, closed, or hits an error. After an error the
// cursor is poisoned: Next keeps returning false and Err keeps returning the
// same error.
//
// Iter is not safe for concurrent use.
type Iter[E any] struct {
	cur    E
	err    error
	closed bool

	// resident output for sorts that never spilled
	resident []E
	pos      int

	// merge frontier over spilled segments
	pq     *queue.PriorityQueue[*mergeSource[E]]
	reader tempfile.TempReader

	count    int
	segments int
	logger   *zap.Logger
}

// newResidentIter wraps an already sorted in-memory run. No temporary storage
// exists on this path.
func newResidentIter[E any](sorted []E, count int, logger *zap.Logger) *Iter[E] {
	return &Iter[E]{
		resident: sorted,
		count:    count,
		logger:   logger,
	}
}

// newMergeIter opens one merge source per segment and preloads its head.
// Sources are pushed in segment order, which keeps the interleaving of
// equal-keyed items reproducible from run to run.
func newMergeIter[E any](reader tempfile.TempReader, decode DecodeFunc[E], compare CompareFunc[E], count int, logger *zap.Logger) (*Iter[E], error) {
	pq := queue.NewPriorityQueue(func(a, b *mergeSource[E]) int {
		return compare(a.next, b.next)
	})
	for i := 0; i < reader.Size(); i++ {
		src := &mergeSource[E]{
			decode: decode,
			reader: reader.Read(i),
		}
		ok, err := src.advance()
		if err != nil {
			reader.Close()
			return nil, err
		}
		if ok {
			pq.Push(src)
		}
	}
	return &Iter[E]{
		pq:       pq,
		reader:   reader,
		count:    count,
		segments: reader.Size(),
		logger:   logger,
	}, nil
}

// Next advances the cursor to the next sorted item.
// It returns false when the output is exhausted, after Close, or once an
// error has occurred; consult Err to tell the cases apart.
func (it *Iter[E]) Next() bool {
	if it.closed || it.err != nil {
		return false
	}

	if it.reader == nil {
		if it.pos >= len(it.resident) {
			it.release()
			return false
		}
		it.cur = it.resident[it.pos]
		it.pos++
		return true
	}

	if it.pq.Len() == 0 {
		it.release()
		return false
	}
	src := it.pq.Peek()
	it.cur = src.next
	ok, err := src.advance()
	switch {
	case err != nil:
		// the current item is still good; the poison surfaces on the next call
		it.err = err
		it.release()
	case ok:
		it.pq.PeekUpdate()
	default:
		it.pq.Pop()
	}
	return true
}

// Item returns the item the cursor currently points at.
// Only valid after a call to Next that returned true.
func (it *Iter[E]) Item() E {
	return it.cur
}

// Err returns the error that poisoned the cursor, or nil.
func (it *Iter[E]) Err() error {
	return it.err
}

// Count returns the total number of items in the sorted output.
func (it *Iter[E]) Count() int {
	return it.count
}

// Segments returns the number of runs that were spilled to temporary storage.
// It is 0 when the whole input fit in one resident run.
func (it *Iter[E]) Segments() int {
	return it.segments
}

// Close releases the cursor and reclaims any temporary storage it still holds.
// Closing is idempotent and happens automatically on exhaustion or error.
func (it *Iter[E]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.resident = nil
	it.pq = nil
	if it.reader != nil {
		err := it.reader.Close()
		it.reader = nil
		if err != nil {
			return NewDiskError(err, "remove segments")
		}
	}
	it.logger.Debug("released sorted output",
		zap.Int("items", it.count),
		zap.Int("segments", it.segments))
	return nil
}

// release is the internal cleanup path; it keeps the first error seen.
func (it *Iter[E]) release() {
	if cerr := it.Close(); cerr != nil && it.err == nil {
		it.err = cerr
	}
}

// All returns the remaining output as a range-over-func sequence of
// (item, error) pairs. On error the final pair carries the error and a zero
// item. The cursor is closed when the sequence stops, even if the caller
// breaks early.
func (it *Iter[E]) All() iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		defer it.Close()
		for it.Next() {
			if !yield(it.Item(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero E
			yield(zero, err)
		}
	}
}

// mergeSource is one open run in the merge frontier, holding the run's next
// undelivered item.
type mergeSource[E any] struct {
	next   E
	reader *bufio.Reader
	decode DecodeFunc[E]
}

// advance loads the source's next item.
// It reports ok=false at a clean end-of-stream and wraps anything else as a
// deserialization failure.
func (m *mergeSource[E]) advance() (bool, error) {
	v, err := m.decode(m.reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, NewDeserializationError(err, "merge")
	}
	m.next = v
	return true, nil
}
