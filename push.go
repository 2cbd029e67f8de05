package extsort

import (
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/outofcore/extsort/tempfile"
)

// PushSorter accumulates pushed items into sorted runs using the same
// fill/seal/spill machinery as Sorter.Sort. It is not safe for concurrent use.
type PushSorter[E any] struct {
	sorter *Sorter[E]
	buf    []E
	writer tempfile.TempWriter
	runs   int
	count  int
	done   bool
}

// Push appends one item. When the run buffer reaches capacity it is sorted
// and spilled to temporary storage. Any error is fatal: the sorter releases
// its temporary storage and rejects further pushes.
func (p *PushSorter[E]) Push(item E) error {
	if p.done {
		return ErrSorterFinished
	}
	p.buf = append(p.buf, item)
	p.count++
	if len(p.buf) >= p.sorter.config.RunSize {
		if err := p.spill(); err != nil {
			p.release()
			return err
		}
	}
	return nil
}

// PushSeq pushes every item of the sequence in order. It can be called
// repeatedly and mixed freely with single Pushes before Finish.
func (p *PushSorter[E]) PushSeq(seq iter.Seq[E]) error {
	for item := range seq {
		if err := p.Push(item); err != nil {
			return err
		}
	}
	return nil
}

// Finish seals the final run and returns the sorted output cursor.
// If nothing was ever spilled the sorted buffer is returned directly and no
// temporary storage is involved. The PushSorter is consumed: all further
// Push and Finish calls return ErrSorterFinished.
func (p *PushSorter[E]) Finish() (*Iter[E], error) {
	if p.done {
		return nil, ErrSorterFinished
	}
	p.done = true
	cfg := &p.sorter.config

	if p.writer == nil {
		p.sortBuffer()
		cfg.Logger.Debug("sort finished resident",
			zap.Int("items", p.count))
		return newResidentIter(p.buf, p.count, cfg.Logger), nil
	}

	if len(p.buf) > 0 {
		if err := p.spill(); err != nil {
			p.closeWriter()
			return nil, err
		}
	}

	reader, err := p.writer.Save()
	p.writer = nil
	if err != nil {
		return nil, NewDiskError(err, "save segments")
	}
	cfg.Logger.Debug("sort finished merging",
		zap.Int("items", p.count),
		zap.Int("segments", p.runs))
	return newMergeIter(reader, p.sorter.decode, p.sorter.compare, p.count, cfg.Logger)
}

// Close abandons the sort and releases any temporary storage.
// It is a no-op after Finish, whose Iter then owns the storage.
func (p *PushSorter[E]) Close() error {
	if p.done {
		return nil
	}
	p.done = true
	p.buf = nil
	if p.writer != nil {
		w := p.writer
		p.writer = nil
		if err := w.Close(); err != nil {
			return NewDiskError(err, "remove segments")
		}
	}
	return nil
}

// spill sorts the run buffer, encodes it as one segment, and resets the buffer.
func (p *PushSorter[E]) spill() error {
	s := p.sorter
	p.sortBuffer()

	if p.writer == nil {
		// temporary storage is created lazily so inputs that fit in one run
		// never allocate any
		w, err := s.config.newTempWriter()
		if err != nil {
			return NewDiskError(err, "create temp storage")
		}
		p.writer = w
	}

	for _, item := range p.buf {
		if err := s.encode(p.writer, item); err != nil {
			return NewSerializationError(err, "spill")
		}
	}
	if _, err := p.writer.Next(); err != nil {
		return NewDiskError(err, "seal segment")
	}
	p.runs++
	s.config.Logger.Debug("spilled run",
		zap.Int("run", p.runs),
		zap.Int("items", len(p.buf)))
	p.buf = p.buf[:0]
	return nil
}

// sortBuffer seals the current run in place under the active ordering rule.
func (p *PushSorter[E]) sortBuffer() {
	s := p.sorter
	if s.config.Parallel && len(p.buf) >= parallelMinSize && s.config.NumWorkers > 1 {
		p.buf = parallelSort(p.buf, s.compare, s.config.NumWorkers)
		return
	}
	slices.SortFunc(p.buf, s.compare)
}

// release drops temp storage after a fatal push error, keeping the first
// error as the one reported to the caller.
func (p *PushSorter[E]) release() {
	p.done = true
	p.buf = nil
	p.closeWriter()
}

func (p *PushSorter[E]) closeWriter() {
	if p.writer == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		p.sorter.config.Logger.Warn("failed to remove temp file", zap.Error(err))
	}
	p.writer = nil
}
