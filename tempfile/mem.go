package tempfile

import (
	"bufio"
	"bytes"
	"io"
)

// MemWriter provides an in-memory implementation of the TempWriter interface.
// It stores all data in a bytes.Buffer instead of writing to disk files.
// This is useful for testing and benchmarking without filesystem I/O overhead.
type MemWriter struct {
	data     *bytes.Buffer
	sections []int
	mark     int // length of data at the last Next
}

// memReader provides an in-memory implementation of the TempReader interface.
// It reads data from the bytes.Buffer written by MemWriter, providing
// the same sectioned access pattern as the disk-based implementation.
type memReader struct {
	data     *bytes.Reader
	sections []int
	readers  []*bufio.Reader
}

// Mem creates a new in-memory TempWriter with the specified initial capacity.
// The parameter n sets the initial capacity of the underlying buffer to reduce
// memory reallocations during writing.
func Mem(n int) *MemWriter {
	var m MemWriter
	m.data = bytes.NewBuffer(make([]byte, 0, n))
	return &m
}

// Size returns the number of sealed sections.
func (w *MemWriter) Size() int {
	return len(w.sections)
}

// Close terminates the MemWriter and releases all memory.
// This operation is irreversible and prevents transitioning to read mode.
// Use Save() instead to transition from writing to reading.
func (w *MemWriter) Close() error {
	w.data = nil
	w.sections = nil
	return nil
}

// Write appends data to the current virtual file section in memory.
func (w *MemWriter) Write(p []byte) (int, error) {
	return w.data.Write(p)
}

// WriteString appends string data to the current virtual file section in memory.
func (w *MemWriter) WriteString(s string) (int, error) {
	return w.data.WriteString(s)
}

// Next seals the current section and prepares the writer for the next one.
func (w *MemWriter) Next() (int64, error) {
	pos := w.data.Len()
	w.sections = append(w.sections, pos)
	w.mark = pos
	return int64(pos), nil
}

// Save stops allowing new writes and returns a TempReader for reading the data back.
func (w *MemWriter) Save() (TempReader, error) {
	if w.data.Len() > w.mark {
		if _, err := w.Next(); err != nil {
			return nil, err
		}
	}
	return newMemReader(w.sections, w.data.Bytes()), nil
}

func newMemReader(sections []int, data []byte) *memReader {
	var r memReader
	r.data = bytes.NewReader(data)
	r.sections = sections
	r.readers = make([]*bufio.Reader, len(r.sections))

	offset := 0
	for i, end := range r.sections {
		section := io.NewSectionReader(r.data, int64(offset), int64(end-offset))
		offset = end
		r.readers[i] = bufio.NewReaderSize(section, defaultBufferSize)
	}

	return &r
}

// Close releases the in-memory data.
func (r *memReader) Close() error {
	r.readers = nil
	r.data = nil
	return nil
}

// Size returns the number of sections in the reader.
func (r *memReader) Size() int {
	return len(r.readers)
}

// Read returns a reader for the provided section.
func (r *memReader) Read(i int) *bufio.Reader {
	if i < 0 || i >= len(r.readers) {
		panic("tempfile: read request out of range")
	}
	return r.readers[i]
}
