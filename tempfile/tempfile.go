// Package tempfile implements virtual temp files that can be written to (in series)
// and then read back (series/parallel) and then removed from the filesystem when done.
// If multiple "tempfiles" are needed on the application layer, they are mapped to
// sections of the same real file on the filesystem. Every section carries an XXH64
// checksum that is verified as it is read back, and sections can optionally be
// zstd-compressed on their way to disk.
package tempfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

const (
	// default file IO buffer size for each section
	defaultBufferSize = 1 << 16 // 64k
)

// filename prefix for files put in the temp directory
var filenamePrefix = fmt.Sprintf("extsort_%d_", os.Getpid())

// ErrChecksum is returned when a section's stored bytes do not match the
// checksum recorded when the section was sealed.
var ErrChecksum = errors.New("tempfile: section checksum mismatch")

type options struct {
	bufferSize  int
	compression bool
}

// Option configures a TempWriter created by New.
type Option func(*options)

// WithCompression enables zstd compression of each section's bytes.
func WithCompression() Option {
	return func(o *options) {
		o.compression = true
	}
}

// WithBufferSize sets the file IO buffer size used for writing and for each
// section reader.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// section records where a sealed section ends in the physical file and the
// checksum of its stored bytes.
type section struct {
	end int64
	sum uint64
}

// FileWriter writes virtual file sections to a single physical temp file.
type FileWriter struct {
	file      *os.File
	bufWriter *bufio.Writer
	digest    *xxhash.Digest
	sink      io.Writer // bufWriter teed into digest
	comp      *zstd.Encoder
	out       io.Writer // comp when compressing, sink otherwise
	opts      options
	sections  []section
	dirty     bool // bytes written since the last Next
}

// New creates a TempWriter backed by a single file in dir.
// If dir is the empty string the platform temp directory is used.
func New(dir string, opt ...Option) (*FileWriter, error) {
	var w FileWriter
	w.opts = options{bufferSize: defaultBufferSize}
	for _, o := range opt {
		o(&w.opts)
	}

	var err error
	w.file, err = os.CreateTemp(dir, filenamePrefix)
	if err != nil {
		return nil, err
	}
	w.bufWriter = bufio.NewWriterSize(w.file, w.opts.bufferSize)
	w.digest = xxhash.New()
	w.sink = io.MultiWriter(w.bufWriter, w.digest)
	w.out = w.sink
	w.sections = make([]section, 0, 10)

	if w.opts.compression {
		w.comp, err = zstd.NewWriter(w.sink,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			w.file.Close()
			os.Remove(w.file.Name())
			return nil, err
		}
		w.out = w.comp
	}

	return &w, nil
}

// Size returns the number of sealed sections.
func (w *FileWriter) Size() int {
	return len(w.sections)
}

// Name returns the path of the backing file.
func (w *FileWriter) Name() string {
	return w.file.Name()
}

// Close stops the tempfile from accepting new data,
// closes the file, and removes the temp file from disk.
// Works like an abort, unrecoverable.
func (w *FileWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	if err != nil {
		return err
	}
	w.sections = nil
	w.bufWriter = nil
	err = os.Remove(w.file.Name())
	w.file = nil
	return err
}

func (w *FileWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w.dirty = true
	}
	return w.out.Write(p)
}

func (w *FileWriter) WriteString(s string) (int, error) {
	if len(s) > 0 {
		w.dirty = true
	}
	return io.WriteString(w.out, s)
}

// Next seals the current section: the compression frame (if any) is finished,
// buffers are flushed, and the section's end offset and checksum are recorded.
func (w *FileWriter) Next() (int64, error) {
	if w.comp != nil {
		if err := w.comp.Close(); err != nil {
			return 0, err
		}
	}
	if err := w.bufWriter.Flush(); err != nil {
		return 0, err
	}
	pos, err := w.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	w.sections = append(w.sections, section{end: pos, sum: w.digest.Sum64()})

	w.digest.Reset()
	if w.comp != nil {
		w.comp.Reset(w.sink)
	}
	w.dirty = false
	return pos, nil
}

// Save seals any open section and returns a TempReader over them all.
// The writer cannot be used after Save returns. On failure the backing file
// is removed so a broken writer never leaks temp storage.
func (w *FileWriter) Save() (reader TempReader, err error) {
	name := w.file.Name()
	defer func() {
		if err != nil {
			w.file.Close()
			os.Remove(name)
			w.file = nil
		}
	}()

	if w.dirty {
		if _, err = w.Next(); err != nil {
			return nil, err
		}
	}
	if err = w.file.Sync(); err != nil {
		return nil, err
	}
	if err = w.file.Close(); err != nil {
		return nil, err
	}
	reader, err = newFileReader(name, w.sections, w.opts)
	if err != nil {
		return nil, err
	}
	w.file = nil
	return reader, nil
}

// FileReader exposes the sealed sections of a FileWriter for reading.
type FileReader struct {
	file     *os.File
	sections []section
	readers  []*bufio.Reader
	decomps  []*zstd.Decoder
}

func newFileReader(filename string, sections []section, opts options) (*FileReader, error) {
	var err error
	var r FileReader
	r.file, err = os.Open(filename)
	if err != nil {
		return nil, err
	}
	r.sections = sections
	r.readers = make([]*bufio.Reader, len(r.sections))

	offset := int64(0)
	for i, sec := range r.sections {
		var src io.Reader = &verifyReader{
			r:      io.NewSectionReader(r.file, offset, sec.end-offset),
			digest: xxhash.New(),
			want:   sec.sum,
		}
		offset = sec.end
		if opts.compression {
			decomp, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
			if err != nil {
				r.file.Close()
				return nil, err
			}
			r.decomps = append(r.decomps, decomp)
			src = decomp
		}
		r.readers[i] = bufio.NewReaderSize(src, opts.bufferSize)
	}

	return &r, nil
}

// Close closes the backing file and removes it from disk.
func (r *FileReader) Close() error {
	if r.file == nil {
		return nil
	}
	for _, d := range r.decomps {
		d.Close()
	}
	r.decomps = nil
	r.readers = nil
	err := r.file.Close()
	if err != nil {
		return err
	}
	err = os.Remove(r.file.Name())
	r.file = nil
	return err
}

// Size returns the number of sections in the reader.
func (r *FileReader) Size() int {
	return len(r.readers)
}

// Read returns a reader for the provided section.
func (r *FileReader) Read(i int) *bufio.Reader {
	if i < 0 || i >= len(r.readers) {
		panic("tempfile: read request out of range")
	}
	return r.readers[i]
}

// Name returns the path of the backing file.
func (r *FileReader) Name() string {
	return r.file.Name()
}

// verifyReader hashes everything read through it and turns a clean EOF into
// ErrChecksum when the stored bytes do not match the recorded digest.
type verifyReader struct {
	r      io.Reader
	digest *xxhash.Digest
	want   uint64
}

func (v *verifyReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	if n > 0 {
		// xxhash.Digest.Write never returns an error
		v.digest.Write(p[:n])
	}
	if err == io.EOF && v.digest.Sum64() != v.want {
		return n, ErrChecksum
	}
	return n, err
}
