package extsort

import (
	"bufio"
	"io"
)

// EncodeFunc serializes one item of type E to w.
// It is called once per item while a sorted run is spilled to temporary
// storage, in sorted order. Any error aborts the sort.
type EncodeFunc[E any] func(w io.Writer, item E) error

// DecodeFunc reads the next item of type E from r.
// It must return io.EOF, and no item, once the stream holds no further items;
// this is how the reader tells clean exhaustion apart from corruption.
// A partially readable item must be reported as an error (io.ErrUnexpectedEOF
// or similar), never as io.EOF. The reader passed in is buffered and
// implements io.ByteReader.
type DecodeFunc[E any] func(r *bufio.Reader) (E, error)

// CompareFunc compares two items of type E.
// It must implement a valid total order: reflexivity, antisymmetry, and transitivity.
// Returns a negative integer if a orders before b, zero if they are equal,
// and a positive integer if a orders after b in the final sorted output.
// It must be safe for concurrent use; the parallel sort path calls it from
// multiple goroutines. This follows the same semantics as cmp.Compare and can
// be implemented using cmp.Compare[T] for ordered types.
type CompareFunc[E any] func(a, b E) int

// KeyFunc extracts a naturally ordered sort key from an item of type E.
// Items are then ordered by cmp.Compare over their keys.
type KeyFunc[E any, K any] func(item E) K
