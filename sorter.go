// Package extsort implements an unstable external sort for sequences whose
// total volume may exceed available memory.
// extsort is NOT a stable sort.
//
// Input is buffered into runs of at most Config.RunSize items. Each run is
// sorted in memory (optionally in parallel) and, once the input outgrows a
// single run, spilled to temporary storage. The sorted output is produced
// lazily by a k-way merge over all spilled runs plus the final resident run.
// Inputs that fit in a single run are returned straight from memory and never
// touch the filesystem.
//
// Serialization is left to the caller: every sorter is built from an
// EncodeFunc/DecodeFunc pair that round-trips one item through a byte stream.
package extsort

import (
	"cmp"
	"iter"
)

// Sorter holds the configuration and ordering rule for external sorts of
// items of type E. A Sorter is itself stateless; each call to Sort or
// PushSorter runs an independent sort.
type Sorter[E any] struct {
	config  Config
	encode  EncodeFunc[E]
	decode  DecodeFunc[E]
	compare CompareFunc[E]
}

// New returns a Sorter that orders items with the given compare function.
// encode and decode round-trip one item through temporary storage.
// config may be nil to use the defaults, or only set the non-default values desired.
func New[E any](encode EncodeFunc[E], decode DecodeFunc[E], compare CompareFunc[E], config *Config) *Sorter[E] {
	return &Sorter[E]{
		config:  *mergeConfig(config),
		encode:  encode,
		decode:  decode,
		compare: compare,
	}
}

// NewByKey returns a Sorter that orders items by a key extracted from each
// item, with keys compared by their natural order.
func NewByKey[E any, K cmp.Ordered](encode EncodeFunc[E], decode DecodeFunc[E], key KeyFunc[E, K], config *Config) *Sorter[E] {
	return New(encode, decode, func(a, b E) int {
		return cmp.Compare(key(a), key(b))
	}, config)
}

// NewOrdered returns a Sorter for naturally ordered types using gob
// serialization, so no codec needs to be supplied.
func NewOrdered[E cmp.Ordered](config *Config) *Sorter[E] {
	return New(EncodeGob[E], DecodeGob[E], cmp.Compare[E], config)
}

// NewStrings returns a Sorter for strings in lexicographic order using a
// built-in length-prefixed codec.
func NewStrings(config *Config) *Sorter[string] {
	return New(EncodeString, DecodeString, cmp.Compare[string], config)
}

// Sort consumes the input sequence and returns a single-pass cursor over the
// items in sorted order. Errors hit while consuming or spilling the input are
// returned here; errors hit while merging surface from the cursor itself.
//
// The caller must drain or Close the returned Iter, otherwise temporary
// storage is not reclaimed.
func (s *Sorter[E]) Sort(seq iter.Seq[E]) (*Iter[E], error) {
	p := s.PushSorter()
	if err := p.PushSeq(seq); err != nil {
		p.Close()
		return nil, err
	}
	return p.Finish()
}

// PushSorter returns a push-based entry point for producers that cannot be
// expressed as a pull sequence. Push items as they are generated, then call
// Finish to obtain the sorted cursor.
func (s *Sorter[E]) PushSorter() *PushSorter[E] {
	return &PushSorter[E]{
		sorter: s,
		buf:    make([]E, 0, s.config.RunSize),
	}
}
