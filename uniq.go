package extsort

import "iter"

// Uniq filters consecutive duplicate items out of a sorted fallible sequence,
// keeping the first occurrence of each distinct item. It assumes the input is
// sorted so that duplicates are adjacent, which makes it suitable for
// post-processing the output of a sort (e.g. it.All()).
// An error in the input terminates the output with that error.
func Uniq[E comparable](seq iter.Seq2[E, error]) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var prior E
		priorSet := false
		for d, err := range seq {
			if err != nil {
				yield(d, err)
				return
			}
			if priorSet && d == prior {
				continue
			}
			priorSet = true
			prior = d
			if !yield(d, nil) {
				return
			}
		}
	}
}
