// Package internal holds iterator helpers shared by the mips32 packages.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat yields every pair of each sequence in turn.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSeq2Sorted yields the pairs of a sequence in key order. When a key
// repeats, the last value wins.
func IterSeq2Sorted[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		values := maps.Collect(seq)
		for _, key := range slices.Sorted(maps.Keys(values)) {
			if !yield(key, values[key]) {
				return
			}
		}
	}
}
