// Package reorder implements the single-element move used when a block is
// dragged to a new position.
package reorder

import "slices"

// Move relocates the element at from so that it ends up at index to.
//
// The element is removed first and then inserted at to in the shortened
// slice, so moving forward lands the element after the one that shifted into
// the target slot. The input is never modified. Indices must be within
// [0, len(seq)); callers validate them.
func Move[T any](seq []T, from, to int) []T {
	out := slices.Clone(seq)
	if from == to {
		return out
	}
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// InRange reports whether both indices address an element of a sequence of
// length n.
func InRange(n, from, to int) bool {
	return from >= 0 && from < n && to >= 0 && to < n
}
