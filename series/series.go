package series

import (
	"fmt"
	"math"
	"sort"
)

// Series is one raw input: a sequence of (time, value) samples in seconds.
// Time may be unsorted, duplicated or irregular; Values may hold NaN or ±Inf.
// No two series are assumed to share length or sampling.
type Series struct {
	ID     string    `json:"id"`
	Time   []float64 `json:"time"`
	Values []float64 `json:"values"`
}

// New builds a Series after checking that both arrays have the same length.
func New(id string, t, v []float64) (Series, error) {
	if len(t) != len(v) {
		return Series{}, fmt.Errorf("series %q: %d times vs %d values: %w", id, len(t), len(v), ErrLengthMismatch)
	}

	return Series{ID: id, Time: t, Values: v}, nil
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Values) }

// Validate checks the structural invariant len(Time) == len(Values).
func (s Series) Validate() error {
	if len(s.Time) != len(s.Values) {
		return fmt.Errorf("series %q: %d times vs %d values: %w", s.ID, len(s.Time), len(s.Values), ErrLengthMismatch)
	}

	return nil
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// CountFinite returns how many entries of xs are finite.
func CountFinite(xs []float64) int {
	n := 0
	for _, x := range xs {
		if IsFinite(x) {
			n++
		}
	}

	return n
}

// IsSorted reports whether t is non-decreasing. NaN timestamps make it false.
func IsSorted(t []float64) bool {
	for i := 1; i < len(t); i++ {
		if !(t[i-1] <= t[i]) {
			return false
		}
	}

	return true
}

// SortOrder returns the permutation that stably sorts t ascending.
// NaN timestamps are placed last, in their original relative order.
func SortOrder(t []float64) []int {
	order := make([]int, len(t))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := t[order[a]], t[order[b]]
		if math.IsNaN(tb) {
			return !math.IsNaN(ta)
		}

		return ta < tb
	})

	return order
}

// Permute returns a fresh slice with xs[order[i]] at position i.
func Permute(xs []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for i, j := range order {
		out[i] = xs[j]
	}

	return out
}

// Bounds returns the smallest and largest finite timestamp of t.
// ok is false when t carries no finite timestamp.
func Bounds(t []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range t {
		if !IsFinite(x) {
			continue
		}
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		ok = true
	}

	return lo, hi, ok
}

// SortedIDs returns the keys of m in ascending order, for deterministic iteration.
func SortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
