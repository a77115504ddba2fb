// Package listing derives filtered views of fetched collections.
package listing

import (
	"slices"
	"strings"
)

// Predicate reports whether an item stays in the view. A nil Predicate is an
// inactive filter.
type Predicate[T any] func(T) bool

// Filter keeps items matching every active predicate. The input is never
// modified; with no active predicates a copy of items is returned.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
outer:
	for _, it := range items {
		for _, p := range preds {
			if p != nil && !p(it) {
				continue outer
			}
		}
		out = append(out, it)
	}
	return out
}

// Contains matches when any field contains query, case-insensitively.
func Contains[T any](query string, fields ...func(T) string) Predicate[T] {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return func(it T) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(it)), q) {
				return true
			}
		}
		return false
	}
}

// Equals matches on exact value; the zero value (usually "all") disables it.
func Equals[T any, V comparable](want V, get func(T) V) Predicate[T] {
	var zero V
	if want == zero {
		return nil
	}
	return func(it T) bool { return get(it) == want }
}

// Between is an inclusive range; a nil bound is open.
func Between[T any](min, max *int64, get func(T) int64) Predicate[T] {
	if min == nil && max == nil {
		return nil
	}
	return func(it T) bool {
		v := get(it)
		if min != nil && v < *min {
			return false
		}
		if max != nil && v > *max {
			return false
		}
		return true
	}
}

// ActiveState filters on "active" or "inactive"; anything else is "all".
func ActiveState[T any](state string, get func(T) bool) Predicate[T] {
	switch state {
	case "active":
		return func(it T) bool { return get(it) }
	case "inactive":
		return func(it T) bool { return !get(it) }
	}
	return nil
}

// Sorted returns a stably sorted copy.
func Sorted[T any](items []T, cmp func(a, b T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, cmp)
	return out
}

// Sum adds up get over items.
func Sum[T any](items []T, get func(T) int64) int64 {
	var total int64
	for _, it := range items {
		total += get(it)
	}
	return total
}

// Count returns how many items match p.
func Count[T any](items []T, p Predicate[T]) int {
	n := 0
	for _, it := range items {
		if p == nil || p(it) {
			n++
		}
	}
	return n
}
