/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package predicate

import "sort"

// Term orders by a single attribute.
type Term struct {
	Field      string
	Descending bool
}

// Ordering is an ordered list of sort terms. A nil or empty Ordering means
// store-defined order, which is not guaranteed stable across calls.
type Ordering []Term

// By starts an ascending ordering on field.
func By(field string) Ordering {
	return Ordering{{Field: field}}
}

// ByDesc starts a descending ordering on field.
func ByDesc(field string) Ordering {
	return Ordering{{Field: field, Descending: true}}
}

// Then appends an ascending tiebreaker.
func (o Ordering) Then(field string) Ordering {
	return append(o, Term{Field: field})
}

// ThenDesc appends a descending tiebreaker.
func (o Ordering) ThenDesc(field string) Ordering {
	return append(o, Term{Field: field, Descending: true})
}

// Sort stably sorts items in place according to the ordering. A nil or
// empty ordering leaves the slice untouched. Attributes that are absent or
// mutually incomparable keep their relative order.
func Sort[T any](o Ordering, items []T) {
	if len(o) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return o.less(items[i], items[j])
	})
}

func (o Ordering) less(a, b any) bool {
	for _, term := range o {
		av, aok := Attr(a, term.Field)
		bv, bok := Attr(b, term.Field)
		if !aok || !bok {
			continue
		}
		cmp, ok := compareValues(av, bv)
		if !ok || cmp == 0 {
			continue
		}
		if term.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}
