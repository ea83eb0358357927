/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/suparena/storefront/predicate"
)

// PageRequest selects one window of a filtered result set.
type PageRequest struct {
	// PageIndex is the zero-based page number. Requesting a page past the
	// end of the result set is not an error; it yields an empty window.
	PageIndex int `json:"pageIndex"`
	// PageSize is the maximum number of items per window. Must be positive.
	PageSize int `json:"pageSize"`
}

// PagedResult is the stable paging envelope shared by every paged query.
// TotalItems always reflects the full filtered set, independent of the
// requested window.
type PagedResult[T any] struct {
	PageIndex  int `json:"pageIndex"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	Items      []T `json:"items"`
}

// TotalPages derives the number of non-empty windows in the result set.
func (r *PagedResult[T]) TotalPages() int {
	if r.PageSize <= 0 {
		return 0
	}
	return (r.TotalItems + r.PageSize - 1) / r.PageSize
}

// ListParams bundles the optional arguments accepted by list operations.
type ListParams struct {
	// Predicate filters the result set. Nil matches all.
	Predicate *predicate.Predicate
	// Ordering sorts the result set. Nil means store-defined order, which
	// is not guaranteed stable across calls.
	Ordering predicate.Ordering
	// Include names relations to materialize alongside each entity so a
	// consumer traversing them does not trigger per-entity fetches.
	Include []string
}

// Includes reports whether the named relation was requested.
func (p ListParams) Includes(relation string) bool {
	for _, name := range p.Include {
		if name == relation {
			return true
		}
	}
	return false
}
