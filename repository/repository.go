/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"context"

	"github.com/suparena/storefront/predicate"
	"github.com/suparena/storefront/storagemodels"
)

// Repository is the generic entity-store contract. One implementation
// serves any entity type T; entity-specific behavior (key shape, update
// allow-list, relations) comes from the registered descriptor for T.
type Repository[T any] interface {
	// GetByID retrieves a single entity by identity. Filters and ordering
	// do not apply. Returns a NotFound error when absent.
	GetByID(ctx context.Context, id string) (*T, error)

	// Exists reports whether any entity matches the predicate. A nil
	// predicate means "any entity at all".
	Exists(ctx context.Context, p *predicate.Predicate) (bool, error)

	// Count returns the number of entities matching the predicate. A nil
	// predicate counts everything.
	Count(ctx context.Context, p *predicate.Predicate) (int, error)

	// List returns every matching entity. The caller accepts an unbounded
	// result; use ListPaged to window.
	List(ctx context.Context, params storagemodels.ListParams) ([]T, error)

	// ListPaged returns one window of the filtered result set. The total
	// is computed over the whole filtered set before windowing, and
	// ordering applies before windowing. Without an explicit ordering the
	// window contents are not guaranteed stable across calls.
	ListPaged(ctx context.Context, page storagemodels.PageRequest, params storagemodels.ListParams) (*storagemodels.PagedResult[T], error)

	// Create persists a new entity, assigning identity when unset and
	// stamping the audit timestamps. A supplied identity that already
	// exists yields a Conflict error.
	Create(ctx context.Context, entity T) (*T, error)

	// Update mutates the entity with the given identity. Only fields in
	// the descriptor's allow-list are applied; identity and the creation
	// timestamp are immutable regardless of the payload. The last-updated
	// timestamp is bumped. Returns NotFound when the identity is absent.
	Update(ctx context.Context, id string, changes map[string]any) error

	// Delete removes the entity with the given identity, cascading
	// transactionally through relations flagged CascadeDelete: either the
	// parent and all dependents go, or nothing does. Returns NotFound when
	// the identity is absent.
	Delete(ctx context.Context, id string) error

	// Save flushes pending mutations and returns the number of affected
	// records. Both provided backends commit per operation, so Save is a
	// no-op returning 0; it exists for stores that batch writes.
	Save(ctx context.Context) (int, error)
}
