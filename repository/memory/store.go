/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides the in-memory Repository implementation used by
// tests and local runs.
package memory

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/predicate"
	"github.com/suparena/storefront/registry"
	"github.com/suparena/storefront/repository"
	"github.com/suparena/storefront/storagemodels"
)

// Store is a shared in-memory backing store holding one table per entity
// type. A single mutex guards all tables, which makes cascade deletes
// atomic with respect to concurrent readers.
type Store struct {
	mu      sync.RWMutex
	tables  map[string]map[string]any
	failure error
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		tables: make(map[string]map[string]any),
	}
}

// FailWith makes every subsequent operation fail as StoreUnavailable
// wrapping cause. Pass nil to restore normal behavior. Test hook.
func (s *Store) FailWith(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = cause
}

// Clear removes all data from every table.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string]map[string]any)
}

// table returns the mutable table for entityType, creating it on first
// use. Callers must hold the write lock.
func (s *Store) table(entityType string) map[string]any {
	t, ok := s.tables[entityType]
	if !ok {
		t = make(map[string]any)
		s.tables[entityType] = t
	}
	return t
}

// readTable returns the table for entityType without creating it. A nil
// result ranges and indexes like an empty table.
func (s *Store) readTable(entityType string) map[string]any {
	return s.tables[entityType]
}

// Repository is the in-memory Repository[T] implementation.
type Repository[T any] struct {
	store *Store
	desc  registry.Descriptor
}

// NewRepository binds a repository for T to the store, using the
// descriptor registered for T.
func NewRepository[T any](store *Store) (*Repository[T], error) {
	desc, ok := registry.DescriptorFor[T]()
	if !ok {
		var zero T
		return nil, errors.NewInvalidArgumentError("descriptor", reflect.TypeOf(zero).String()+" has no registered descriptor")
	}
	return &Repository[T]{store: store, desc: desc}, nil
}

func (r *Repository[T]) guard(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.store.failure != nil {
		return errors.NewStoreUnavailableError(op, r.store.failure)
	}
	return nil
}

// GetByID retrieves one entity by identity.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if err := r.guard(ctx, "GetByID"); err != nil {
		return nil, err
	}

	raw, ok := r.store.readTable(r.desc.EntityType)[id]
	if !ok {
		return nil, errors.NewNotFoundError(r.desc.EntityType, id)
	}
	entity := raw.(T)
	return &entity, nil
}

// Exists reports whether any entity matches p.
func (r *Repository[T]) Exists(ctx context.Context, p *predicate.Predicate) (bool, error) {
	n, err := r.Count(ctx, p)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of entities matching p.
func (r *Repository[T]) Count(ctx context.Context, p *predicate.Predicate) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if err := r.guard(ctx, "Count"); err != nil {
		return 0, err
	}

	n := 0
	for _, raw := range r.store.readTable(r.desc.EntityType) {
		if p.Matches(raw) {
			n++
		}
	}
	return n, nil
}

// List returns every entity matching the params.
func (r *Repository[T]) List(ctx context.Context, params storagemodels.ListParams) ([]T, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if err := r.guard(ctx, "List"); err != nil {
		return nil, err
	}

	items := r.collect(params.Predicate)
	predicate.Sort(params.Ordering, items)
	if err := r.applyIncludes(items, params); err != nil {
		return nil, err
	}
	return items, nil
}

// ListPaged returns one window of the filtered result set. The total is
// counted before windowing and ordering applies before windowing. Without
// an ordering the window contents are not guaranteed stable across calls.
func (r *Repository[T]) ListPaged(ctx context.Context, page storagemodels.PageRequest, params storagemodels.ListParams) (*storagemodels.PagedResult[T], error) {
	if err := repository.ValidatePage(page); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if err := r.guard(ctx, "ListPaged"); err != nil {
		return nil, err
	}

	items := r.collect(params.Predicate)
	total := len(items)
	predicate.Sort(params.Ordering, items)
	window := repository.Window(items, page)
	if err := r.applyIncludes(window, params); err != nil {
		return nil, err
	}

	return &storagemodels.PagedResult[T]{
		PageIndex:  page.PageIndex,
		PageSize:   page.PageSize,
		TotalItems: total,
		Items:      window,
	}, nil
}

// Create persists a new entity, assigning identity when unset.
func (r *Repository[T]) Create(ctx context.Context, entity T) (*T, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.guard(ctx, "Create"); err != nil {
		return nil, err
	}

	id, _ := repository.EntityID(entity)
	table := r.store.table(r.desc.EntityType)
	if id == "" {
		id = uuid.NewString()
		if err := repository.SetEntityID(&entity, id); err != nil {
			return nil, err
		}
	} else if _, exists := table[id]; exists {
		return nil, errors.NewConflictError(r.desc.EntityType, id)
	}

	repository.StampCreated(&entity, time.Now().UTC())

	// Relation fields are read-side projections, never persisted.
	for _, rel := range r.desc.Relations {
		if rel.ParentField != "" {
			_ = repository.SetField(&entity, rel.ParentField, nil)
		}
	}

	table[id] = entity
	return &entity, nil
}

// Update applies allow-listed changes to an existing entity.
func (r *Repository[T]) Update(ctx context.Context, id string, changes map[string]any) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.guard(ctx, "Update"); err != nil {
		return err
	}

	table := r.store.table(r.desc.EntityType)
	raw, ok := table[id]
	if !ok {
		return errors.NewNotFoundError(r.desc.EntityType, id)
	}

	entity := raw.(T)
	for field, value := range changes {
		if !r.desc.IsMutable(field) {
			continue
		}
		if err := repository.SetField(&entity, field, value); err != nil {
			return errors.NewInvalidArgumentError(field, err.Error())
		}
	}
	repository.TouchUpdated(&entity, time.Now().UTC())
	table[id] = entity
	return nil
}

// Delete removes an entity and, atomically under the store lock, every
// dependent of its cascade relations.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.guard(ctx, "Delete"); err != nil {
		return err
	}

	table := r.store.table(r.desc.EntityType)
	if _, ok := table[id]; !ok {
		return errors.NewNotFoundError(r.desc.EntityType, id)
	}

	for _, rel := range r.desc.CascadeRelations() {
		childTable := r.store.table(rel.ChildEntityType)
		for childID, child := range childTable {
			fk, ok := predicate.Attr(child, rel.ForeignKey)
			if ok && fk == id {
				delete(childTable, childID)
			}
		}
	}

	delete(table, id)
	return nil
}

// Save is a no-op: the in-memory store commits every operation directly.
func (r *Repository[T]) Save(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, nil
}

// collect gathers matching entities. Iteration order of the underlying map
// is the "store-defined" order: deliberately unstable.
func (r *Repository[T]) collect(p *predicate.Predicate) []T {
	table := r.store.readTable(r.desc.EntityType)
	items := make([]T, 0, len(table))
	for _, raw := range table {
		if p.Matches(raw) {
			items = append(items, raw.(T))
		}
	}
	return items
}

func (r *Repository[T]) applyIncludes(items []T, params storagemodels.ListParams) error {
	for _, name := range params.Include {
		rel, ok := r.desc.Relation(name)
		if !ok {
			return errors.NewInvalidArgumentError("include", "unknown relation "+name)
		}
		_, childType, ok := registry.DescriptorForEntityType(rel.ChildEntityType)
		if !ok {
			return errors.NewInvalidArgumentError("include", "no descriptor for child type "+rel.ChildEntityType)
		}
		childTable := r.store.readTable(rel.ChildEntityType)

		for i := range items {
			parentID, _ := repository.EntityID(items[i])
			children := reflect.MakeSlice(reflect.SliceOf(childType), 0, 4)
			for _, child := range childTable {
				fk, ok := predicate.Attr(child, rel.ForeignKey)
				if ok && fk == parentID {
					children = reflect.Append(children, reflect.ValueOf(child))
				}
			}
			sorted := sortChildrenByID(children)
			if err := repository.SetField(&items[i], rel.ParentField, sorted.Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortChildrenByID keeps inclusion output deterministic despite map
// iteration order.
func sortChildrenByID(children reflect.Value) reflect.Value {
	sort.SliceStable(children.Interface(), func(i, j int) bool {
		a, _ := repository.EntityID(children.Index(i).Interface())
		b, _ := repository.EntityID(children.Index(j).Interface())
		return a < b
	})
	return children
}
