/*
Package repository defines the generic entity-store contract for Storefront.

The main interface is Repository[T], which provides uniform CRUD, predicate
filtering, ordering, relation inclusion and offset paging for any entity
type T:

	type Repository[T any] interface {
	    GetByID(ctx context.Context, id string) (*T, error)
	    Exists(ctx context.Context, p *predicate.Predicate) (bool, error)
	    Count(ctx context.Context, p *predicate.Predicate) (int, error)
	    List(ctx context.Context, params storagemodels.ListParams) ([]T, error)
	    ListPaged(ctx context.Context, page storagemodels.PageRequest, params storagemodels.ListParams) (*storagemodels.PagedResult[T], error)
	    Create(ctx context.Context, entity T) (*T, error)
	    Update(ctx context.Context, id string, changes map[string]any) error
	    Delete(ctx context.Context, id string) error
	    Save(ctx context.Context) (int, error)
	}

Implementations:
  - ddb: DynamoDB implementation with single-table design
  - memory: in-memory implementation for tests and local runs

Entity-specific behavior is injected through the descriptor registered for
T (see the registry package): the key pattern, the update allow-list and
the relation set, including cascade-delete relations. The implementations
hold no mutable state of their own beyond the backing store; every call is
self-contained given its arguments.

The package also provides the reflection helpers shared by backends for
identity assignment, audit-timestamp stamping and allow-listed field
updates.
*/
package repository
