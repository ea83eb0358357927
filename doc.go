/*
Package storefront is a schema-first storefront service built on a generic
entity repository.

The repository layer (repository, repository/memory, repository/ddb) gives
every entity type uniform CRUD, predicate filtering, ordering, relation
inclusion and offset paging, driven by per-type descriptors (registry). The
gateway layer (gateway/graphql) binds named query fields to resolvers over
those repositories, with argument defaults, nested relation resolution and
field-scoped error reporting.

This package ties the layers together: RepositorySet hands out a type-safe
Repository[T] per entity type and backend key, so the gateway and command
wiring never touch backend constructors directly.
*/
package storefront
