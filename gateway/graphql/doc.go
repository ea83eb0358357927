/*
Package graphql is Storefront's query-resolution gateway.

The schema is declared in code and bound to resolvers over the entity
repositories. Root fields cover single-entity lookup, paged listing and
build information; Customer.orders resolves the relation scoped to its
parent, so a caller filter can narrow but never widen the set.

Errors are field-scoped by default: a failing field yields null plus one
error carrying an extensions.code from the storefront error taxonomy while
sibling fields still resolve. Root fields listed in the config's
FailRequestFields escalate StoreUnavailable to a whole-request failure.

The HTTP server accepts POST {query, variables, operationName}, answers
{data, errors}, and optionally serves a playground and enforces bearer-token
credential validation before any field resolves.
*/
package graphql
