/*
Package ddb implements the Repository contract on DynamoDB.

All entity types share one table in a single-table design. Each item carries
PK/SK attributes expanded from its descriptor's key-pattern macros, PK1/SK1
attributes for the type index (a GSI keyed by entity type), and an
EntityType discriminator.

Reads by identity use GetItem when the primary key derives from the identity
alone, and a type-index lookup otherwise. Listing queries the type index
with a filter expression compiled from the predicate tree, then orders and
windows client-side so paged totals stay consistent with page contents.
Cascade deletes remove the parent and every dependent row in one
TransactWriteItems call.
*/
package ddb
