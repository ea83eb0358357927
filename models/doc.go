/*
Package models defines Storefront's domain entities and their storage
descriptors.

Customer and Order form a one-to-many relation with cascade delete: removing
a customer removes all of its orders in one store transaction. Both types
carry repository-owned audit timestamps; callers never set identity or
timestamps directly.

Descriptors register at package init. Deployments that need different key
patterns or allow-lists can load overrides from a YAML descriptor file and
call RegisterWithOverrides.
*/
package models
