/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// Relation describes a named one-to-many relation from a parent entity type
// to a child entity type.
type Relation struct {
	// Name is the relation name used by inclusion sets and query fields.
	Name string
	// ChildEntityType is the EntityType discriminator of the child.
	ChildEntityType string
	// ForeignKey is the child attribute holding the parent identity.
	ForeignKey string
	// ParentField is the parent struct field populated when the relation is
	// included.
	ParentField string
	// CascadeDelete marks the relation for transactional cascade on parent
	// deletion.
	CascadeDelete bool
}

// Descriptor is the capability record a repository needs for one entity
// type. A single generic repository implementation consults it instead of
// per-entity subclasses.
type Descriptor struct {
	// EntityType is the discriminator stored with every persisted item.
	EntityType string
	// KeyPattern maps storage key attributes to macro templates, for
	// example PK: "CUSTOMER#{ID}". Macros reference entity fields.
	KeyPattern map[string]string
	// MutableFields is the allow-list consulted by Update. Fields outside
	// the list (identity and creation timestamp included) never change
	// through an update payload.
	MutableFields []string
	// Relations lists the child relations of this type.
	Relations []Relation
}

// IsMutable reports whether field is in the update allow-list.
func (d Descriptor) IsMutable(field string) bool {
	for _, f := range d.MutableFields {
		if f == field {
			return true
		}
	}
	return false
}

// Relation returns the named relation, if declared.
func (d Descriptor) Relation(name string) (Relation, bool) {
	for _, r := range d.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// CascadeRelations returns the relations flagged for cascade delete.
func (d Descriptor) CascadeRelations() []Relation {
	var out []Relation
	for _, r := range d.Relations {
		if r.CascadeDelete {
			out = append(out, r)
		}
	}
	return out
}

var (
	mu            sync.RWMutex
	descriptors   = make(map[reflect.Type]Descriptor)
	typesByEntity = make(map[string]reflect.Type)
)

// RegisterDescriptor associates a Go type T with its descriptor.
// Re-registration overwrites, so tests and generated code can refresh
// descriptors freely.
func RegisterDescriptor[T any](d Descriptor) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.Lock()
	defer mu.Unlock()
	descriptors[t] = d
	if d.EntityType != "" {
		typesByEntity[d.EntityType] = t
	}
}

// DescriptorFor retrieves the descriptor for type T, if any.
func DescriptorFor[T any]() (Descriptor, bool) {
	var zero T
	t := reflect.TypeOf(zero)

	mu.RLock()
	defer mu.RUnlock()
	d, ok := descriptors[t]
	return d, ok
}

// DescriptorForEntityType resolves a descriptor and its Go type from an
// EntityType discriminator. Store backends use it to handle child types
// generically during cascade deletes and inclusion loading.
func DescriptorForEntityType(entityType string) (Descriptor, reflect.Type, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := typesByEntity[entityType]
	if !ok {
		return Descriptor{}, nil, false
	}
	return descriptors[t], t, true
}
