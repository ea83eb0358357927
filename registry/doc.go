/*
Package registry manages entity descriptors for Storefront.

A Descriptor is the small capability record that lets one generic repository
implementation serve any entity type: the storage key pattern, the
update allow-list, and the declared relations (including which ones cascade
on delete).

	registry.RegisterDescriptor[Customer](registry.Descriptor{
	    EntityType: "CUSTOMER",
	    KeyPattern: map[string]string{
	        "PK": "CUSTOMER#{ID}",
	        "SK": "CUSTOMER#{ID}",
	    },
	    MutableFields: []string{"Name", "Email"},
	    Relations: []registry.Relation{{
	        Name:            "Orders",
	        ChildEntityType: "ORDER",
	        ForeignKey:      "CustomerID",
	        ParentField:     "Orders",
	        CascadeDelete:   true,
	    }},
	})

Key patterns use {Field} macros expanded against entity attributes, which
enables polymorphic storage of several entity types in one table.

Descriptors can also be declared in YAML and loaded with
LoadDescriptorFile; the caller then binds each parsed descriptor to its Go
type. The registry is thread-safe and should be populated during
initialization, typically in init() functions.
*/
package registry
