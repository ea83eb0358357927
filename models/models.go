/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package models

import (
	"github.com/go-openapi/strfmt"

	"github.com/suparena/storefront/registry"
)

// Entity type discriminators stored with every persisted item.
const (
	CustomerEntityType = "CUSTOMER"
	OrderEntityType    = "ORDER"
)

// Order status values.
const (
	OrderStatusOpen      = "OPEN"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCancelled = "CANCELLED"
)

// Customer is an identity-bearing customer record. Identity and the audit
// timestamps are owned by the repository; Orders is populated only when the
// relation is included on a read.
type Customer struct {

	// Unique identifier, assigned on create.
	ID string `json:"id"`

	// Display name of the customer.
	Name string `json:"name"`

	// Contact email address.
	Email string `json:"email"`

	// Timestamp when the customer was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"createdAt"`

	// Timestamp when the customer was last updated.
	// Format: date-time
	UpdatedAt strfmt.DateTime `json:"updatedAt"`

	// Orders of this customer, present only when the Orders relation is
	// included. Never persisted with the customer item.
	Orders []Order `json:"orders,omitempty" dynamodbav:"-"`
}

// Order is a single order belonging to a customer. Deleting the customer
// cascades to its orders.
type Order struct {

	// Unique identifier, assigned on create.
	ID string `json:"id"`

	// Identity of the owning customer.
	CustomerID string `json:"customerId"`

	// Current order status (OPEN, SHIPPED, CANCELLED).
	Status string `json:"status"`

	// Order total in the store currency.
	Total float64 `json:"total"`

	// Timestamp when the order was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"createdAt"`

	// Timestamp when the order was last updated.
	// Format: date-time
	UpdatedAt strfmt.DateTime `json:"updatedAt"`
}

// CustomerDescriptor is the storage capability record for Customer.
func CustomerDescriptor() registry.Descriptor {
	return registry.Descriptor{
		EntityType: CustomerEntityType,
		KeyPattern: map[string]string{
			"PK":  "CUSTOMER#{ID}",
			"SK":  "CUSTOMER#{ID}",
			"PK1": CustomerEntityType,
			"SK1": "CUSTOMER#{ID}",
		},
		MutableFields: []string{"Name", "Email"},
		Relations: []registry.Relation{{
			Name:            "Orders",
			ChildEntityType: OrderEntityType,
			ForeignKey:      "CustomerID",
			ParentField:     "Orders",
			CascadeDelete:   true,
		}},
	}
}

// OrderDescriptor is the storage capability record for Order. Orders live
// in their owning customer's partition so a customer and its orders can be
// read and deleted together.
func OrderDescriptor() registry.Descriptor {
	return registry.Descriptor{
		EntityType: OrderEntityType,
		KeyPattern: map[string]string{
			"PK":  "CUSTOMER#{CustomerID}",
			"SK":  "ORDER#{ID}",
			"PK1": OrderEntityType,
			"SK1": "ORDER#{ID}",
		},
		MutableFields: []string{"Status", "Total"},
	}
}

// Register installs the default descriptors for both entity types.
// Deployments can override key patterns or allow-lists from a YAML
// descriptor file before calling Register via RegisterWithOverrides.
func Register() {
	registry.RegisterDescriptor[Customer](CustomerDescriptor())
	registry.RegisterDescriptor[Order](OrderDescriptor())
}

// RegisterWithOverrides installs descriptors, replacing the defaults with
// any matching entries from overrides (keyed by entity type).
func RegisterWithOverrides(overrides map[string]registry.Descriptor) {
	customer := CustomerDescriptor()
	if d, ok := overrides[CustomerEntityType]; ok {
		customer = d
	}
	order := OrderDescriptor()
	if d, ok := overrides[OrderEntityType]; ok {
		order = d
	}
	registry.RegisterDescriptor[Customer](customer)
	registry.RegisterDescriptor[Order](order)
}

func init() {
	Register()
}
