/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema declares the query schema in code and binds it to the resolver.
// There are no mutation fields; the gateway is a read surface.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	versionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "VersionInfo",
		Fields: graphql.Fields{
			"version":   &graphql.Field{Type: graphql.String},
			"gitCommit": &graphql.Field{Type: graphql.String},
			"buildDate": &graphql.Field{Type: graphql.String},
			"goVersion": &graphql.Field{Type: graphql.String},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"customerId": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"status":     &graphql.Field{Type: graphql.String},
			"total":      &graphql.Field{Type: graphql.Float},
			"createdAt":  &graphql.Field{Type: graphql.String},
			"updatedAt":  &graphql.Field{Type: graphql.String},
		},
	})

	customerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":      &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.String},
			"updatedAt": &graphql.Field{Type: graphql.String},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: r.DefaultPageSize,
					},
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveCustomerOrders,
			},
		},
	})

	customerPageType := pageType("CustomerPage", customerType)
	orderPageType := pageType("OrderPage", orderType)

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"customer": &graphql.Field{
				Type: customerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveCustomer,
			},
			"customers": &graphql.Field{
				Type: customerPageType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 0,
					},
					"pageSize":     &graphql.ArgumentConfig{Type: graphql.Int},
					"nameContains": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveCustomers,
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveOrder,
			},
			"orders": &graphql.Field{
				Type: orderPageType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 0,
					},
					"pageSize":   &graphql.ArgumentConfig{Type: graphql.Int},
					"status":     &graphql.ArgumentConfig{Type: graphql.String},
					"customerId": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.resolveOrders,
			},
			"version": &graphql.Field{
				Type:    versionType,
				Resolve: r.resolveVersion,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
}

// pageType builds the stable page envelope for an item type:
// {pageIndex, pageSize, totalItems, items}.
func pageType(name string, itemType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			"pageIndex":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"pageSize":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalItems": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"items":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(itemType))},
		},
	})
}
