/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package graphql

import (
	"github.com/graphql-go/graphql"

	storefront "github.com/suparena/storefront"
	sferrors "github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/models"
	"github.com/suparena/storefront/predicate"
	"github.com/suparena/storefront/repository"
	"github.com/suparena/storefront/storagemodels"
)

// Resolver binds the query fields to the entity repositories.
type Resolver struct {
	Customers repository.Repository[models.Customer]
	Orders    repository.Repository[models.Order]

	// DefaultPageSize applies when a page size or limit argument is
	// omitted or non-positive; MaxPageSize clamps caller values.
	DefaultPageSize int
	MaxPageSize     int
}

// NewResolver builds a Resolver with the given repositories and the config's
// paging bounds.
func NewResolver(cfg Config, customers repository.Repository[models.Customer], orders repository.Repository[models.Order]) *Resolver {
	return &Resolver{
		Customers:       customers,
		Orders:          orders,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}
}

// bound normalizes a caller-supplied size: non-positive falls back to the
// default, oversized clamps to the maximum.
func (r *Resolver) bound(n int) int {
	if n <= 0 {
		n = r.DefaultPageSize
	}
	if n > r.MaxPageSize {
		n = r.MaxPageSize
	}
	return n
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

func stringArg(p graphql.ResolveParams, name string) (string, bool) {
	s, ok := p.Args[name].(string)
	return s, ok && s != ""
}

// resolveCustomer handles customer(id). A missing id is a field-scoped
// InvalidArgument; an unknown id resolves to null without an error, the
// usual contract for nullable single-entity fields.
func (r *Resolver) resolveCustomer(p graphql.ResolveParams) (interface{}, error) {
	id, ok := stringArg(p, "id")
	if !ok {
		return nil, invalidArgument("id argument is required")
	}

	customer, err := r.Customers.GetByID(p.Context, id)
	if err != nil {
		if sferrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, asFieldError(err)
	}
	return *customer, nil
}

// resolveCustomers handles customers(page, pageSize, nameContains). It
// returns a thunk so sibling fields resolve without waiting on the store.
func (r *Resolver) resolveCustomers(p graphql.ResolveParams) (interface{}, error) {
	page := storagemodels.PageRequest{
		PageIndex: intArg(p, "page"),
		PageSize:  r.bound(intArg(p, "pageSize")),
	}

	var filter *predicate.Predicate
	if substr, ok := stringArg(p, "nameContains"); ok {
		filter = predicate.Contains("Name", substr)
	}
	params := storagemodels.ListParams{
		Predicate: filter,
		Ordering:  predicate.By("Name").Then("ID"),
	}

	return func() (interface{}, error) {
		result, err := r.Customers.ListPaged(p.Context, page, params)
		if err != nil {
			return nil, asFieldError(err)
		}
		return result, nil
	}, nil
}

// resolveOrder handles order(id) with the same null-on-absence contract as
// resolveCustomer.
func (r *Resolver) resolveOrder(p graphql.ResolveParams) (interface{}, error) {
	id, ok := stringArg(p, "id")
	if !ok {
		return nil, invalidArgument("id argument is required")
	}

	order, err := r.Orders.GetByID(p.Context, id)
	if err != nil {
		if sferrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, asFieldError(err)
	}
	return *order, nil
}

// resolveOrders handles orders(page, pageSize, status, customerId).
func (r *Resolver) resolveOrders(p graphql.ResolveParams) (interface{}, error) {
	page := storagemodels.PageRequest{
		PageIndex: intArg(p, "page"),
		PageSize:  r.bound(intArg(p, "pageSize")),
	}

	var filter *predicate.Predicate
	if status, ok := stringArg(p, "status"); ok {
		filter = filter.And(predicate.Eq("Status", status))
	}
	if customerID, ok := stringArg(p, "customerId"); ok {
		filter = filter.And(predicate.Eq("CustomerID", customerID))
	}
	params := storagemodels.ListParams{
		Predicate: filter,
		Ordering:  predicate.By("CreatedAt").Then("ID"),
	}

	return func() (interface{}, error) {
		result, err := r.Orders.ListPaged(p.Context, page, params)
		if err != nil {
			return nil, asFieldError(err)
		}
		return result, nil
	}, nil
}

// resolveCustomerOrders handles Customer.orders(limit, status). The parent
// identity is a scoping predicate the caller filter is ANDed onto, so a
// caller can narrow the set but never widen it past the parent.
func (r *Resolver) resolveCustomerOrders(p graphql.ResolveParams) (interface{}, error) {
	parent, ok := p.Source.(models.Customer)
	if !ok {
		return nil, invalidArgument("orders resolved outside a customer")
	}

	scope := predicate.Eq("CustomerID", parent.ID)
	if status, ok := stringArg(p, "status"); ok {
		scope = scope.And(predicate.Eq("Status", status))
	}

	limit := r.bound(intArg(p, "limit"))
	page := storagemodels.PageRequest{PageIndex: 0, PageSize: limit}
	params := storagemodels.ListParams{
		Predicate: scope,
		Ordering:  predicate.By("CreatedAt").Then("ID"),
	}

	return func() (interface{}, error) {
		result, err := r.Orders.ListPaged(p.Context, page, params)
		if err != nil {
			return nil, asFieldError(err)
		}
		return result.Items, nil
	}, nil
}

// resolveVersion reports build information.
func (r *Resolver) resolveVersion(_ graphql.ResolveParams) (interface{}, error) {
	return storefront.GetVersionInfo(), nil
}
