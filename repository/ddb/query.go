/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	sferrors "github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/predicate"
	"github.com/suparena/storefront/registry"
	"github.com/suparena/storefront/repository"
	"github.com/suparena/storefront/storagemodels"
)

// Exists reports whether any entity matches p.
func (r *Repository[T]) Exists(ctx context.Context, p *predicate.Predicate) (bool, error) {
	n, err := r.Count(ctx, p)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of entities matching p, following the type index
// page by page with Select COUNT so no items cross the wire.
func (r *Repository[T]) Count(ctx context.Context, p *predicate.Predicate) (int, error) {
	filterExpr, names, values, err := compileFilter(p)
	if err != nil {
		return 0, err
	}

	input := r.typeQueryInput(filterExpr, names, values)
	input.Select = types.SelectCount

	total := 0
	var startKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = startKey
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return 0, sferrors.NewStoreUnavailableError("Count", err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return total, nil
}

// List returns every entity matching the params, ordered per
// params.Ordering and with requested relations loaded.
func (r *Repository[T]) List(ctx context.Context, params storagemodels.ListParams) ([]T, error) {
	items, err := r.queryAll(ctx, params.Predicate)
	if err != nil {
		return nil, err
	}
	predicate.Sort(params.Ordering, items)
	if err := r.applyIncludes(ctx, items, params); err != nil {
		return nil, err
	}
	return items, nil
}

// ListPaged returns one window of the filtered result set. Filtering happens
// server-side on the type index; ordering and windowing happen client-side
// so the window is consistent with the total. Relations load for the window
// only. Without an ordering the window contents are not guaranteed stable
// across calls.
func (r *Repository[T]) ListPaged(ctx context.Context, page storagemodels.PageRequest, params storagemodels.ListParams) (*storagemodels.PagedResult[T], error) {
	if err := repository.ValidatePage(page); err != nil {
		return nil, err
	}

	items, err := r.queryAll(ctx, params.Predicate)
	if err != nil {
		return nil, err
	}
	total := len(items)
	predicate.Sort(params.Ordering, items)
	window := repository.Window(items, page)
	if err := r.applyIncludes(ctx, window, params); err != nil {
		return nil, err
	}

	return &storagemodels.PagedResult[T]{
		PageIndex:  page.PageIndex,
		PageSize:   page.PageSize,
		TotalItems: total,
		Items:      window,
	}, nil
}

// queryAll walks the type index for this entity type, applying the compiled
// filter expression, until DynamoDB reports no further pages.
func (r *Repository[T]) queryAll(ctx context.Context, p *predicate.Predicate) ([]T, error) {
	filterExpr, names, values, err := compileFilter(p)
	if err != nil {
		return nil, err
	}
	input := r.typeQueryInput(filterExpr, names, values)

	var items []T
	var startKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = startKey
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, sferrors.NewStoreUnavailableError("List", err)
		}
		for _, item := range out.Items {
			entity := new(T)
			if err := attributevalue.UnmarshalMap(item, entity); err != nil {
				return nil, fmt.Errorf("failed to unmarshal item: %w", err)
			}
			items = append(items, *entity)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return items, nil
}

// typeQueryInput builds the base Query input over the type index, merging
// filter expression names and values with the key condition value.
func (r *Repository[T]) typeQueryInput(filterExpr *string, names map[string]string, values map[string]types.AttributeValue) *sdk.QueryInput {
	keyCond := "PK1 = :typePK"
	exprValues := map[string]types.AttributeValue{
		":typePK": &types.AttributeValueMemberS{Value: r.desc.KeyPattern["PK1"]},
	}
	for ph, av := range values {
		exprValues[ph] = av
	}

	input := &sdk.QueryInput{
		TableName:                 &r.tableName,
		IndexName:                 strPtr(typeIndexName),
		KeyConditionExpression:    &keyCond,
		FilterExpression:          filterExpr,
		ExpressionAttributeValues: exprValues,
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}
	return input
}

// applyIncludes loads requested relations for each entity by querying the
// parent's partition with the child sort-key prefix.
func (r *Repository[T]) applyIncludes(ctx context.Context, items []T, params storagemodels.ListParams) error {
	for _, name := range params.Include {
		rel, ok := r.desc.Relation(name)
		if !ok {
			return sferrors.NewInvalidArgumentError("include", "unknown relation "+name)
		}
		childDesc, childType, ok := registry.DescriptorForEntityType(rel.ChildEntityType)
		if !ok {
			return sferrors.NewInvalidArgumentError("include", "no descriptor for child type "+rel.ChildEntityType)
		}
		prefix := macroPrefix(childDesc.KeyPattern["SK"])

		for i := range items {
			children, err := r.queryChildren(ctx, items[i], childType, prefix)
			if err != nil {
				return err
			}
			if err := repository.SetField(&items[i], rel.ParentField, children); err != nil {
				return err
			}
		}
	}
	return nil
}

// queryChildren fetches every child row in the parent's partition whose sort
// key carries the child prefix, returning a typed slice.
func (r *Repository[T]) queryChildren(ctx context.Context, parent T, childType reflect.Type, prefix string) (any, error) {
	pk, err := expandTemplate(r.desc.KeyPattern["PK"], parent)
	if err != nil {
		return nil, err
	}

	keyCond := "PK = :pk AND begins_with(SK, :skPrefix)"
	input := &sdk.QueryInput{
		TableName:              &r.tableName,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":       &types.AttributeValueMemberS{Value: pk},
			":skPrefix": &types.AttributeValueMemberS{Value: prefix},
		},
	}

	var raw []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		input.ExclusiveStartKey = startKey
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, sferrors.NewStoreUnavailableError("List", err)
		}
		raw = append(raw, out.Items...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	slicePtr := reflect.New(reflect.SliceOf(childType))
	if err := attributevalue.UnmarshalListOfMaps(raw, slicePtr.Interface()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal child items: %w", err)
	}
	return slicePtr.Elem().Interface(), nil
}
