/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	sferrors "github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/registry"
	"github.com/suparena/storefront/repository"
)

// Repository implements repository.Repository[T] on a single DynamoDB
// table. Entity types share the table; each item carries an EntityType
// discriminator and keys expanded from the descriptor's macro patterns.
type Repository[T any] struct {
	client    *sdk.Client
	tableName string
	desc      registry.Descriptor
}

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// NewRepository constructs a Repository for type T bound to the given
// table, using the descriptor registered for T.
func NewRepository[T any](client *sdk.Client, tableName string) (*Repository[T], error) {
	desc, ok := registry.DescriptorFor[T]()
	if !ok {
		var zero T
		return nil, sferrors.NewInvalidArgumentError("descriptor", reflect.TypeOf(zero).String()+" has no registered descriptor")
	}
	return &Repository[T]{
		client:    client,
		tableName: tableName,
		desc:      desc,
	}, nil
}

// GetByID retrieves a single entity by identity. When the primary key is
// derivable from the identity alone it uses GetItem; otherwise it falls
// back to a lookup on the type index.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	item, err := r.rawItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := new(T)
	if err := attributevalue.UnmarshalMap(item, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return result, nil
}

func (r *Repository[T]) rawItemByID(ctx context.Context, id string) (map[string]types.AttributeValue, error) {
	if key, ok := keyFromID(r.desc.KeyPattern, id); ok {
		out, err := r.client.GetItem(ctx, &sdk.GetItemInput{
			TableName: &r.tableName,
			Key:       key,
		})
		if err != nil {
			return nil, sferrors.NewStoreUnavailableError("GetByID", err)
		}
		if out.Item == nil {
			return nil, sferrors.NewNotFoundError(r.desc.EntityType, id)
		}
		return out.Item, nil
	}

	// The primary key references attributes beyond the identity (child
	// entities keyed into their parent's partition), so resolve through
	// the type index instead.
	skVal, err := typeIndexSortKeyForID(r.desc.KeyPattern, id)
	if err != nil {
		return nil, err
	}
	keyCond := "PK1 = :pk1 AND SK1 = :sk1"
	out, err := r.client.Query(ctx, &sdk.QueryInput{
		TableName:              &r.tableName,
		IndexName:              strPtr(typeIndexName),
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk1": &types.AttributeValueMemberS{Value: r.desc.KeyPattern["PK1"]},
			":sk1": &types.AttributeValueMemberS{Value: skVal},
		},
		Limit: int32Ptr(1),
	})
	if err != nil {
		return nil, sferrors.NewStoreUnavailableError("GetByID", err)
	}
	if len(out.Items) == 0 {
		return nil, sferrors.NewNotFoundError(r.desc.EntityType, id)
	}
	return out.Items[0], nil
}

// Create persists a new entity. Identity is assigned when unset; a
// caller-supplied identity that already exists yields a Conflict error.
func (r *Repository[T]) Create(ctx context.Context, entity T) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, _ := repository.EntityID(entity)
	if id == "" {
		id = uuid.NewString()
		if err := repository.SetEntityID(&entity, id); err != nil {
			return nil, err
		}
	}
	repository.StampCreated(&entity, time.Now().UTC())

	av, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	expanded, err := expandMacros(r.desc.KeyPattern, entity)
	if err != nil {
		return nil, err
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av[entityTypeAttr] = &types.AttributeValueMemberS{Value: r.desc.EntityType}

	condition := "attribute_not_exists(PK) AND attribute_not_exists(SK)"
	_, err = r.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &r.tableName,
		Item:                av,
		ConditionExpression: &condition,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil, sferrors.NewConflictError(r.desc.EntityType, id)
		}
		return nil, sferrors.NewStoreUnavailableError("Create", err)
	}
	return &entity, nil
}

// Update applies allow-listed changes to an existing entity and bumps the
// last-updated timestamp. Identity and the creation timestamp never change
// regardless of the payload.
func (r *Repository[T]) Update(ctx context.Context, id string, changes map[string]any) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := make(map[string]any, len(changes))
	for field, value := range changes {
		if r.desc.IsMutable(field) {
			allowed[field] = value
		}
	}
	allowed["UpdatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)

	updateExpr, names, values, err := buildUpdateExpression(allowed)
	if err != nil {
		return err
	}

	expanded, err := expandMacros(r.desc.KeyPattern, existing)
	if err != nil {
		return err
	}
	key, err := primaryKeyFromExpanded(expanded)
	if err != nil {
		return err
	}

	condition := "attribute_exists(PK)"
	_, err = r.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &r.tableName,
		Key:                       key,
		UpdateExpression:          &updateExpr,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       &condition,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return sferrors.NewNotFoundError(r.desc.EntityType, id)
		}
		return sferrors.NewStoreUnavailableError("Update", err)
	}
	return nil
}

// Delete removes an entity and every dependent of its cascade relations in
// one TransactWriteItems call: either all rows go or none do, even under
// concurrent access.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	parentItem, err := r.rawItemByID(ctx, id)
	if err != nil {
		return err
	}
	parentKey, err := primaryKeyFromItem(parentItem)
	if err != nil {
		return err
	}

	childKeys, err := r.cascadeChildKeys(ctx, parentItem)
	if err != nil {
		return err
	}

	if len(childKeys) == 0 {
		_, err = r.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName: &r.tableName,
			Key:       parentKey,
		})
		if err != nil {
			return sferrors.NewStoreUnavailableError("Delete", err)
		}
		return nil
	}

	// DynamoDB transactions carry at most 100 items; a cascade larger than
	// that cannot be removed atomically in one call.
	if len(childKeys)+1 > maxTransactItems {
		return sferrors.NewStoreUnavailableError("Delete",
			fmt.Errorf("cascade of %d rows exceeds single-transaction capacity", len(childKeys)+1))
	}

	items := make([]types.TransactWriteItem, 0, len(childKeys)+1)
	items = append(items, types.TransactWriteItem{
		Delete: &types.Delete{TableName: &r.tableName, Key: parentKey},
	})
	for _, key := range childKeys {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{TableName: &r.tableName, Key: key},
		})
	}

	_, err = r.client.TransactWriteItems(ctx, &sdk.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		return sferrors.NewStoreUnavailableError("Delete", err)
	}
	return nil
}

// cascadeChildKeys collects the primary keys of every dependent row in the
// parent's partition for relations flagged CascadeDelete.
func (r *Repository[T]) cascadeChildKeys(ctx context.Context, parentItem map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	cascades := r.desc.CascadeRelations()
	if len(cascades) == 0 {
		return nil, nil
	}

	pk, ok := parentItem["PK"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("parent item has no string PK")
	}

	var keys []map[string]types.AttributeValue
	for _, rel := range cascades {
		childDesc, _, ok := registry.DescriptorForEntityType(rel.ChildEntityType)
		if !ok {
			return nil, sferrors.NewInvalidArgumentError("relation", "no descriptor for child type "+rel.ChildEntityType)
		}
		prefix := macroPrefix(childDesc.KeyPattern["SK"])

		keyCond := "PK = :pk AND begins_with(SK, :skPrefix)"
		exprVals := map[string]types.AttributeValue{
			":pk":       pk,
			":skPrefix": &types.AttributeValueMemberS{Value: prefix},
		}

		var startKey map[string]types.AttributeValue
		for {
			out, err := r.client.Query(ctx, &sdk.QueryInput{
				TableName:                 &r.tableName,
				KeyConditionExpression:    &keyCond,
				ExpressionAttributeValues: exprVals,
				ExclusiveStartKey:         startKey,
			})
			if err != nil {
				return nil, sferrors.NewStoreUnavailableError("Delete", err)
			}
			for _, item := range out.Items {
				key, err := primaryKeyFromItem(item)
				if err != nil {
					return nil, err
				}
				keys = append(keys, key)
			}
			if out.LastEvaluatedKey == nil {
				break
			}
			startKey = out.LastEvaluatedKey
		}
	}
	return keys, nil
}

// Save is a no-op: DynamoDB commits every operation individually.
func (r *Repository[T]) Save(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, nil
}

const (
	entityTypeAttr   = "EntityType"
	typeIndexName    = "GSI1"
	maxTransactItems = 100
)

func strPtr(s string) *string { return &s }

func int32Ptr(n int32) *int32 { return &n }
