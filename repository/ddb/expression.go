/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	sferrors "github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/predicate"
)

// exprBuilder accumulates expression attribute names and values while a
// predicate tree is compiled into a DynamoDB filter expression.
type exprBuilder struct {
	names  map[string]string
	values map[string]types.AttributeValue
	n      int
}

func newExprBuilder() *exprBuilder {
	return &exprBuilder{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

func (b *exprBuilder) name(field string) string {
	ph := fmt.Sprintf("#f%d", b.n)
	b.names[ph] = field
	b.n++
	return ph
}

func (b *exprBuilder) value(v any) (string, error) {
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal predicate value: %w", err)
	}
	ph := fmt.Sprintf(":v%d", len(b.values))
	b.values[ph] = av
	return ph, nil
}

// compileFilter translates a predicate tree into a DynamoDB filter
// expression. A nil or match-all predicate compiles to no expression at all.
func compileFilter(p *predicate.Predicate) (*string, map[string]string, map[string]types.AttributeValue, error) {
	if p == nil || p.Kind == predicate.KindAll {
		return nil, nil, nil, nil
	}

	b := newExprBuilder()
	expr, err := b.compile(p)
	if err != nil {
		return nil, nil, nil, err
	}
	return &expr, b.names, b.values, nil
}

func (b *exprBuilder) compile(p *predicate.Predicate) (string, error) {
	switch p.Kind {
	case predicate.KindAll:
		// Match-all inside a composite contributes a tautology; DynamoDB has
		// no literal TRUE, so compare a constant with itself.
		ph, err := b.value(1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", ph, ph), nil

	case predicate.KindCondition:
		return b.compileCondition(p.Condition)

	case predicate.KindAnd, predicate.KindOr:
		op := " AND "
		if p.Kind == predicate.KindOr {
			op = " OR "
		}
		parts := make([]string, 0, len(p.Operands))
		for _, operand := range p.Operands {
			part, err := b.compile(operand)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		return "(" + strings.Join(parts, op) + ")", nil

	case predicate.KindNot:
		if len(p.Operands) != 1 {
			return "", sferrors.NewInvalidArgumentError("predicate", "NOT requires exactly one operand")
		}
		inner, err := b.compile(p.Operands[0])
		if err != nil {
			return "", err
		}
		return "(NOT " + inner + ")", nil
	}
	return "", sferrors.NewInvalidArgumentError("predicate", fmt.Sprintf("unknown predicate kind %d", p.Kind))
}

func (b *exprBuilder) compileCondition(c *predicate.Condition) (string, error) {
	namePh := b.name(c.Field)
	valuePh, err := b.value(c.Value)
	if err != nil {
		return "", err
	}

	switch c.Op {
	case predicate.OpEq:
		return fmt.Sprintf("%s = %s", namePh, valuePh), nil
	case predicate.OpNe:
		return fmt.Sprintf("%s <> %s", namePh, valuePh), nil
	case predicate.OpLt:
		return fmt.Sprintf("%s < %s", namePh, valuePh), nil
	case predicate.OpLe:
		return fmt.Sprintf("%s <= %s", namePh, valuePh), nil
	case predicate.OpGt:
		return fmt.Sprintf("%s > %s", namePh, valuePh), nil
	case predicate.OpGe:
		return fmt.Sprintf("%s >= %s", namePh, valuePh), nil
	case predicate.OpBeginsWith:
		return fmt.Sprintf("begins_with(%s, %s)", namePh, valuePh), nil
	case predicate.OpContains:
		return fmt.Sprintf("contains(%s, %s)", namePh, valuePh), nil
	}
	return "", sferrors.NewInvalidArgumentError("predicate", "unknown condition operator "+string(c.Op))
}

// buildUpdateExpression constructs a SET update expression from a map of
// attribute names to new values. Fields are emitted in sorted order so the
// expression is deterministic.
func buildUpdateExpression(changes map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	parts := make([]string, 0, len(fields))

	for i, field := range fields {
		av, err := attributevalue.Marshal(changes[field])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal value for %s: %w", field, err)
		}
		namePh := fmt.Sprintf("#u%d", i)
		valuePh := fmt.Sprintf(":u%d", i)
		names[namePh] = field
		values[valuePh] = av
		parts = append(parts, fmt.Sprintf("%s = %s", namePh, valuePh))
	}
	return "SET " + strings.Join(parts, ", "), names, values, nil
}
