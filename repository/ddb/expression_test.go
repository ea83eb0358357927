/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/storefront/predicate"
)

func TestCompileFilter(t *testing.T) {
	t.Run("NilPredicate", func(t *testing.T) {
		expr, names, values, err := compileFilter(nil)
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if expr != nil || names != nil || values != nil {
			t.Error("expected nil predicate to compile to no expression")
		}
	})

	t.Run("MatchAll", func(t *testing.T) {
		expr, _, _, err := compileFilter(predicate.All())
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if expr != nil {
			t.Errorf("expected match-all to compile to no expression, got %s", *expr)
		}
	})

	t.Run("SingleCondition", func(t *testing.T) {
		expr, names, values, err := compileFilter(predicate.Eq("Status", "OPEN"))
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if *expr != "#f0 = :v0" {
			t.Errorf("unexpected expression %s", *expr)
		}
		if names["#f0"] != "Status" {
			t.Errorf("unexpected name map %v", names)
		}
		val := values[":v0"].(*types.AttributeValueMemberS)
		if val.Value != "OPEN" {
			t.Errorf("unexpected value %s", val.Value)
		}
	})

	t.Run("NumericComparison", func(t *testing.T) {
		expr, _, values, err := compileFilter(predicate.Ge("Total", 100.0))
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if *expr != "#f0 >= :v0" {
			t.Errorf("unexpected expression %s", *expr)
		}
		if _, ok := values[":v0"].(*types.AttributeValueMemberN); !ok {
			t.Errorf("expected numeric attribute value, got %T", values[":v0"])
		}
	})

	t.Run("Composite", func(t *testing.T) {
		p := predicate.And(
			predicate.Eq("Status", "OPEN"),
			predicate.Not(predicate.BeginsWith("Name", "test")),
		)
		expr, names, _, err := compileFilter(p)
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if !strings.Contains(*expr, " AND ") {
			t.Errorf("expected conjunction in %s", *expr)
		}
		if !strings.Contains(*expr, "NOT begins_with(") {
			t.Errorf("expected negated begins_with in %s", *expr)
		}
		if len(names) != 2 {
			t.Errorf("expected two name placeholders, got %v", names)
		}
	})

	t.Run("Disjunction", func(t *testing.T) {
		p := predicate.Or(predicate.Eq("Status", "OPEN"), predicate.Eq("Status", "SHIPPED"))
		expr, _, values, err := compileFilter(p)
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if *expr != "(#f0 = :v0 OR #f1 = :v1)" {
			t.Errorf("unexpected expression %s", *expr)
		}
		if len(values) != 2 {
			t.Errorf("expected two value placeholders, got %v", values)
		}
	})
}

func TestBuildUpdateExpression(t *testing.T) {
	expr, names, values, err := buildUpdateExpression(map[string]any{
		"Total":  250.0,
		"Status": "SHIPPED",
	})
	if err != nil {
		t.Fatalf("buildUpdateExpression failed: %v", err)
	}

	// Fields emit in sorted order, so the expression is deterministic.
	if expr != "SET #u0 = :u0, #u1 = :u1" {
		t.Errorf("unexpected expression %s", expr)
	}
	if names["#u0"] != "Status" || names["#u1"] != "Total" {
		t.Errorf("unexpected name map %v", names)
	}
	status := values[":u0"].(*types.AttributeValueMemberS)
	if status.Value != "SHIPPED" {
		t.Errorf("unexpected status value %s", status.Value)
	}
	if _, ok := values[":u1"].(*types.AttributeValueMemberN); !ok {
		t.Errorf("expected numeric total, got %T", values[":u1"])
	}
}
