/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/storefront/models"
)

func TestExpandMacros(t *testing.T) {
	t.Run("CustomerKeys", func(t *testing.T) {
		customer := models.Customer{ID: "C1"}
		expanded, err := expandMacros(models.CustomerDescriptor().KeyPattern, customer)
		if err != nil {
			t.Fatalf("expandMacros failed: %v", err)
		}
		if expanded["PK"] != "CUSTOMER#C1" || expanded["SK"] != "CUSTOMER#C1" {
			t.Errorf("unexpected primary key: PK=%s SK=%s", expanded["PK"], expanded["SK"])
		}
		if expanded["PK1"] != "CUSTOMER" || expanded["SK1"] != "CUSTOMER#C1" {
			t.Errorf("unexpected index key: PK1=%s SK1=%s", expanded["PK1"], expanded["SK1"])
		}
	})

	t.Run("OrderKeysInParentPartition", func(t *testing.T) {
		order := models.Order{ID: "O1", CustomerID: "C1"}
		expanded, err := expandMacros(models.OrderDescriptor().KeyPattern, order)
		if err != nil {
			t.Fatalf("expandMacros failed: %v", err)
		}
		if expanded["PK"] != "CUSTOMER#C1" {
			t.Errorf("expected order in customer partition, got PK=%s", expanded["PK"])
		}
		if expanded["SK"] != "ORDER#O1" {
			t.Errorf("unexpected SK=%s", expanded["SK"])
		}
	})

	t.Run("PointerEntity", func(t *testing.T) {
		customer := &models.Customer{ID: "C2"}
		expanded, err := expandMacros(models.CustomerDescriptor().KeyPattern, customer)
		if err != nil {
			t.Fatalf("expandMacros failed: %v", err)
		}
		if expanded["PK"] != "CUSTOMER#C2" {
			t.Errorf("unexpected PK=%s", expanded["PK"])
		}
	})

	t.Run("MissingField", func(t *testing.T) {
		pattern := map[string]string{"PK": "THING#{Nonexistent}"}
		if _, err := expandMacros(pattern, models.Customer{ID: "C1"}); err == nil {
			t.Error("expected error for template referencing missing field")
		}
	})
}

func TestKeyFromID(t *testing.T) {
	t.Run("IdentityOnlyPattern", func(t *testing.T) {
		key, ok := keyFromID(models.CustomerDescriptor().KeyPattern, "C1")
		if !ok {
			t.Fatal("expected identity-only pattern to build a key")
		}
		pk := key["PK"].(*types.AttributeValueMemberS)
		if pk.Value != "CUSTOMER#C1" {
			t.Errorf("unexpected PK value %s", pk.Value)
		}
	})

	t.Run("ForeignKeyPattern", func(t *testing.T) {
		if _, ok := keyFromID(models.OrderDescriptor().KeyPattern, "O1"); ok {
			t.Error("expected pattern referencing CustomerID to refuse an identity-only key")
		}
	})
}

func TestTypeIndexSortKeyForID(t *testing.T) {
	sk, err := typeIndexSortKeyForID(models.OrderDescriptor().KeyPattern, "O1")
	if err != nil {
		t.Fatalf("typeIndexSortKeyForID failed: %v", err)
	}
	if sk != "ORDER#O1" {
		t.Errorf("unexpected SK1 value %s", sk)
	}

	bad := map[string]string{"SK1": "ORDER#{CustomerID}"}
	if _, err := typeIndexSortKeyForID(bad, "O1"); err == nil {
		t.Error("expected error for SK1 not keyed on identity")
	}
}

func TestMacroPrefix(t *testing.T) {
	if got := macroPrefix("ORDER#{ID}"); got != "ORDER#" {
		t.Errorf("expected ORDER# prefix, got %s", got)
	}
	if got := macroPrefix("ORDER"); got != "ORDER" {
		t.Errorf("expected literal passthrough, got %s", got)
	}
}
