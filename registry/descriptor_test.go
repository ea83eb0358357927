/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"os"
	"path/filepath"
	"testing"
)

type regCustomer struct {
	ID    string
	Name  string
	Email string
}

type regOrder struct {
	ID         string
	CustomerID string
}

func testCustomerDescriptor() Descriptor {
	return Descriptor{
		EntityType: "REG_CUSTOMER",
		KeyPattern: map[string]string{
			"PK": "REG_CUSTOMER#{ID}",
			"SK": "REG_CUSTOMER#{ID}",
		},
		MutableFields: []string{"Name", "Email"},
		Relations: []Relation{{
			Name:            "Orders",
			ChildEntityType: "REG_ORDER",
			ForeignKey:      "CustomerID",
			ParentField:     "Orders",
			CascadeDelete:   true,
		}},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	RegisterDescriptor[regCustomer](testCustomerDescriptor())
	RegisterDescriptor[regOrder](Descriptor{
		EntityType: "REG_ORDER",
		KeyPattern: map[string]string{
			"PK": "REG_CUSTOMER#{CustomerID}",
			"SK": "REG_ORDER#{ID}",
		},
		MutableFields: []string{"Status"},
	})

	t.Run("ByGoType", func(t *testing.T) {
		d, ok := DescriptorFor[regCustomer]()
		if !ok {
			t.Fatal("expected descriptor for regCustomer")
		}
		if d.EntityType != "REG_CUSTOMER" {
			t.Errorf("unexpected entity type %q", d.EntityType)
		}
	})

	t.Run("ByEntityType", func(t *testing.T) {
		d, goType, ok := DescriptorForEntityType("REG_ORDER")
		if !ok {
			t.Fatal("expected descriptor for REG_ORDER")
		}
		if goType.Name() != "regOrder" {
			t.Errorf("unexpected Go type %v", goType)
		}
		if d.KeyPattern["SK"] != "REG_ORDER#{ID}" {
			t.Errorf("unexpected key pattern %v", d.KeyPattern)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, _, ok := DescriptorForEntityType("NOPE"); ok {
			t.Error("lookup of unknown entity type should fail")
		}
	})
}

func TestDescriptorHelpers(t *testing.T) {
	d := testCustomerDescriptor()

	if !d.IsMutable("Name") {
		t.Error("Name should be mutable")
	}
	if d.IsMutable("ID") {
		t.Error("ID must never be mutable")
	}
	if d.IsMutable("CreatedAt") {
		t.Error("CreatedAt must never be mutable")
	}

	rel, ok := d.Relation("Orders")
	if !ok || rel.ForeignKey != "CustomerID" {
		t.Errorf("unexpected relation lookup result: %+v ok=%v", rel, ok)
	}
	if _, ok := d.Relation("Invoices"); ok {
		t.Error("unknown relation lookup should fail")
	}

	cascades := d.CascadeRelations()
	if len(cascades) != 1 || cascades[0].Name != "Orders" {
		t.Errorf("unexpected cascade relations: %+v", cascades)
	}
}

func TestLoadDescriptorFile(t *testing.T) {
	content := `
CUSTOMER:
  keyPattern:
    PK: "CUSTOMER#{ID}"
    SK: "CUSTOMER#{ID}"
  mutableFields: [Name, Email]
  relations:
    - name: Orders
      childEntityType: ORDER
      foreignKey: CustomerID
      parentField: Orders
      cascadeDelete: true
ORDER:
  keyPattern:
    PK: "CUSTOMER#{CustomerID}"
    SK: "ORDER#{ID}"
  mutableFields: [Status, Total]
`
	path := filepath.Join(t.TempDir(), "descriptors.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	descriptors, err := LoadDescriptorFile(path)
	if err != nil {
		t.Fatalf("LoadDescriptorFile failed: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descriptors))
	}

	customer := descriptors["CUSTOMER"]
	if customer.KeyPattern["PK"] != "CUSTOMER#{ID}" {
		t.Errorf("unexpected key pattern %v", customer.KeyPattern)
	}
	if len(customer.Relations) != 1 || !customer.Relations[0].CascadeDelete {
		t.Errorf("unexpected relations %+v", customer.Relations)
	}

	order := descriptors["ORDER"]
	if !order.IsMutable("Status") || order.IsMutable("CustomerID") {
		t.Error("unexpected mutable field set for ORDER")
	}
}

func TestLoadDescriptorFileErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadDescriptorFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("MissingKeyPattern", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("CUSTOMER:\n  mutableFields: [Name]\n"), 0o600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		if _, err := LoadDescriptorFile(path); err == nil {
			t.Error("expected error for descriptor without key pattern")
		}
	})
}
