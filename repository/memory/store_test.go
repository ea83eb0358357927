/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/suparena/storefront/errors"
	"github.com/suparena/storefront/models"
	"github.com/suparena/storefront/predicate"
	"github.com/suparena/storefront/storagemodels"
)

func newTestRepos(t *testing.T) (*Store, *Repository[models.Customer], *Repository[models.Order]) {
	t.Helper()
	store := NewStore()
	customers, err := NewRepository[models.Customer](store)
	if err != nil {
		t.Fatalf("failed to create customer repository: %v", err)
	}
	orders, err := NewRepository[models.Order](store)
	if err != nil {
		t.Fatalf("failed to create order repository: %v", err)
	}
	return store, customers, orders
}

func seedCustomer(t *testing.T, repo *Repository[models.Customer], id, name, email string) *models.Customer {
	t.Helper()
	created, err := repo.Create(context.Background(), models.Customer{ID: id, Name: name, Email: email})
	if err != nil {
		t.Fatalf("failed to seed customer %s: %v", id, err)
	}
	return created
}

func seedOrder(t *testing.T, repo *Repository[models.Order], id, customerID, status string, total float64) {
	t.Helper()
	_, err := repo.Create(context.Background(), models.Order{
		ID: id, CustomerID: customerID, Status: status, Total: total,
	})
	if err != nil {
		t.Fatalf("failed to seed order %s: %v", id, err)
	}
}

func TestCreateAndGet(t *testing.T) {
	_, customers, _ := newTestRepos(t)
	ctx := context.Background()

	t.Run("AssignsIdentityAndTimestamps", func(t *testing.T) {
		created, err := customers.Create(ctx, models.Customer{Name: "Ada", Email: "ada@example.com"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("expected identity to be assigned")
		}
		if time.Time(created.CreatedAt).IsZero() || time.Time(created.UpdatedAt).IsZero() {
			t.Error("expected audit timestamps to be stamped")
		}

		got, err := customers.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Name != "Ada" || got.Email != "ada@example.com" {
			t.Errorf("round-trip mismatch: %+v", got)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := customers.GetByID(ctx, "no-such-id")
		if !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("ConflictOnDuplicateID", func(t *testing.T) {
		seedCustomer(t, customers, "C-DUP", "First", "first@example.com")
		_, err := customers.Create(ctx, models.Customer{ID: "C-DUP", Name: "Second"})
		if !errors.IsConflict(err) {
			t.Errorf("expected Conflict, got %v", err)
		}
	})
}

func TestUpdate(t *testing.T) {
	_, customers, _ := newTestRepos(t)
	ctx := context.Background()

	t.Run("AppliesAllowListedFields", func(t *testing.T) {
		created := seedCustomer(t, customers, "C1", "Ada", "ada@example.com")

		err := customers.Update(ctx, "C1", map[string]any{
			"Name":  "Ada Lovelace",
			"Email": "lovelace@example.com",
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := customers.GetByID(ctx, "C1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Name != "Ada Lovelace" || got.Email != "lovelace@example.com" {
			t.Errorf("changes not applied: %+v", got)
		}
		if time.Time(got.UpdatedAt).Before(time.Time(created.UpdatedAt)) {
			t.Error("expected UpdatedAt to move forward")
		}
	})

	t.Run("IdentityAndCreatedAtImmutable", func(t *testing.T) {
		created := seedCustomer(t, customers, "C2", "Grace", "grace@example.com")

		err := customers.Update(ctx, "C2", map[string]any{
			"ID":        "C2-HIJACKED",
			"CreatedAt": time.Now().Add(time.Hour),
			"Name":      "Grace Hopper",
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := customers.GetByID(ctx, "C2")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.ID != "C2" {
			t.Errorf("identity changed to %s", got.ID)
		}
		if !time.Time(got.CreatedAt).Equal(time.Time(created.CreatedAt)) {
			t.Error("CreatedAt changed on update")
		}
		if got.Name != "Grace Hopper" {
			t.Error("allow-listed change was not applied alongside ignored fields")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := customers.Update(ctx, "no-such-id", map[string]any{"Name": "X"})
		if !errors.IsNotFound(err) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})
}

func TestListPaged(t *testing.T) {
	_, customers, _ := newTestRepos(t)
	ctx := context.Background()

	names := []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Tony"}
	for i, name := range names {
		seedCustomer(t, customers, "C"+string(rune('A'+i)), name, name+"@example.com")
	}
	ordering := predicate.By("Name")

	t.Run("WindowsPartitionTheResultSet", func(t *testing.T) {
		total, err := customers.Count(ctx, nil)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}

		var union []string
		for pageIndex := 0; ; pageIndex++ {
			page, err := customers.ListPaged(ctx,
				storagemodels.PageRequest{PageIndex: pageIndex, PageSize: 3},
				storagemodels.ListParams{Ordering: ordering})
			if err != nil {
				t.Fatalf("ListPaged failed: %v", err)
			}
			if page.TotalItems != total {
				t.Errorf("page %d reports total %d, want %d", pageIndex, page.TotalItems, total)
			}
			if len(page.Items) > 3 {
				t.Errorf("page %d has %d items, want at most 3", pageIndex, len(page.Items))
			}
			if len(page.Items) == 0 {
				break
			}
			for _, c := range page.Items {
				union = append(union, c.Name)
			}
		}
		if len(union) != total {
			t.Errorf("union of pages has %d items, want %d", len(union), total)
		}
		for i := 1; i < len(union); i++ {
			if union[i-1] > union[i] {
				t.Errorf("pages out of order at %d: %s > %s", i, union[i-1], union[i])
			}
		}
	})

	t.Run("PastTheEndIsEmpty", func(t *testing.T) {
		page, err := customers.ListPaged(ctx,
			storagemodels.PageRequest{PageIndex: 99, PageSize: 3},
			storagemodels.ListParams{Ordering: ordering})
		if err != nil {
			t.Fatalf("ListPaged failed: %v", err)
		}
		if len(page.Items) != 0 {
			t.Errorf("expected empty window, got %d items", len(page.Items))
		}
		if page.TotalItems != len(names) {
			t.Errorf("expected total %d on past-the-end page, got %d", len(names), page.TotalItems)
		}
	})

	t.Run("InvalidPageRequest", func(t *testing.T) {
		_, err := customers.ListPaged(ctx,
			storagemodels.PageRequest{PageIndex: 0, PageSize: 0},
			storagemodels.ListParams{})
		if !errors.IsInvalidArgument(err) {
			t.Errorf("expected InvalidArgument for zero page size, got %v", err)
		}

		_, err = customers.ListPaged(ctx,
			storagemodels.PageRequest{PageIndex: -1, PageSize: 3},
			storagemodels.ListParams{})
		if !errors.IsInvalidArgument(err) {
			t.Errorf("expected InvalidArgument for negative page index, got %v", err)
		}
	})

	t.Run("FilterAppliesBeforeWindowing", func(t *testing.T) {
		filter := predicate.BeginsWith("Name", "A")
		page, err := customers.ListPaged(ctx,
			storagemodels.PageRequest{PageIndex: 0, PageSize: 10},
			storagemodels.ListParams{Predicate: filter, Ordering: ordering})
		if err != nil {
			t.Fatalf("ListPaged failed: %v", err)
		}
		if page.TotalItems != 2 || len(page.Items) != 2 {
			t.Fatalf("expected the two A-names, got total=%d items=%d", page.TotalItems, len(page.Items))
		}
		if page.Items[0].Name != "Ada" || page.Items[1].Name != "Alan" {
			t.Errorf("unexpected filtered window: %+v", page.Items)
		}
	})
}

func TestOrderingDirections(t *testing.T) {
	_, _, orders := newTestRepos(t)
	ctx := context.Background()

	seedOrder(t, orders, "O1", "C1", models.OrderStatusOpen, 30)
	seedOrder(t, orders, "O2", "C1", models.OrderStatusShipped, 10)
	seedOrder(t, orders, "O3", "C1", models.OrderStatusOpen, 20)

	got, err := orders.List(ctx, storagemodels.ListParams{
		Ordering: predicate.ByDesc("Total"),
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got[0].ID != "O1" || got[1].ID != "O3" || got[2].ID != "O2" {
		t.Errorf("unexpected descending order: %+v", got)
	}

	got, err = orders.List(ctx, storagemodels.ListParams{
		Ordering: predicate.By("Status").ThenDesc("Total"),
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got[0].ID != "O1" || got[1].ID != "O3" || got[2].ID != "O2" {
		t.Errorf("unexpected composite order: %+v", got)
	}
}

func TestCascadeDelete(t *testing.T) {
	_, customers, orders := newTestRepos(t)
	ctx := context.Background()

	seedCustomer(t, customers, "C1", "Ada", "ada@example.com")
	seedCustomer(t, customers, "C2", "Grace", "grace@example.com")
	seedOrder(t, orders, "O1", "C1", models.OrderStatusOpen, 10)
	seedOrder(t, orders, "O2", "C1", models.OrderStatusShipped, 20)
	seedOrder(t, orders, "O3", "C2", models.OrderStatusOpen, 30)

	if err := customers.Delete(ctx, "C1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := customers.GetByID(ctx, "C1"); !errors.IsNotFound(err) {
		t.Errorf("expected customer gone, got %v", err)
	}
	exists, err := orders.Exists(ctx, predicate.Eq("CustomerID", "C1"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected cascade to remove all orders of the deleted customer")
	}

	// Unrelated rows survive.
	if _, err := orders.GetByID(ctx, "O3"); err != nil {
		t.Errorf("expected other customer's order to survive, got %v", err)
	}

	if err := customers.Delete(ctx, "C1"); !errors.IsNotFound(err) {
		t.Errorf("expected NotFound on double delete, got %v", err)
	}
}

func TestRelationInclusion(t *testing.T) {
	_, customers, orders := newTestRepos(t)
	ctx := context.Background()

	seedCustomer(t, customers, "C1", "Ada", "ada@example.com")
	seedCustomer(t, customers, "C2", "Grace", "grace@example.com")
	seedOrder(t, orders, "O2", "C1", models.OrderStatusOpen, 20)
	seedOrder(t, orders, "O1", "C1", models.OrderStatusShipped, 10)

	t.Run("LoadsOwnedChildren", func(t *testing.T) {
		got, err := customers.List(ctx, storagemodels.ListParams{
			Ordering: predicate.By("Name"),
			Include:  []string{"Orders"},
		})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		ada := got[0]
		if len(ada.Orders) != 2 {
			t.Fatalf("expected 2 orders for Ada, got %d", len(ada.Orders))
		}
		if ada.Orders[0].ID != "O1" || ada.Orders[1].ID != "O2" {
			t.Errorf("expected deterministic child order, got %+v", ada.Orders)
		}
		if len(got[1].Orders) != 0 {
			t.Errorf("expected no orders for Grace, got %d", len(got[1].Orders))
		}
	})

	t.Run("WithoutIncludeRelationStaysEmpty", func(t *testing.T) {
		got, err := customers.GetByID(ctx, "C1")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Orders != nil {
			t.Errorf("expected relation field empty without include, got %+v", got.Orders)
		}
	})

	t.Run("UnknownRelation", func(t *testing.T) {
		_, err := customers.List(ctx, storagemodels.ListParams{Include: []string{"Invoices"}})
		if !errors.IsInvalidArgument(err) {
			t.Errorf("expected InvalidArgument for unknown relation, got %v", err)
		}
	})
}

func TestSaveIsNoop(t *testing.T) {
	_, customers, _ := newTestRepos(t)
	n, err := customers.Save(context.Background())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 pending changes, got %d", n)
	}
}

func TestStoreUnavailable(t *testing.T) {
	store, customers, _ := newTestRepos(t)
	ctx := context.Background()
	seedCustomer(t, customers, "C1", "Ada", "ada@example.com")

	cause := stderrors.New("connection refused")
	store.FailWith(cause)
	defer store.FailWith(nil)

	_, err := customers.GetByID(ctx, "C1")
	if !errors.IsStoreUnavailable(err) {
		t.Fatalf("expected StoreUnavailable, got %v", err)
	}
	// The cause stays inspectable but out of the message.
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be inspectable")
	}

	if _, err := customers.Create(ctx, models.Customer{Name: "X"}); !errors.IsStoreUnavailable(err) {
		t.Errorf("expected StoreUnavailable on create, got %v", err)
	}
	if err := customers.Delete(ctx, "C1"); !errors.IsStoreUnavailable(err) {
		t.Errorf("expected StoreUnavailable on delete, got %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	_, customers, _ := newTestRepos(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := customers.GetByID(ctx, "C1"); !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
