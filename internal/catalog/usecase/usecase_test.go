package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/furnishd/staging-service/internal/catalog"
	"github.com/furnishd/staging-service/internal/catalog/dto"
	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/model"
	"github.com/furnishd/staging-service/pkg/logger"
)

func newCatalog(store docstore.Store) catalog.UseCase {
	return NewCatalogUseCase(store, nil, nil, logger.NewNopLogger())
}

func createModel(t *testing.T, uc catalog.UseCase, name, typ string, n int) *model.Model {
	t.Helper()
	m, err := uc.CreateModel(context.Background(), &dto.CreateModelInput{
		Name:             name,
		Type:             typ,
		PrimaryColor:     "oak",
		PrimaryMaterial:  "wood",
		InitialItemCount: n,
		WarehouseID:      "WH1",
	})
	if err != nil {
		t.Fatalf("create model %q: %v", name, err)
	}
	return m
}

func TestCreateModelSeedsItems(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)

	m := createModel(t, uc, "Oslo Sofa", "sofa", 3)
	if m.AvailableItemCount != 3 || len(m.ItemIDs) != 3 {
		t.Fatalf("model after create: count=%d items=%d", m.AvailableItemCount, len(m.ItemIDs))
	}

	for _, itemID := range m.ItemIDs {
		item, err := uc.GetItem(ctx, itemID)
		if err != nil {
			t.Fatalf("get item %s: %v", itemID, err)
		}
		if item.ModelID != m.ID || !item.IsAvailable || item.ListID != "WH1" {
			t.Fatalf("seeded item: %+v", item)
		}
	}
}

func TestAddItems(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	m := createModel(t, uc, "Oslo Sofa", "sofa", 1)

	ids, err := uc.AddItems(ctx, m.ID, 2, "WH1")
	if err != nil {
		t.Fatalf("add items: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d new ids, want 2", len(ids))
	}

	got, err := uc.GetModel(ctx, m.ID)
	if err != nil {
		t.Fatalf("get model: %v", err)
	}
	if got.AvailableItemCount != 3 || len(got.ItemIDs) != 3 {
		t.Fatalf("model after add: count=%d items=%d", got.AvailableItemCount, len(got.ItemIDs))
	}

	if _, err := uc.AddItems(ctx, m.ID, 0, "WH1"); err == nil {
		t.Fatal("expected error for non-positive count")
	}
	if _, err := uc.AddItems(ctx, "missing", 1, "WH1"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	m := createModel(t, uc, "Oslo Sofa", "sofa", 2)
	victim := m.ItemIDs[0]

	if err := uc.RemoveItem(ctx, m.ID, victim); err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if _, err := uc.GetItem(ctx, victim); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("removed item still readable: %v", err)
	}
	got, _ := uc.GetModel(ctx, m.ID)
	if got.AvailableItemCount != 1 || len(got.ItemIDs) != 1 {
		t.Fatalf("model after remove: count=%d items=%d", got.AvailableItemCount, len(got.ItemIDs))
	}
}

func TestRemoveItemGuards(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	m := createModel(t, uc, "Oslo Sofa", "sofa", 1)
	other := createModel(t, uc, "Malmo Chair", "chair", 1)

	// Wrong model.
	if err := uc.RemoveItem(ctx, m.ID, other.ItemIDs[0]); err == nil {
		t.Fatal("expected error removing another model's item")
	}

	// Reserved item.
	reserved := &model.Item{ID: m.ItemIDs[0], ModelID: m.ID, ListID: "list-7", IsAvailable: false}
	if err := store.Set(ctx, model.CollectionItems, reserved.ID, reserved); err != nil {
		t.Fatalf("seed reserved: %v", err)
	}
	if err := uc.RemoveItem(ctx, m.ID, reserved.ID); err == nil {
		t.Fatal("expected error removing a reserved item")
	}
	// The guard must leave the item in place.
	if _, err := uc.GetItem(ctx, reserved.ID); err != nil {
		t.Fatalf("reserved item deleted by failed remove: %v", err)
	}
}

func TestDeleteModel(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	m := createModel(t, uc, "Oslo Sofa", "sofa", 2)

	if err := uc.DeleteModel(ctx, m.ID); err != nil {
		t.Fatalf("delete model: %v", err)
	}
	if _, err := uc.GetModel(ctx, m.ID); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("model still readable: %v", err)
	}
	for _, itemID := range m.ItemIDs {
		if _, err := uc.GetItem(ctx, itemID); !errors.Is(err, docstore.ErrNotFound) {
			t.Fatalf("item %s still readable: %v", itemID, err)
		}
	}
}

func TestDeleteModelRejectsReservedItems(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	m := createModel(t, uc, "Oslo Sofa", "sofa", 2)

	reserved := &model.Item{ID: m.ItemIDs[1], ModelID: m.ID, ListID: "list-7", IsAvailable: false}
	if err := store.Set(ctx, model.CollectionItems, reserved.ID, reserved); err != nil {
		t.Fatalf("seed reserved: %v", err)
	}

	if err := uc.DeleteModel(ctx, m.ID); err == nil {
		t.Fatal("expected delete to fail while an item is installed")
	}
	// The failed delete must not take the available sibling with it.
	if _, err := uc.GetItem(ctx, m.ItemIDs[0]); err != nil {
		t.Fatalf("sibling item deleted by failed model delete: %v", err)
	}
	if _, err := uc.GetModel(ctx, m.ID); err != nil {
		t.Fatalf("model deleted despite reserved item: %v", err)
	}
}

func TestListModelsFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	createModel(t, uc, "Oslo Sofa", "sofa", 1)
	createModel(t, uc, "Malmo Chair", "chair", 1)
	createModel(t, uc, "Bergen Sofa", "sofa", 1)

	models, count, err := uc.ListModels(ctx, &dto.ModelFilters{Type: "sofa"})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if count != 2 || len(models) != 2 {
		t.Fatalf("type filter: count=%d len=%d", count, len(models))
	}

	models, count, err = uc.ListModels(ctx, &dto.ModelFilters{SearchQuery: "oslo"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if count != 1 || models[0].Name != "Oslo Sofa" {
		t.Fatalf("name filter: count=%d models=%+v", count, models)
	}

	models, count, err = uc.ListModels(ctx, &dto.ModelFilters{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if count != 3 || len(models) != 1 {
		t.Fatalf("pagination: count=%d len=%d", count, len(models))
	}
}

func TestItemAttention(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	uc := newCatalog(store)
	m := createModel(t, uc, "Oslo Sofa", "sofa", 1)
	itemID := m.ItemIDs[0]

	if err := uc.SetItemAttention(ctx, itemID, "scratched arm"); err != nil {
		t.Fatalf("set attention: %v", err)
	}
	item, _ := uc.GetItem(ctx, itemID)
	if !item.Attention || item.AttentionReason != "scratched arm" {
		t.Fatalf("attention not set: %+v", item)
	}
	// Flagging never touches availability.
	if !item.IsAvailable {
		t.Fatal("attention flag changed availability")
	}

	if err := uc.ClearItemAttention(ctx, itemID); err != nil {
		t.Fatalf("clear attention: %v", err)
	}
	item, _ = uc.GetItem(ctx, itemID)
	if item.Attention || item.AttentionReason != "" {
		t.Fatalf("attention not cleared: %+v", item)
	}
}
