package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/identity"
	"github.com/furnishd/staging-service/internal/model"
	"github.com/furnishd/staging-service/internal/room"
	"github.com/furnishd/staging-service/pkg/logger"
)

func newManager(store docstore.Store) room.UseCase {
	return NewRoomUseCase(store, logger.NewNopLogger())
}

func seedList(t *testing.T, store docstore.Store, id string, status model.ListStatus) {
	t.Helper()
	l := &model.List{
		ID:          id,
		Address:     "12 Main St",
		Client:      "Acme Staging",
		Status:      status,
		ListType:    model.TypePullList,
		CreatedDate: time.Now(),
	}
	if err := store.Set(context.Background(), model.CollectionPullLists, id, l); err != nil {
		t.Fatalf("seed list %s: %v", id, err)
	}
}

func seedItem(t *testing.T, store docstore.Store, id, modelID string) {
	t.Helper()
	item := &model.Item{ID: id, ModelID: modelID, ListID: "WH1", IsAvailable: true}
	if err := store.Set(context.Background(), model.CollectionItems, id, item); err != nil {
		t.Fatalf("seed item %s: %v", id, err)
	}
}

func mustCreateRoom(t *testing.T, mgr room.UseCase, listID, name string) string {
	t.Helper()
	created, err := mgr.CreateEmptyRoom(context.Background(), listID, name)
	if err != nil {
		t.Fatalf("create room %q: %v", name, err)
	}
	if !created {
		t.Fatalf("room %q not created", name)
	}
	return identity.RoomID(listID, name)
}

func fetchRoom(t *testing.T, mgr room.UseCase, listID, roomID string) *model.Room {
	t.Helper()
	r, err := mgr.GetRoom(context.Background(), listID, roomID)
	if err != nil {
		t.Fatalf("get room %s: %v", roomID, err)
	}
	return r
}

func TestCreateEmptyRoomRejectsEquivalentNames(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusPlanning)

	mustCreateRoom(t, mgr, "pl1", "Living Room")

	// "living  ROOM" normalizes to the same id as "Living Room".
	created, err := mgr.CreateEmptyRoom(ctx, "pl1", "living  ROOM")
	if err != nil {
		t.Fatalf("create duplicate: %v", err)
	}
	if created {
		t.Fatal("expected duplicate room name to be rejected")
	}

	var list model.List
	if err := store.Get(ctx, model.CollectionPullLists, "pl1", &list); err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(list.RoomIDs) != 1 {
		t.Fatalf("list has %d rooms, want 1", len(list.RoomIDs))
	}

	// A distinct name on the same list is fine.
	mustCreateRoom(t, mgr, "pl1", "Bedroom")
}

func TestCreateEmptyRoomNonEditableList(t *testing.T) {
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusInstalled)

	if _, err := mgr.CreateEmptyRoom(context.Background(), "pl1", "Living Room"); err == nil {
		t.Fatal("expected error creating room on an installed list")
	}
}

func TestAddSelectDeselect(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusPlanning)
	seedItem(t, store, "i1", "mX")
	roomID := mustCreateRoom(t, mgr, "pl1", "Living Room")

	added, err := mgr.AddItemToRoom(ctx, "pl1", roomID, "i1")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if !added {
		t.Fatal("item not added")
	}
	if r := fetchRoom(t, mgr, "pl1", roomID); r.ItemModelIDMap["i1"] != "mX" {
		t.Fatalf("membership missing model id: %+v", r.ItemModelIDMap)
	}

	// Adding twice is a no-op reported as false.
	added, err = mgr.AddItemToRoom(ctx, "pl1", roomID, "i1")
	if err != nil {
		t.Fatalf("re-add item: %v", err)
	}
	if added {
		t.Fatal("duplicate add reported as added")
	}

	if err := mgr.SelectItem(ctx, "pl1", roomID, "i1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if r := fetchRoom(t, mgr, "pl1", roomID); !r.SelectedItemIDSet["i1"] {
		t.Fatal("item not selected")
	}

	// Selecting a non-member must not grow the selection.
	if err := mgr.SelectItem(ctx, "pl1", roomID, "stranger"); err != nil {
		t.Fatalf("select non-member: %v", err)
	}
	if r := fetchRoom(t, mgr, "pl1", roomID); len(r.SelectedItemIDSet) != 1 {
		t.Fatalf("selection = %v, want only i1", r.SelectedItemIDSet)
	}

	if err := mgr.DeselectItem(ctx, "pl1", roomID, "i1"); err != nil {
		t.Fatalf("deselect: %v", err)
	}
	if r := fetchRoom(t, mgr, "pl1", roomID); len(r.SelectedItemIDSet) != 0 {
		t.Fatalf("selection not cleared: %v", r.SelectedItemIDSet)
	}
}

func TestAddItemUnknownItem(t *testing.T) {
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusPlanning)
	roomID := mustCreateRoom(t, mgr, "pl1", "Living Room")

	if _, err := mgr.AddItemToRoom(context.Background(), "pl1", roomID, "ghost"); err == nil {
		t.Fatal("expected error adding an unknown item")
	}
}

func TestMoveItemToRoom(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusPlanning)
	seedItem(t, store, "i1", "mX")
	fromID := mustCreateRoom(t, mgr, "pl1", "Living Room")
	toID := mustCreateRoom(t, mgr, "pl1", "Bedroom")

	if _, err := mgr.AddItemToRoom(ctx, "pl1", fromID, "i1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := mgr.SelectItem(ctx, "pl1", fromID, "i1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	moved, err := mgr.MoveItemToRoom(ctx, "pl1", "i1", fromID, toID)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !moved {
		t.Fatal("item not moved")
	}

	from := fetchRoom(t, mgr, "pl1", fromID)
	if _, present := from.ItemModelIDMap["i1"]; present {
		t.Fatal("item still a member of the source room")
	}
	if from.SelectedItemIDSet["i1"] {
		t.Fatal("item still selected in the source room")
	}
	to := fetchRoom(t, mgr, "pl1", toID)
	if to.ItemModelIDMap["i1"] != "mX" {
		t.Fatalf("target room missing item: %+v", to.ItemModelIDMap)
	}
	// Selection does not travel with the item.
	if to.SelectedItemIDSet["i1"] {
		t.Fatal("selection leaked into the target room")
	}
}

func TestMoveItemNoOps(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusPlanning)
	seedItem(t, store, "i1", "mX")
	fromID := mustCreateRoom(t, mgr, "pl1", "Living Room")
	toID := mustCreateRoom(t, mgr, "pl1", "Bedroom")

	// Same source and target.
	if moved, err := mgr.MoveItemToRoom(ctx, "pl1", "i1", fromID, fromID); err != nil || moved {
		t.Fatalf("same-room move: moved=%v err=%v", moved, err)
	}

	// Item absent from the source.
	if moved, err := mgr.MoveItemToRoom(ctx, "pl1", "i1", fromID, toID); err != nil || moved {
		t.Fatalf("absent move: moved=%v err=%v", moved, err)
	}

	// Item already present in the target.
	if _, err := mgr.AddItemToRoom(ctx, "pl1", fromID, "i1"); err != nil {
		t.Fatalf("add to source: %v", err)
	}
	if _, err := mgr.AddItemToRoom(ctx, "pl1", toID, "i1"); err != nil {
		t.Fatalf("add to target: %v", err)
	}
	moved, err := mgr.MoveItemToRoom(ctx, "pl1", "i1", fromID, toID)
	if err != nil {
		t.Fatalf("conflicting move: %v", err)
	}
	if moved {
		t.Fatal("move reported despite item already in target")
	}
	if r := fetchRoom(t, mgr, "pl1", fromID); r.ItemModelIDMap["i1"] != "mX" {
		t.Fatal("failed move must leave the source untouched")
	}
}

func TestRemoveItemFromRoom(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	mgr := newManager(store)
	seedList(t, store, "pl1", model.StatusPlanning)
	seedItem(t, store, "i1", "mX")
	roomID := mustCreateRoom(t, mgr, "pl1", "Living Room")

	if _, err := mgr.AddItemToRoom(ctx, "pl1", roomID, "i1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := mgr.SelectItem(ctx, "pl1", roomID, "i1"); err != nil {
		t.Fatalf("select: %v", err)
	}

	removed, err := mgr.RemoveItemFromRoom(ctx, "pl1", roomID, "i1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed {
		t.Fatal("item not removed")
	}
	r := fetchRoom(t, mgr, "pl1", roomID)
	if len(r.ItemModelIDMap) != 0 || len(r.SelectedItemIDSet) != 0 {
		t.Fatalf("removal left residue: membership=%v selection=%v", r.ItemModelIDMap, r.SelectedItemIDSet)
	}

	// Removing again reports false.
	removed, err = mgr.RemoveItemFromRoom(ctx, "pl1", roomID, "i1")
	if err != nil {
		t.Fatalf("re-remove: %v", err)
	}
	if removed {
		t.Fatal("second removal reported as removed")
	}
}
