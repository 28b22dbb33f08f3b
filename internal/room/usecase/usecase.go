package usecase

import (
	"context"
	"fmt"

	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/identity"
	"github.com/furnishd/staging-service/internal/model"
	"github.com/furnishd/staging-service/internal/room"
	"github.com/furnishd/staging-service/pkg/logger"
	"go.uber.org/zap"
)

type roomUseCase struct {
	store  docstore.Store
	logger logger.ZapLogger
}

func NewRoomUseCase(store docstore.Store, log logger.ZapLogger) room.UseCase {
	return &roomUseCase{
		store:  store,
		logger: log,
	}
}

func roomsPath(listID string) string {
	return model.RoomsCollection(model.CollectionPullLists, listID)
}

// editable reports whether a pull list's rooms may still be changed.
func editable(status model.ListStatus) bool {
	return status == model.StatusPlanning || status == model.StatusStaging
}

func (uc *roomUseCase) CreateEmptyRoom(ctx context.Context, listID, roomName string) (bool, error) {
	created := false
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var list model.List
		if err := tx.Get(model.CollectionPullLists, listID, &list); err != nil {
			return err
		}
		if !editable(list.Status) {
			return fmt.Errorf("list %s is not editable in status %s", listID, list.Status)
		}
		if identity.RoomNameExists(listID, roomName, list.RoomIDs) {
			return nil
		}

		newRoom := model.NewRoom(identity.RoomID(listID, roomName), roomName, listID)
		list.RoomIDs = append(list.RoomIDs, newRoom.ID)
		if err := tx.Set(roomsPath(listID), newRoom.ID, newRoom); err != nil {
			return err
		}
		if err := tx.Set(model.CollectionPullLists, listID, &list); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		uc.logger.Debug("created room", zap.String("list_id", listID), zap.String("room_name", roomName))
	}
	return created, nil
}

func (uc *roomUseCase) AddItemToRoom(ctx context.Context, listID, roomID, itemID string) (bool, error) {
	added := false
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var r model.Room
		if err := tx.Get(roomsPath(listID), roomID, &r); err != nil {
			return err
		}
		if _, exists := r.ItemModelIDMap[itemID]; exists {
			return nil
		}

		var item model.Item
		if err := tx.Get(model.CollectionItems, itemID, &item); err != nil {
			return err
		}

		if r.ItemModelIDMap == nil {
			r.ItemModelIDMap = make(map[string]string)
		}
		r.ItemModelIDMap[itemID] = item.ModelID
		if err := tx.Set(roomsPath(listID), roomID, &r); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (uc *roomUseCase) SelectItem(ctx context.Context, listID, roomID, itemID string) error {
	return uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var r model.Room
		if err := tx.Get(roomsPath(listID), roomID, &r); err != nil {
			return err
		}
		if _, member := r.ItemModelIDMap[itemID]; !member {
			// Selecting a non-member is a no-op, not an error.
			return nil
		}
		if r.SelectedItemIDSet == nil {
			r.SelectedItemIDSet = make(map[string]bool)
		}
		r.SelectedItemIDSet[itemID] = true
		return tx.Set(roomsPath(listID), roomID, &r)
	})
}

func (uc *roomUseCase) DeselectItem(ctx context.Context, listID, roomID, itemID string) error {
	return uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var r model.Room
		if err := tx.Get(roomsPath(listID), roomID, &r); err != nil {
			return err
		}
		delete(r.SelectedItemIDSet, itemID)
		return tx.Set(roomsPath(listID), roomID, &r)
	})
}

func (uc *roomUseCase) MoveItemToRoom(ctx context.Context, listID, itemID, fromRoomID, toRoomID string) (bool, error) {
	if fromRoomID == toRoomID {
		return false, nil
	}
	moved := false
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var from, to model.Room
		if err := tx.Get(roomsPath(listID), fromRoomID, &from); err != nil {
			return err
		}
		if err := tx.Get(roomsPath(listID), toRoomID, &to); err != nil {
			return err
		}

		modelID, present := from.ItemModelIDMap[itemID]
		if !present {
			return nil
		}
		if _, exists := to.ItemModelIDMap[itemID]; exists {
			return nil
		}

		delete(from.ItemModelIDMap, itemID)
		delete(from.SelectedItemIDSet, itemID)
		if to.ItemModelIDMap == nil {
			to.ItemModelIDMap = make(map[string]string)
		}
		to.ItemModelIDMap[itemID] = modelID

		if err := tx.Set(roomsPath(listID), fromRoomID, &from); err != nil {
			return err
		}
		if err := tx.Set(roomsPath(listID), toRoomID, &to); err != nil {
			return err
		}
		moved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return moved, nil
}

func (uc *roomUseCase) RemoveItemFromRoom(ctx context.Context, listID, roomID, itemID string) (bool, error) {
	removed := false
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var r model.Room
		if err := tx.Get(roomsPath(listID), roomID, &r); err != nil {
			return err
		}
		if _, present := r.ItemModelIDMap[itemID]; !present {
			return nil
		}
		delete(r.ItemModelIDMap, itemID)
		delete(r.SelectedItemIDSet, itemID)
		if err := tx.Set(roomsPath(listID), roomID, &r); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (uc *roomUseCase) GetRoom(ctx context.Context, listID, roomID string) (*model.Room, error) {
	var r model.Room
	if err := uc.store.Get(ctx, roomsPath(listID), roomID, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
