package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/identity"
	"github.com/furnishd/staging-service/internal/model"
	"github.com/furnishd/staging-service/internal/reservation"
	"github.com/furnishd/staging-service/pkg/cache"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type reservationUseCase struct {
	store  docstore.Store
	cache  *cache.RedisClient // optional advisory install lock
	logger logger.ZapLogger
}

func NewReservationUseCase(store docstore.Store, cache *cache.RedisClient, log logger.ZapLogger) reservation.UseCase {
	return &reservationUseCase{
		store:  store,
		cache:  cache,
		logger: log,
	}
}

func (uc *reservationUseCase) Validate(ctx context.Context, pullList *model.List, rooms []*model.Room) error {
	modelItemCounts := make(map[string]int64)

	for _, room := range rooms {
		if err := room.Validate(); err != nil {
			return err
		}
		for itemID, modelID := range room.SelectedItems() {
			var item model.Item
			if err := uc.store.Get(ctx, model.CollectionItems, itemID, &item); err != nil {
				if errors.Is(err, docstore.ErrNotFound) {
					return &reservation.ValidationError{Code: reservation.CodeItemDoesNotExist, EntityID: itemID}
				}
				return err
			}
			if !item.IsAvailable {
				return &reservation.ValidationError{Code: reservation.CodeItemNotAvailable, EntityID: itemID}
			}
			modelItemCounts[modelID]++
		}
	}

	for modelID, required := range modelItemCounts {
		var m model.Model
		if err := uc.store.Get(ctx, model.CollectionModels, modelID, &m); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return &reservation.ValidationError{Code: reservation.CodeModelDoesNotExist, EntityID: modelID}
			}
			return err
		}
		if m.AvailableItemCount-required < 0 {
			return &reservation.ValidationError{Code: reservation.CodeModelAvailableCountInvalid, EntityID: modelID}
		}
	}
	return nil
}

func (uc *reservationUseCase) CommitInstall(ctx context.Context, pullList *model.List, rooms []*model.Room) (*model.List, error) {
	if uc.cache != nil {
		lockKey := "lock:install:" + pullList.ID
		lockValue := uuid.New().String()
		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 10*time.Second)
			if err != nil {
				uc.logger.Error("failed to acquire install lock", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, fmt.Errorf("install of list %s already in progress", pullList.ID)
		}
		defer uc.cache.ReleaseLock(ctx, lockKey, lockValue)
	}

	if err := uc.Validate(ctx, pullList, rooms); err != nil {
		return nil, err
	}

	now := time.Now()
	installed := &model.List{
		ID:            identity.NewID(),
		Address:       pullList.Address,
		Client:        pullList.Client,
		InstallDate:   pullList.InstallDate,
		UninstallDate: pullList.UninstallDate,
		Status:        model.StatusInstalled,
		ListType:      model.TypeInstalledList,
		CreatedDate:   now,
	}

	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		roomsPath := model.RoomsCollection(model.CollectionInstalledLists, installed.ID)
		removals := make(map[string]int64)

		for _, room := range rooms {
			committed := room.SelectedItems()

			copied := model.NewRoom(identity.RoomID(installed.ID, room.RoomName), room.RoomName, installed.ID)
			copied.ItemModelIDMap = committed
			installed.RoomIDs = append(installed.RoomIDs, copied.ID)
			if err := tx.Set(roomsPath, copied.ID, copied); err != nil {
				return err
			}

			for itemID, modelID := range committed {
				// Re-validate inside the transaction: the advisory Validate
				// above ran against a possibly stale read, and a concurrent
				// install may have claimed this item since.
				var item model.Item
				if err := tx.Get(model.CollectionItems, itemID, &item); err != nil {
					return fmt.Errorf("item %s: %w", itemID, err)
				}
				if !item.IsAvailable {
					return fmt.Errorf("item %s reserved concurrently", itemID)
				}

				item.ListID = installed.ID
				item.IsAvailable = false
				if err := tx.Set(model.CollectionItems, itemID, &item); err != nil {
					return err
				}
				removals[modelID]++
			}
		}

		for modelID, count := range removals {
			var m model.Model
			if err := tx.Get(model.CollectionModels, modelID, &m); err != nil {
				return fmt.Errorf("model %s: %w", modelID, err)
			}
			if m.AvailableItemCount-count < 0 {
				return fmt.Errorf("model %s has insufficient available items", modelID)
			}
			if err := tx.Increment(model.CollectionModels, modelID, model.FieldAvailableItemCount, -count); err != nil {
				return err
			}
		}

		return tx.Set(model.CollectionInstalledLists, installed.ID, installed)
	})
	if err != nil {
		uc.logger.Error("install transaction failed",
			zap.String("pull_list_id", pullList.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", reservation.ErrCreationFailed, err)
	}

	uc.logger.Info("created installed list",
		zap.String("pull_list_id", pullList.ID),
		zap.String("installed_list_id", installed.ID),
		zap.Int("rooms", len(installed.RoomIDs)),
	)
	return installed, nil
}

func (uc *reservationUseCase) RestoreItem(ctx context.Context, itemID, warehouseID string) error {
	return uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var item model.Item
		if err := tx.Get(model.CollectionItems, itemID, &item); err != nil {
			return err
		}
		if item.IsAvailable {
			// Already back in circulation; restoring again must not bump
			// the model counter a second time.
			return nil
		}

		item.ListID = warehouseID
		item.IsAvailable = true
		if err := tx.Set(model.CollectionItems, itemID, &item); err != nil {
			return err
		}
		return tx.Increment(model.CollectionModels, item.ModelID, model.FieldAvailableItemCount, 1)
	})
}

func (uc *reservationUseCase) SetListUnstaged(ctx context.Context, listID string) error {
	return uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var list model.List
		if err := tx.Get(model.CollectionInstalledLists, listID, &list); err != nil {
			return err
		}
		if list.Status == model.StatusUnstaged {
			return nil
		}
		if !model.CanTransition(list.Status, model.StatusUnstaged) {
			return fmt.Errorf("list %s: cannot unstage from status %s", listID, list.Status)
		}
		list.Status = model.StatusUnstaged
		return tx.Set(model.CollectionInstalledLists, listID, &list)
	})
}

func (uc *reservationUseCase) CopyInstalledToPull(ctx context.Context, installedListID string) (*model.List, error) {
	var installed model.List
	if err := uc.store.Get(ctx, model.CollectionInstalledLists, installedListID, &installed); err != nil {
		return nil, err
	}

	var rooms []*model.Room
	installedRoomsPath := model.RoomsCollection(model.CollectionInstalledLists, installedListID)
	for _, roomID := range installed.RoomIDs {
		var room model.Room
		if err := uc.store.Get(ctx, installedRoomsPath, roomID, &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}

	draft := &model.List{
		ID:            identity.NewID(),
		Address:       installed.Address,
		Client:        installed.Client,
		InstallDate:   installed.InstallDate,
		UninstallDate: installed.UninstallDate,
		Status:        model.StatusPlanning,
		ListType:      model.TypePullList,
		CreatedDate:   time.Now(),
	}

	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		roomsPath := model.RoomsCollection(model.CollectionPullLists, draft.ID)
		for _, room := range rooms {
			copied := model.NewRoom(identity.RoomID(draft.ID, room.RoomName), room.RoomName, draft.ID)
			for itemID, modelID := range room.ItemModelIDMap {
				copied.ItemModelIDMap[itemID] = modelID
			}
			for itemID, selected := range room.SelectedItemIDSet {
				copied.SelectedItemIDSet[itemID] = selected
			}
			draft.RoomIDs = append(draft.RoomIDs, copied.ID)
			if err := tx.Set(roomsPath, copied.ID, copied); err != nil {
				return err
			}
		}
		return tx.Set(model.CollectionPullLists, draft.ID, draft)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("copied installed list to pull list",
		zap.String("installed_list_id", installedListID),
		zap.String("pull_list_id", draft.ID),
	)
	return draft, nil
}
