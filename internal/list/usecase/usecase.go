package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/identity"
	"github.com/furnishd/staging-service/internal/list"
	"github.com/furnishd/staging-service/internal/list/dto"
	"github.com/furnishd/staging-service/internal/model"
	"github.com/furnishd/staging-service/internal/reservation"
	"github.com/furnishd/staging-service/pkg/logger"
	"go.uber.org/zap"
)

type listUseCase struct {
	store  docstore.Store
	engine reservation.UseCase
	logger logger.ZapLogger
}

func NewListUseCase(store docstore.Store, engine reservation.UseCase, log logger.ZapLogger) list.UseCase {
	return &listUseCase{
		store:  store,
		engine: engine,
		logger: log,
	}
}

func (uc *listUseCase) CreatePullList(ctx context.Context, input *dto.CreatePullListInput) (*model.List, error) {
	l := &model.List{
		ID:          identity.NewID(),
		Address:     input.Address,
		Client:      input.Client,
		InstallDate: input.InstallDate,
		Status:      model.StatusPlanning,
		ListType:    model.TypePullList,
		CreatedDate: time.Now(),
	}
	if err := uc.store.Set(ctx, model.CollectionPullLists, l.ID, l); err != nil {
		return nil, err
	}
	uc.logger.Info("created pull list", zap.String("list_id", l.ID), zap.String("address", l.Address))
	return l, nil
}

func (uc *listUseCase) GetList(ctx context.Context, listID string) (*model.List, error) {
	var l model.List
	err := uc.store.Get(ctx, model.CollectionPullLists, listID, &l)
	if errors.Is(err, docstore.ErrNotFound) {
		err = uc.store.Get(ctx, model.CollectionInstalledLists, listID, &l)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (uc *listUseCase) ListRooms(ctx context.Context, listID string) ([]*model.Room, error) {
	l, err := uc.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	return uc.loadRooms(ctx, l)
}

func (uc *listUseCase) loadRooms(ctx context.Context, l *model.List) ([]*model.Room, error) {
	roomsPath := model.RoomsCollection(l.Collection(), l.ID)
	rooms := make([]*model.Room, 0, len(l.RoomIDs))
	for _, roomID := range l.RoomIDs {
		var r model.Room
		if err := uc.store.Get(ctx, roomsPath, roomID, &r); err != nil {
			return nil, err
		}
		rooms = append(rooms, &r)
	}
	return rooms, nil
}

func (uc *listUseCase) BeginInstall(ctx context.Context, listID string) error {
	return uc.transition(ctx, listID, model.StatusStaging)
}

func (uc *listUseCase) RevertToPlanning(ctx context.Context, listID string) error {
	return uc.transition(ctx, listID, model.StatusPlanning)
}

func (uc *listUseCase) transition(ctx context.Context, listID string, to model.ListStatus) error {
	return uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var l model.List
		if err := tx.Get(model.CollectionPullLists, listID, &l); err != nil {
			return err
		}
		if l.Status == to {
			return nil
		}
		if !model.CanTransition(l.Status, to) {
			return fmt.Errorf("list %s: transition %s -> %s not allowed", listID, l.Status, to)
		}
		l.Status = to
		return tx.Set(model.CollectionPullLists, listID, &l)
	})
}

func (uc *listUseCase) ValidatePullList(ctx context.Context, listID string) error {
	var l model.List
	if err := uc.store.Get(ctx, model.CollectionPullLists, listID, &l); err != nil {
		return err
	}
	rooms, err := uc.loadRooms(ctx, &l)
	if err != nil {
		return err
	}
	return uc.engine.Validate(ctx, &l, rooms)
}

func (uc *listUseCase) CreateInstalledList(ctx context.Context, pullListID string) (string, error) {
	var pull model.List
	if err := uc.store.Get(ctx, model.CollectionPullLists, pullListID, &pull); err != nil {
		return "", err
	}
	if pull.Status != model.StatusStaging {
		return "", fmt.Errorf("list %s: install requires staging status, got %s", pullListID, pull.Status)
	}
	rooms, err := uc.loadRooms(ctx, &pull)
	if err != nil {
		return "", err
	}

	installed, err := uc.engine.CommitInstall(ctx, &pull, rooms)
	if err != nil {
		return "", err
	}

	// The install committed; the originating pull list is now redundant and
	// goes away with its rooms in one cleanup transaction.
	cleanupErr := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		roomsPath := model.RoomsCollection(model.CollectionPullLists, pullListID)
		for _, roomID := range pull.RoomIDs {
			if err := tx.Delete(roomsPath, roomID); err != nil {
				return err
			}
		}
		return tx.Delete(model.CollectionPullLists, pullListID)
	})
	if cleanupErr != nil {
		uc.logger.Error("pull list cleanup failed after install",
			zap.String("pull_list_id", pullListID),
			zap.String("installed_list_id", installed.ID),
			zap.Error(cleanupErr),
		)
		return installed.ID, fmt.Errorf("installed list %s created but pull list cleanup failed: %w", installed.ID, cleanupErr)
	}
	return installed.ID, nil
}

func (uc *listUseCase) SetUnstaged(ctx context.Context, listID string) error {
	return uc.engine.SetListUnstaged(ctx, listID)
}

func (uc *listUseCase) CopyToPull(ctx context.Context, installedListID string) (*model.List, error) {
	return uc.engine.CopyInstalledToPull(ctx, installedListID)
}
