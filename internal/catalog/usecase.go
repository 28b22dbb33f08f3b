package catalog

import (
	"context"

	"github.com/furnishd/staging-service/internal/catalog/dto"
	"github.com/furnishd/staging-service/internal/model"
)

// UseCase maintains the shared furniture catalog: models and their physical
// items. Item-count changes co-commit the item documents, the model's item
// list, and the availability counter in one transaction.
type UseCase interface {
	CreateModel(ctx context.Context, input *dto.CreateModelInput) (*model.Model, error)
	GetModel(ctx context.Context, modelID string) (*model.Model, error)
	GetItem(ctx context.Context, itemID string) (*model.Item, error)
	ListModels(ctx context.Context, filters *dto.ModelFilters) ([]model.Model, int, error)

	// AddItems mints n new available items for a model in the given
	// warehouse. Returns the new item ids.
	AddItems(ctx context.Context, modelID string, n int, warehouseID string) ([]string, error)
	// RemoveItem deletes one available item from a model. Items reserved by
	// an installed list cannot be removed.
	RemoveItem(ctx context.Context, modelID, itemID string) error
	// DeleteModel deletes a model together with all of its items; rejected
	// while any item is installed somewhere.
	DeleteModel(ctx context.Context, modelID string) error

	SetItemAttention(ctx context.Context, itemID, reason string) error
	ClearItemAttention(ctx context.Context, itemID string) error
}
