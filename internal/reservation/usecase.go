package reservation

import (
	"context"

	"github.com/furnishd/staging-service/internal/model"
)

// UseCase is the reservation engine. It owns every mutation of
// Item.IsAvailable and Model.AvailableItemCount; both always change inside
// one store transaction so the counter and the flag cannot drift apart.
type UseCase interface {
	// Validate dry-runs an install. It reads outside the commit transaction,
	// so success is advisory: a concurrent install may still win the items.
	Validate(ctx context.Context, pullList *model.List, rooms []*model.Room) error

	// CommitInstall validates, then atomically creates the installed list,
	// copies rooms restricted to their selections, flips item availability,
	// and decrements model counters. Validation errors pass through
	// unchanged; any transaction failure surfaces as ErrCreationFailed.
	// The originating pull list is untouched; the caller deletes it after a
	// successful commit.
	CommitInstall(ctx context.Context, pullList *model.List, rooms []*model.Room) (*model.List, error)

	// RestoreItem returns one item to warehouse circulation: listId set to
	// the storage location, availability flipped back on, model counter
	// incremented — all in one transaction. Restoring an already-available
	// item is a no-op.
	RestoreItem(ctx context.Context, itemID, warehouseID string) error

	// SetListUnstaged marks an installed list unstaged once its items have
	// been restored. Metadata-only and idempotent; completion is
	// caller-driven.
	SetListUnstaged(ctx context.Context, listID string) error

	// CopyInstalledToPull duplicates an installed list into a fresh planning
	// pull list (rooms copied verbatim under new ids). Item availability is
	// not touched: this creates a draft, it does not re-reserve.
	CopyInstalledToPull(ctx context.Context, installedListID string) (*model.List, error)
}
