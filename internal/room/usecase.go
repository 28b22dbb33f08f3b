package room

import (
	"context"

	"github.com/furnishd/staging-service/internal/model"
)

// UseCase manages draft item selection within a pull list's rooms before
// staging. Duplicate and missing-membership conditions are expected outcomes
// in interactive use, so they come back as booleans, not errors.
type UseCase interface {
	// CreateEmptyRoom appends a new empty room to the pull list. Returns
	// false without side effects when a name-equivalent room already exists.
	CreateEmptyRoom(ctx context.Context, listID, roomName string) (bool, error)

	// AddItemToRoom drafts a catalog item into a room. Returns false when
	// the item is already a member.
	AddItemToRoom(ctx context.Context, listID, roomID, itemID string) (bool, error)

	// SelectItem / DeselectItem toggle membership in the room's selected
	// set, persisted immediately. Selecting a non-member is a no-op.
	SelectItem(ctx context.Context, listID, roomID, itemID string) error
	DeselectItem(ctx context.Context, listID, roomID, itemID string) error

	// MoveItemToRoom moves an item between two rooms of the same list in one
	// atomic update: it can never end up claimed by zero or two rooms.
	// Returns false when the item is absent from the source or already
	// present in the target.
	MoveItemToRoom(ctx context.Context, listID, itemID, fromRoomID, toRoomID string) (bool, error)

	// RemoveItemFromRoom drops the item from the room's membership and
	// selection. Returns false when the item is not a member.
	RemoveItemFromRoom(ctx context.Context, listID, roomID, itemID string) (bool, error)

	GetRoom(ctx context.Context, listID, roomID string) (*model.Room, error)
}
