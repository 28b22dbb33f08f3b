package list

import (
	"context"

	"github.com/furnishd/staging-service/internal/list/dto"
	"github.com/furnishd/staging-service/internal/model"
)

// UseCase orchestrates the list lifecycle
// (planning -> staging -> installed -> unstaged) and delegates inventory
// mutation to the reservation engine.
type UseCase interface {
	CreatePullList(ctx context.Context, input *dto.CreatePullListInput) (*model.List, error)

	// GetList resolves a list id against both the pull and installed
	// collections.
	GetList(ctx context.Context, listID string) (*model.List, error)
	ListRooms(ctx context.Context, listID string) ([]*model.Room, error)

	// BeginInstall moves planning -> staging; RevertToPlanning undoes it.
	// Both are metadata-only and never touch items.
	BeginInstall(ctx context.Context, listID string) error
	RevertToPlanning(ctx context.Context, listID string) error

	// ValidatePullList dry-runs the staged selection against current
	// inventory without mutating anything.
	ValidatePullList(ctx context.Context, listID string) error

	// CreateInstalledList converts a staged pull list into a new installed
	// list via the reservation engine, then deletes the pull list and its
	// rooms. On validation failure the pull list stays in staging and the
	// typed error is passed through unchanged.
	CreateInstalledList(ctx context.Context, pullListID string) (string, error)

	SetUnstaged(ctx context.Context, listID string) error
	CopyToPull(ctx context.Context, installedListID string) (*model.List, error)
}
