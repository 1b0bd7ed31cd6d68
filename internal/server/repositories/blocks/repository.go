// Package blocks persists block records and owns their pair-uniqueness
// invariant.
package blocks

import (
	"context"

	"github.com/dmitrijs2005/carblock/internal/server/models"
)

type Repository interface {
	// Create inserts a block. The uniqueness check and the insert are a
	// single constrained INSERT: when two writers race on the same pair,
	// exactly one succeeds and the other gets common.ErrorAlreadyExists.
	Create(ctx context.Context, blockerID, blockerPlate, blockedPlate string) (*models.Block, error)
	GetByID(ctx context.Context, id string) (*models.Block, error)
	ListByBlocker(ctx context.Context, blockerID string) ([]*models.Block, error)
	ListByBlockerPlates(ctx context.Context, plates []string) ([]*models.Block, error)
	ListByBlockedPlate(ctx context.Context, plate string) ([]*models.Block, error)
	Exists(ctx context.Context, blockerPlate, blockedPlate string) (bool, error)
	Delete(ctx context.Context, id string) error
}
