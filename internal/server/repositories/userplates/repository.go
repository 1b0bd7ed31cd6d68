// Package userplates persists the (user, plate) ownership records.
package userplates

import (
	"context"

	"github.com/dmitrijs2005/carblock/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID, plate string, isPrimary bool, departureTime string) (*models.UserPlate, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserPlate, error)
	FindPrimary(ctx context.Context, userID string) (*models.UserPlate, error)
	FindByPlate(ctx context.Context, plate string) ([]*models.UserPlate, error)
	SetPrimary(ctx context.Context, id, userID string) error
	UpdateDepartureTime(ctx context.Context, id, userID, departureTime string) error
	Delete(ctx context.Context, id, userID string) error
}
