// Package users persists accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/carblock/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhoneHash(ctx context.Context, phoneHash string) (*models.User, error)
	Update(ctx context.Context, id string, upd *models.UpdateUser) (*models.User, error)
	SetPushToken(ctx context.Context, id string, token string) error
}
