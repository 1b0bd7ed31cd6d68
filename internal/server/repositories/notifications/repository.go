// Package notifications persists durable in-app notifications.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/carblock/internal/server/models"
)

// CreateNotification is the payload for a new (unread) notification.
type CreateNotification struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Data    []byte // optional JSON payload
}

type Repository interface {
	Create(ctx context.Context, n *CreateNotification) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error)
	// MarkRead flips a single notification to read. Marking someone
	// else's notification (or one already read) matches zero rows and
	// silently succeeds.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
