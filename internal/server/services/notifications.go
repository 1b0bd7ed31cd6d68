package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carblock/internal/common"
	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/repositories/repomanager"
)

// NotificationService exposes the durable notification feed. The only
// mutation is the unread to read transition.
type NotificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNotificationService(db *sql.DB, m repomanager.RepositoryManager) *NotificationService {
	return &NotificationService{db: db, repomanager: m}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]*models.Notification, error) {
	result, err := s.repomanager.Notifications(s.db).ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// MarkRead flips one notification to read. Marking a notification that is
// already read or not owned by the user silently succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repomanager.Notifications(s.db).MarkRead(ctx, id, userID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repomanager.Notifications(s.db).MarkAllRead(ctx, userID); err != nil {
		return common.ErrorInternal
	}
	return nil
}
