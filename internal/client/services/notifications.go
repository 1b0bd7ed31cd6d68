package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carblock/internal/client/api"
	"github.com/dmitrijs2005/carblock/internal/common"
)

type notificationsAPI interface {
	Notifications(ctx context.Context, unreadOnly bool) ([]*api.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

type NotificationService struct {
	api notificationsAPI
}

func NewNotificationService(apiClient notificationsAPI) *NotificationService {
	return &NotificationService{api: apiClient}
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]*api.Notification, error) {
	return s.api.Notifications(ctx, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: notification id is required", common.ErrorValidation)
	}
	return s.api.MarkNotificationRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.api.MarkAllNotificationsRead(ctx)
}
