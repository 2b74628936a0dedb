package service

import (
	"context"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/socket"
)

// ============================================
// Notification Service
// ============================================

type NotificationService interface {
	GetForUser(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error)
	Counts(ctx context.Context, userID string) (total, unread int, err error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	broadcaster      *socket.Broadcaster
}

func NewNotificationService(notificationRepo repository.NotificationRepository, broadcaster *socket.Broadcaster) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
	}
}

func (s *notificationService) GetForUser(ctx context.Context, userID string, unreadOnly bool) ([]*repository.Notification, error) {
	notifications, err := s.notificationRepo.FindByUserID(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []*repository.Notification{}
	}
	return notifications, nil
}

func (s *notificationService) Counts(ctx context.Context, userID string) (int, int, error) {
	return s.notificationRepo.CountByUserID(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(ctx, notificationID, userID); err != nil {
		return err
	}
	s.pushCounts(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.pushCounts(ctx, userID)
	return nil
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return s.notificationRepo.Delete(ctx, notificationID, userID)
}

func (s *notificationService) pushCounts(ctx context.Context, userID string) {
	if s.broadcaster == nil {
		return
	}
	total, unread, err := s.notificationRepo.CountByUserID(ctx, userID)
	if err != nil {
		return
	}
	s.broadcaster.SendNotificationCount(userID, total, unread)
}
