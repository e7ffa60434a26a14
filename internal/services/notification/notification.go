// Package notification управляет непрочитанными уведомлениями пользователя.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// Repository хранилище уведомлений.
type Repository interface {
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	ClearNotifications(ctx context.Context, userID string) (int, error)
}

// Service операции над уведомлениями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService создаёт Service.
func NewService(log *slog.Logger, repo Repository) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает непрочитанные уведомления в порядке добавления.
func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	const op = "services.notification.List"
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, wrap(op, err)
	}
	return list, nil
}

// MarkRead помечает одно уведомление прочитанным.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	const op = "services.notification.MarkRead"
	if err := checkUser(userID); err != nil {
		return err
	}
	if _, err := uuid.Parse(notificationID); err != nil {
		return apperr.Validation("invalid notification id")
	}
	if err := s.repo.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		return wrap(op, err)
	}
	return nil
}

// MarkAll помечает прочитанными все уведомления пользователя и возвращает их число.
func (s *Service) MarkAll(ctx context.Context, userID string) (int, error) {
	const op = "services.notification.MarkAll"
	if err := checkUser(userID); err != nil {
		return 0, err
	}
	n, err := s.repo.ClearNotifications(ctx, userID)
	if err != nil {
		return 0, wrap(op, err)
	}
	s.log.Debug("notifications cleared", sl.Op(op), slog.Int("count", n))
	return n, nil
}

// checkUser отсекает идентификаторы, которых заведомо нет в базе.
func checkUser(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	return nil
}

func wrap(op string, err error) error {
	if _, ok := apperr.KindOf(err); ok || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return apperr.Upstream("storage failure", fmt.Errorf("%s: %w", op, err))
}
