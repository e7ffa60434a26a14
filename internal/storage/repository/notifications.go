package repository

import (
	"context"
	"fmt"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// InsertNotification добавляет уведомление в конец списка пользователя.
func (s *Storage) InsertNotification(ctx context.Context, n models.Notification) error {
	const op = "storage.InsertNotification"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO notifications (user_id, id, title, unread, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query, n.UserID, n.ID, n.Title, n.Unread, n.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListNotifications возвращает уведомления пользователя в порядке добавления.
func (s *Storage) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	const op = "storage.ListNotifications"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, title, unread, created_at
			  FROM notifications
			  WHERE user_id = $1
			  ORDER BY created_at, seq`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Unread, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkNotificationRead помечает уведомление прочитанным. Прочитанные не хранятся,
// поэтому пометка и удаление выполняются одним DELETE по ключу (user_id, id).
func (s *Storage) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	const op = "storage.MarkNotificationRead"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	var deleted string
	err := s.DB.QueryRowContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1 AND id = $2 RETURNING id`,
		userID, notificationID).Scan(&deleted)
	if err != nil {
		return notFoundOr(op, err, "notification")
	}
	return nil
}

// ClearNotifications удаляет все уведомления пользователя одним запросом и
// возвращает их количество. NotFound, только если нет самого пользователя.
func (s *Storage) ClearNotifications(ctx context.Context, userID string) (int, error) {
	const op = "storage.ClearNotifications"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `WITH owner AS (
				  SELECT id FROM users WHERE id = $1
			  ), cleared AS (
				  DELETE FROM notifications
				  WHERE user_id IN (SELECT id FROM owner)
				  RETURNING 1
			  )
			  SELECT EXISTS (SELECT 1 FROM owner), (SELECT count(*) FROM cleared)`
	var (
		userExists bool
		cleared    int
	)
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&userExists, &cleared); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !userExists {
		return 0, fmt.Errorf("%s: %w", op, apperr.NotFound("user not found"))
	}
	return cleared, nil
}
