package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

const subscriptionColumns = `s.id, s.user_id, s.name, s.amount, s.currency, s.converted_amount,
	s.start_date, s.end_date, s.billing_cycle, s.category, s.reminder_days_before,
	s.renewal_method, s.notes, s.is_active, s.created_at, s.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner, dst *models.Subscription, extra ...any) error {
	var method string
	args := []any{
		&dst.ID, &dst.UserID, &dst.Name, &dst.Amount, &dst.Currency, &dst.ConvertedAmount,
		&dst.StartDate, &dst.EndDate, &dst.BillingCycle, &dst.Category, &dst.ReminderDaysBefore,
		&method, &dst.Notes, &dst.IsActive, &dst.CreatedAt, &dst.UpdatedAt,
	}
	if err := row.Scan(append(args, extra...)...); err != nil {
		return err
	}
	dst.RenewalMethod = models.RenewalMethod(method)
	return nil
}

// CreateSubscription сохраняет новую подписку.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO subscriptions (id, user_id, name, amount, currency, converted_amount,
				  start_date, end_date, billing_cycle, category, reminder_days_before,
				  renewal_method, notes, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)`
	_, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.Name, sub.Amount, sub.Currency, sub.ConvertedAmount,
		sub.StartDate, sub.EndDate, sub.BillingCycle, sub.Category, sub.ReminderDaysBefore,
		string(sub.RenewalMethod), sub.Notes, sub.IsActive, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscription возвращает подписку пользователя по ID.
func (s *Storage) GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  WHERE s.id = $1 AND s.user_id = $2`
	var sub models.Subscription
	if err := scanSubscription(s.DB.QueryRowContext(ctx, query, id, userID), &sub); err != nil {
		return nil, notFoundOr(op, err, "subscription")
	}
	return &sub, nil
}

// UpdateSubscription перезаписывает изменяемые поля подписки владельца.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE subscriptions
			  SET name = $1, amount = $2, currency = $3, converted_amount = $4,
			      start_date = $5, end_date = $6, billing_cycle = $7, category = $8,
			      reminder_days_before = $9, renewal_method = $10, notes = $11,
			      is_active = $12, updated_at = $13
			  WHERE id = $14 AND user_id = $15`
	res, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.Amount, sub.Currency, sub.ConvertedAmount,
		sub.StartDate, sub.EndDate, sub.BillingCycle, sub.Category,
		sub.ReminderDaysBefore, string(sub.RenewalMethod), sub.Notes,
		sub.IsActive, sub.UpdatedAt, sub.ID, sub.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOrNotFound(op, res, "subscription")
}

// DeleteSubscription удаляет подписку владельца.
func (s *Storage) DeleteSubscription(ctx context.Context, userID, id string) error {
	const op = "storage.DeleteSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOrNotFound(op, res, "subscription")
}

// ListSubscriptions возвращает все подписки пользователя в порядке создания.
func (s *Storage) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  WHERE s.user_id = $1
			  ORDER BY s.created_at, s.id`
	return s.querySubscriptions(ctx, op, query, userID)
}

// ListSubscriptionsOverlapping возвращает подписки, чей период [start_date, end_date]
// пересекается с окном [from, to].
func (s *Storage) ListSubscriptionsOverlapping(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptionsOverlapping"
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  WHERE s.user_id = $1
			    AND s.start_date <= $3
			    AND s.end_date >= $2
			  ORDER BY s.created_at, s.id`
	return s.querySubscriptions(ctx, op, query, userID, from, to)
}

// ListSubscriptionsStartedBetween возвращает подписки, начавшиеся в окне [from, to].
func (s *Storage) ListSubscriptionsStartedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptionsStartedBetween"
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  WHERE s.user_id = $1
			    AND s.start_date >= $2
			    AND s.start_date <= $3
			  ORDER BY s.created_at, s.id`
	return s.querySubscriptions(ctx, op, query, userID, from, to)
}

// ListSubscriptionsWithOwners возвращает все подписки системы вместе с владельцами.
// Owner равен nil, если пользователь отсутствует.
func (s *Storage) ListSubscriptionsWithOwners(ctx context.Context) ([]models.SubscriptionWithOwner, error) {
	const op = "storage.ListSubscriptionsWithOwners"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + `, u.id, u.email, u.full_name, u.is_premium, u.created_at
			  FROM subscriptions s
			  LEFT JOIN users u ON u.id = s.user_id
			  ORDER BY s.end_date, s.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SubscriptionWithOwner
	for rows.Next() {
		var (
			item      models.SubscriptionWithOwner
			ownerID   sql.NullString
			email     sql.NullString
			fullName  sql.NullString
			isPremium sql.NullBool
			createdAt sql.NullTime
		)
		if err := scanSubscription(rows, &item.Subscription, &ownerID, &email, &fullName, &isPremium, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ownerID.Valid {
			item.Owner = &models.User{
				ID:        ownerID.String,
				Email:     email.String,
				FullName:  fullName.String,
				IsPremium: isPremium.Bool,
				CreatedAt: createdAt.Time,
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) querySubscriptions(ctx context.Context, op, query string, args ...any) ([]models.Subscription, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		var item models.Subscription
		if err := scanSubscription(rows, &item); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func affectedOrNotFound(op string, res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.NotFound("%s not found", what))
	}
	return nil
}
