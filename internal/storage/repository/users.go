package repository

import (
	"context"
	"fmt"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// CreateUser добавляет пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO users (id, email, full_name, is_premium)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query, user.ID, user.Email, user.FullName, user.IsPremium); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, email, full_name, is_premium, created_at
			  FROM users WHERE id = $1`
	var u models.User
	err := s.DB.QueryRowContext(ctx, query, userID).
		Scan(&u.ID, &u.Email, &u.FullName, &u.IsPremium, &u.CreatedAt)
	if err != nil {
		return nil, notFoundOr(op, err, "user")
	}
	return &u, nil
}

// SetPremiumByEmail включает премиум для пользователя с указанным email.
func (s *Storage) SetPremiumByEmail(ctx context.Context, email string) error {
	const op = "storage.SetPremiumByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET is_premium = TRUE WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.NotFound("user not found"))
	}
	return nil
}
