// Package analytics считает траты пользователя по подпискам: за месяц, за год,
// по категориям и рейтинг самых дорогих. Результаты кэшируются в Redis.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/dates"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/models"
)

// Repository источник подписок пользователя.
type Repository interface {
	ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error)
	ListSubscriptionsOverlapping(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error)
	ListSubscriptionsStartedBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Subscription, error)
}

// Cache кэш результатов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service аналитика трат.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	loc   *time.Location
	log   *slog.Logger
}

// NewService создаёт Service. cache может быть nil, тогда результаты не кэшируются.
func NewService(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, loc: loc, log: log}
}

// KeyPrefix префикс всех ключей кэша аналитики пользователя.
func KeyPrefix(userID string) string {
	return "analytics:" + userID + ":"
}

// ParseMonth разбирает номер месяца из строки запроса.
func ParseMonth(raw string) (time.Month, error) {
	if raw == "" {
		return 0, apperr.Validation("month and year are required")
	}
	m, err := strconv.Atoi(raw)
	if err != nil || m < 1 || m > 12 {
		return 0, apperr.Validation("month must be between 1 and 12")
	}
	return time.Month(m), nil
}

// ParseYear разбирает год из строки запроса.
func ParseYear(raw string) (int, error) {
	if raw == "" {
		return 0, apperr.Validation("year is required")
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1 || y > 9999 {
		return 0, apperr.Validation("invalid year")
	}
	return y, nil
}

// Monthly траты за месяц.
func (s *Service) Monthly(ctx context.Context, userID string, year int, month time.Month) (models.MonthlySpending, error) {
	const op = "services.analytics.Monthly"
	key := fmt.Sprintf("%smonthly:%04d-%02d", KeyPrefix(userID), year, month)
	var result models.MonthlySpending
	err := s.cached(ctx, op, key, &result, func() error {
		from, to := dates.MonthWindow(year, month, s.loc)
		subs, err := s.repo.ListSubscriptionsOverlapping(ctx, userID, from, to)
		if err != nil {
			return err
		}
		result = Monthly(subs, year, month, s.loc)
		return nil
	})
	return result, err
}

// Yearly траты за год по месяцам.
func (s *Service) Yearly(ctx context.Context, userID string, year int) (models.YearlySpending, error) {
	const op = "services.analytics.Yearly"
	key := fmt.Sprintf("%syearly:%04d", KeyPrefix(userID), year)
	var result models.YearlySpending
	err := s.cached(ctx, op, key, &result, func() error {
		from, to := dates.YearWindow(year, s.loc)
		subs, err := s.repo.ListSubscriptionsStartedBetween(ctx, userID, from, to)
		if err != nil {
			return err
		}
		result = Yearly(subs, year, s.loc)
		return nil
	})
	return result, err
}

// Category траты по категориям за всё время.
func (s *Service) Category(ctx context.Context, userID string) (models.CategorySpending, error) {
	const op = "services.analytics.Category"
	var result models.CategorySpending
	err := s.cached(ctx, op, KeyPrefix(userID)+"category", &result, func() error {
		subs, err := s.repo.ListSubscriptions(ctx, userID)
		if err != nil {
			return err
		}
		result = ByCategory(subs)
		return nil
	})
	return result, err
}

// Top самые дорогие подписки.
func (s *Service) Top(ctx context.Context, userID string) ([]models.TopSubscription, error) {
	const op = "services.analytics.Top"
	var result []models.TopSubscription
	err := s.cached(ctx, op, KeyPrefix(userID)+"top", &result, func() error {
		subs, err := s.repo.ListSubscriptions(ctx, userID)
		if err != nil {
			return err
		}
		result = Top(subs)
		return nil
	})
	return result, err
}

// cached читает результат из кэша, а при промахе вызывает compute и сохраняет
// результат. Сбои Redis только логируются.
func (s *Service) cached(ctx context.Context, op, key string, result any, compute func() error) error {
	log := s.log.With(sl.Op(op))
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, result)
		if err != nil {
			log.Warn("failed to read analytics cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return nil
		}
	}

	if err := compute(); err != nil {
		return apperr.Upstream("failed to load subscriptions", fmt.Errorf("%s: %w", op, err))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			log.Warn("failed to write analytics cache", slog.String("key", key), sl.Err(err))
		}
	}
	return nil
}
