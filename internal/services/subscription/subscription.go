// Package subscription реализует управление подписками пользователя:
// создание, чтение, изменение, удаление и продление.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/dates"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
	"github.com/harshpatel-22/subsight-backend/internal/models"
	"github.com/harshpatel-22/subsight-backend/internal/services/analytics"
)

// DefaultCurrency валюта подписки, если она не указана.
const DefaultCurrency = "USD"

// Repository хранилище подписок.
type Repository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	GetSubscription(ctx context.Context, userID, id string) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	DeleteSubscription(ctx context.Context, userID, id string) error
	ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error)
}

// Converter переводит сумму в валюту отчётов.
type Converter interface {
	Convert(ctx context.Context, from string, amount float64) (float64, error)
}

// Invalidator сбрасывает кэш по префиксу ключа.
type Invalidator interface {
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Service операции над подписками.
type Service struct {
	repo      Repository
	converter Converter
	cache     Invalidator
	log       *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewService создаёт Service. cache может быть nil. Даты из запросов
// читаются как полночь в поясе loc, тем же, в котором считаются напоминания
// и окна аналитики.
func NewService(log *slog.Logger, repo Repository, converter Converter, cache Invalidator, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		converter: converter,
		cache:     cache,
		log:       log,
		loc:       loc,
		now:       time.Now,
	}
}

// Create создаёт подписку. EndDate вычисляется из даты начала и цикла оплаты.
func (s *Service) Create(ctx context.Context, userID string, req models.SubscriptionRequest) (*models.Subscription, error) {
	const op = "services.subscription.Create"

	sub := models.Subscription{
		ID:       uuid.NewString(),
		UserID:   userID,
		IsActive: true,
	}
	if err := s.apply(ctx, &sub, req); err != nil {
		return nil, err
	}
	sub.CreatedAt = s.now().UTC()
	sub.UpdatedAt = sub.CreatedAt

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, storageErr(op, err)
	}
	s.log.Info("created new subscription", sl.Op(op), slog.String("id", sub.ID))
	s.invalidate(ctx, userID)
	return &sub, nil
}

// Get возвращает подписку пользователя.
func (s *Service) Get(ctx context.Context, userID, id string) (*models.Subscription, error) {
	const op = "services.subscription.Get"
	if err := checkID(id); err != nil {
		return nil, err
	}
	sub, err := s.repo.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, storageErr(op, err)
	}
	return sub, nil
}

// List возвращает все подписки пользователя.
func (s *Service) List(ctx context.Context, userID string) ([]models.Subscription, error) {
	const op = "services.subscription.List"
	subs, err := s.repo.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, storageErr(op, err)
	}
	return subs, nil
}

// Update перезаписывает подписку. EndDate пересчитывается.
func (s *Service) Update(ctx context.Context, userID, id string, req models.SubscriptionRequest) (*models.Subscription, error) {
	const op = "services.subscription.Update"
	if err := checkID(id); err != nil {
		return nil, err
	}
	sub, err := s.repo.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, storageErr(op, err)
	}
	if err := s.apply(ctx, sub, req); err != nil {
		return nil, err
	}
	sub.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
		return nil, storageErr(op, err)
	}
	s.invalidate(ctx, userID)
	return sub, nil
}

// Delete удаляет подписку.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	const op = "services.subscription.Delete"
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteSubscription(ctx, userID, id); err != nil {
		return storageErr(op, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// Renew продлевает подписку на billingCycle месяцев от текущей даты окончания
// и снова делает её активной. Сохранённый цикл оплаты не меняется.
func (s *Service) Renew(ctx context.Context, userID, id string, billingCycle int) (*models.Subscription, error) {
	const op = "services.subscription.Renew"
	if err := checkID(id); err != nil {
		return nil, err
	}
	if !validCycle(billingCycle) {
		return nil, apperr.Validation("billingCycle must be 1, 3 or 12")
	}
	sub, err := s.repo.GetSubscription(ctx, userID, id)
	if err != nil {
		return nil, storageErr(op, err)
	}

	sub.EndDate = dates.AddMonths(sub.EndDate.In(s.loc), billingCycle)
	sub.IsActive = true
	sub.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
		return nil, storageErr(op, err)
	}
	s.log.Info("subscription renewed", sl.Op(op), slog.String("id", id),
		slog.String("end_date", sub.EndDate.Format(dates.Layout)))
	s.invalidate(ctx, userID)
	return sub, nil
}

// apply переносит поля запроса в подписку и пересчитывает производные поля.
func (s *Service) apply(ctx context.Context, sub *models.Subscription, req models.SubscriptionRequest) error {
	const op = "services.subscription.apply"

	start, err := time.ParseInLocation(dates.Layout, req.StartDate, s.loc)
	if err != nil {
		return apperr.Validation("startDate must be in YYYY-MM-DD format")
	}
	if !validCycle(req.BillingCycle) {
		return apperr.Validation("billingCycle must be 1, 3 or 12")
	}
	if req.Amount <= 0 {
		return apperr.Validation("amount must be greater than 0")
	}

	method := models.RenewalMethod(req.RenewalMethod)
	if method != models.RenewalAuto && method != models.RenewalManual {
		return apperr.Validation("renewalMethod must be auto or manual")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	converted, err := s.converter.Convert(ctx, currency, req.Amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	lead := models.DefaultReminderDaysBefore
	if req.ReminderDaysBefore != nil {
		lead = *req.ReminderDaysBefore
	}

	sub.Name = strings.TrimSpace(req.Name)
	sub.Amount = req.Amount
	sub.Currency = currency
	sub.ConvertedAmount = converted
	sub.StartDate = start
	sub.BillingCycle = req.BillingCycle
	sub.EndDate = dates.AddMonths(start, req.BillingCycle)
	sub.Category = strings.TrimSpace(req.Category)
	sub.ReminderDaysBefore = lead
	sub.RenewalMethod = method
	sub.Notes = req.Notes
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePrefix(ctx, analytics.KeyPrefix(userID)); err != nil {
		s.log.Warn("failed to invalidate analytics cache", slog.String("user_id", userID), sl.Err(err))
	}
}

func validCycle(c int) bool {
	return c == 1 || c == 3 || c == 12
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("subscription not found")
	}
	return nil
}

func storageErr(op string, err error) error {
	if _, ok := apperr.KindOf(err); ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return apperr.Upstream("storage failure", fmt.Errorf("%s: %w", op, err))
}
