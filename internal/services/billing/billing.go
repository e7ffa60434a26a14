// Package billing обрабатывает вебхуки Stripe и включает премиум-доступ после оплаты.
package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/harshpatel-22/subsight-backend/internal/lib/apperr"
	"github.com/harshpatel-22/subsight-backend/internal/lib/sl"
)

// UserRepository хранилище пользователей.
type UserRepository interface {
	SetPremiumByEmail(ctx context.Context, email string) error
}

// Service обработчик событий Stripe.
type Service struct {
	repo   UserRepository
	secret string
	log    *slog.Logger
}

// NewService создаёт Service.
func NewService(log *slog.Logger, repo UserRepository, webhookSecret string) *Service {
	return &Service{repo: repo, secret: webhookSecret, log: log}
}

// HandleWebhook проверяет подпись и обрабатывает событие.
// Неверная подпись возвращает ошибку валидации, неизвестные события игнорируются.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "services.billing.HandleWebhook"
	log := s.log.With(sl.Op(op))

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Warn("invalid webhook signature", sl.Err(err))
		return apperr.Validation("invalid webhook signature")
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		log.Debug("ignoring webhook event", slog.String("type", string(event.Type)))
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperr.Validation("invalid checkout session payload")
	}

	email := session.CustomerEmail
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email = session.CustomerDetails.Email
	}
	if email == "" {
		log.Warn("checkout session without customer email", slog.String("session", session.ID))
		return apperr.Validation("checkout session has no customer email")
	}

	if err := s.repo.SetPremiumByEmail(ctx, email); err != nil {
		if _, ok := apperr.KindOf(err); ok {
			return fmt.Errorf("%s: %w", op, err)
		}
		return apperr.Upstream("failed to update user", fmt.Errorf("%s: %w", op, err))
	}
	log.Info("premium enabled", slog.String("session", session.ID))
	return nil
}
